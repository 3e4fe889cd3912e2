package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisFixedWindowLimiter shares counters across API instances.
type RedisFixedWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.SugaredLogger
}

func NewRedisFixedWindowLimiter(client *redis.Client, limit int, frame time.Duration, logger *zap.SugaredLogger) *RedisFixedWindowLimiter {
	return &RedisFixedWindowLimiter{client: client, limit: limit, window: frame, logger: logger}
}

func (rl *RedisFixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, rl.window)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open: an unavailable limiter must not take the API down with it.
		rl.logger.Warnw("rate limiter unavailable", "key", key, "error", err.Error())
		return true, 0
	}

	if incr.Val() <= int64(rl.limit) {
		return true, 0
	}

	retry := ttl.Val()
	if retry <= 0 {
		retry = rl.window
	}
	return false, retry
}
