package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindowRateLimiter counts requests per key inside the current process.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, frame time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  frame,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	now := rl.now()

	rl.Lock()
	defer rl.Unlock()

	w, ok := rl.clients[key]
	if !ok || !now.Before(w.resetAt) {
		rl.sweep(now)
		rl.clients[key] = &window{count: 1, resetAt: now.Add(rl.window)}
		return true, 0
	}

	if w.count < rl.limit {
		w.count++
		return true, 0
	}
	return false, w.resetAt.Sub(now)
}

// sweep drops expired windows so idle keys do not accumulate.
func (rl *FixedWindowRateLimiter) sweep(now time.Time) {
	for k, w := range rl.clients {
		if !now.Before(w.resetAt) {
			delete(rl.clients, k)
		}
	}
}
