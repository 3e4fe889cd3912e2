package ratelimiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindowLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(2, 5*time.Second)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := rl.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
	ok, _ = rl.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)

	ok, retry := rl.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 5*time.Second, retry)

	ok, _ = rl.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are counted independently")

	now = now.Add(2 * time.Second)
	_, retry = rl.Allow(ctx, "10.0.0.1")
	assert.Equal(t, 3*time.Second, retry)

	now = now.Add(3 * time.Second)
	ok, _ = rl.Allow(ctx, "10.0.0.1")
	assert.True(t, ok, "window resets")
}

func TestFixedWindowLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(1, time.Second)
	rl.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		rl.Allow(context.Background(), key)
	}
	now = now.Add(time.Second)
	rl.Allow(context.Background(), "d")

	assert.Len(t, rl.clients, 1)
}

func TestFixedWindowLimiter_ConcurrentCallers(t *testing.T) {
	rl := NewFixedWindowLimiter(10, time.Minute)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow(context.Background(), "shared"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}
