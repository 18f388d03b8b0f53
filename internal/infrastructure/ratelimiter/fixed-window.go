package ratelimiter

import (
	"sync"
	"sync/atomic"
	"time"
)

type FixedWindowRateLimiter struct {
	counts      sync.Map // string -> *windowState
	limit       int64
	window      time.Duration
	cleanupTick *time.Ticker
	done        chan struct{}
}

type windowState struct {
	count   int64        // atomic
	resetAt atomic.Value // stores time.Time
	mu      sync.Mutex   // only for reset (rare)
}

func NewFixedWindowRateLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	rl := &FixedWindowRateLimiter{
		limit:       int64(limit),
		window:      window,
		cleanupTick: time.NewTicker(window),
		done:        make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *FixedWindowRateLimiter) Allow(sourceKey string) (bool, time.Duration) {
	now := time.Now()
	windowStart := now.Truncate(rl.window)
	nextReset := windowStart.Add(rl.window)

	val, _ := rl.counts.LoadOrStore(sourceKey, &windowState{})
	state := val.(*windowState)

	// First request from this source
	if state.resetAt.Load() == nil {
		state.resetAt.Store(nextReset)
		atomic.StoreInt64(&state.count, 1)
		return true, 0
	}

	currentReset := state.resetAt.Load().(time.Time)

	if now.Before(currentReset) {
		// Still in current window
		newCount := atomic.AddInt64(&state.count, 1)
		if newCount-1 >= rl.limit {
			atomic.AddInt64(&state.count, -1) // rollback
			return false, time.Until(currentReset)
		}
		return true, 0
	}

	// Window expired: reset under lock
	state.mu.Lock()
	defer state.mu.Unlock()

	// Double-check after lock
	if currentReset := state.resetAt.Load().(time.Time); now.Before(currentReset) {
		// Another goroutine already handled reset
		newCount := atomic.AddInt64(&state.count, 1)
		if newCount-1 >= rl.limit {
			atomic.AddInt64(&state.count, -1)
			return false, time.Until(currentReset)
		}
		return true, 0
	}

	atomic.StoreInt64(&state.count, 1)
	state.resetAt.Store(nextReset)
	return true, 0
}

func (rl *FixedWindowRateLimiter) startCleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *FixedWindowRateLimiter) cleanup() {
	now := time.Now()
	rl.counts.Range(func(key, value interface{}) bool {
		state := value.(*windowState)
		if resetAt := state.resetAt.Load(); resetAt != nil {
			if now.After(resetAt.(time.Time)) {
				rl.counts.Delete(key)
			}
		}
		return true
	})
}

func (rl *FixedWindowRateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
