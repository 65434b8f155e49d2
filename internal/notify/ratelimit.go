package notify

import (
	"sync"
	"time"
)

// RateLimiter gates how often an admin can trigger a bulk send. It is a
// trailing-window timestamp filter, not a token bucket: calls older than the
// window are dropped on every check, so a burst right after the window edge
// is permitted. Purely in-memory and per-process; state resets on restart.
type RateLimiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	calls       []time.Time

	now func() time.Time // injectable for tests
}

func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// IsAllowed reports whether another request fits in the trailing window and,
// when it does, records the current timestamp as a side effect.
func (rl *RateLimiter) IsAllowed() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	if len(rl.calls) >= rl.maxRequests {
		return false
	}

	rl.calls = append(rl.calls, now)
	return true
}

// TimeUntilNextRequest returns how long until the oldest recorded call exits
// the window, or 0 when the limiter is under the limit.
func (rl *RateLimiter) TimeUntilNextRequest() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	if len(rl.calls) < rl.maxRequests {
		return 0
	}

	wait := rl.calls[0].Add(rl.window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// prune drops calls that have left the trailing window. Caller holds the lock.
func (rl *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-rl.window)
	kept := rl.calls[:0]
	for _, t := range rl.calls {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	rl.calls = kept
}
