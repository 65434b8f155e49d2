package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(maxRequests int, window time.Duration) (*RateLimiter, *time.Time) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(maxRequests, window)
	rl.now = func() time.Time { return current }
	return rl, &current
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	assert.True(t, rl.IsAllowed())
	assert.True(t, rl.IsAllowed())
	assert.True(t, rl.IsAllowed())
	assert.False(t, rl.IsAllowed())
}

func TestRateLimiterTrailingWindow(t *testing.T) {
	rl, current := newTestLimiter(2, time.Minute)

	assert.True(t, rl.IsAllowed())
	*current = current.Add(30 * time.Second)
	assert.True(t, rl.IsAllowed())
	assert.False(t, rl.IsAllowed())

	// The first call leaves the window; one slot opens.
	*current = current.Add(31 * time.Second)
	assert.True(t, rl.IsAllowed())
	assert.False(t, rl.IsAllowed())
}

func TestRateLimiterDeniedCallDoesNotConsumeSlot(t *testing.T) {
	rl, current := newTestLimiter(1, time.Minute)

	assert.True(t, rl.IsAllowed())
	// Denied checks must not extend the wait.
	for i := 0; i < 5; i++ {
		assert.False(t, rl.IsAllowed())
	}

	*current = current.Add(time.Minute + time.Second)
	assert.True(t, rl.IsAllowed())
}

func TestTimeUntilNextRequest(t *testing.T) {
	rl, current := newTestLimiter(1, time.Minute)

	assert.Equal(t, time.Duration(0), rl.TimeUntilNextRequest())

	assert.True(t, rl.IsAllowed())
	assert.Equal(t, time.Minute, rl.TimeUntilNextRequest())

	*current = current.Add(40 * time.Second)
	assert.Equal(t, 20*time.Second, rl.TimeUntilNextRequest())

	*current = current.Add(21 * time.Second)
	assert.Equal(t, time.Duration(0), rl.TimeUntilNextRequest())
}
