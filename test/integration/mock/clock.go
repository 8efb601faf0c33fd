package mock

import (
	"sync"
	"time"
)

// Clock is a settable clock so scenarios can move through a goal's window.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock starting at the current wall time.
func NewClock() *Clock {
	return &Clock{now: time.Now().UTC()}
}

// Set freezes the clock at the given instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Now returns the frozen instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
