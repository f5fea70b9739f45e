// Package score owns the coin count that drives threat escalation, and the
// coins scattered across the level that feed it.
package score

import "sync"

// Counter is the single score source of a session. The simulation writes it;
// the orchestrator and UI read it. Only the orchestrator resets it.
type Counter struct {
	mu    sync.RWMutex
	coins int
}

// NewCounter creates a counter at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Current returns the current coin count.
func (c *Counter) Current() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.coins
}

// Add increases the count by n. Non-positive n is ignored so the count never
// decreases outside Reset.
func (c *Counter) Add(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coins += n
}

// Reset sets the count back to zero.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coins = 0
}
