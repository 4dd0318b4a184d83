package testutil

import "time"

// Clock is a fixed, injectable stand-in for time.Now used where tests need
// deterministic timestamps rather than the real-time-with-tolerance
// assertions used elsewhere in the suite.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock fixed at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the fixed instant.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the fixed instant forward by d and returns the new value.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}
