package clock

import "time"

// FakeClock is a manually advanced Clock for tests that pin the scheduler
// and aggregation day math to a known instant. Not safe for concurrent use.
type FakeClock struct {
	now time.Time
}

// NewFakeClock starts the clock at t, normalized to UTC like the system
// clock's readings.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward; use a negative d to move it back.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
