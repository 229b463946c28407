package systems

import "time"

// SimClock is a clock driven by simulation ticks rather than wall time,
// so burst ages stay consistent in headless runs and when frames drop.
type SimClock struct {
	start   time.Time
	elapsed time.Duration
}

// NewSimClock creates a clock starting at the given instant.
func NewSimClock(start time.Time) *SimClock {
	return &SimClock{start: start}
}

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) {
	c.elapsed += d
}

// Now returns the current simulation time.
func (c *SimClock) Now() time.Time {
	return c.start.Add(c.elapsed)
}
