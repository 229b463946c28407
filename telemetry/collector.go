// Package telemetry provides lifecycle statistics, performance timing and CSV output.
package telemetry

import (
	"time"

	"github.com/pthm-cable/fireworks/systems"
)

// Collector accumulates shell lifecycle events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	explosions       int
	forcedExplosions int
	respawnsFaded    int
	respawnsExpired  int

	// Seconds between explosion and respawn for bursts that ended this window
	burstAges []float64
}

var _ systems.Recorder = (*Collector)(nil)

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordExplosion records a shell bursting. forced is true when the shell
// crossed the upper threshold rather than passing the random check.
func (c *Collector) RecordExplosion(forced bool) {
	c.explosions++
	if forced {
		c.forcedExplosions++
	}
}

// RecordRespawn records an exploded shell being replaced by a fresh one.
func (c *Collector) RecordRespawn(reason systems.RespawnReason, burstAge time.Duration) {
	switch reason {
	case systems.RespawnFaded:
		c.respawnsFaded++
	case systems.RespawnExpired:
		c.respawnsExpired++
	}
	c.burstAges = append(c.burstAges, burstAge.Seconds())
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowDurationTicks
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// falling and exploded are the pool's phase counts at the end of the window.
func (c *Collector) Flush(currentTick int32, falling, exploded int) WindowStats {
	mean, p50, p90 := ComputeAgeStats(c.burstAges)

	stats := WindowStats{
		WindowStartTick:  c.windowStartTick,
		WindowEndTick:    currentTick,
		SimTimeSec:       float64(currentTick) * float64(c.dt),
		Falling:          falling,
		Exploded:         exploded,
		Explosions:       c.explosions,
		ForcedExplosions: c.forcedExplosions,
		RespawnsFaded:    c.respawnsFaded,
		RespawnsExpired:  c.respawnsExpired,
		BurstAgeMean:     mean,
		BurstAgeP50:      p50,
		BurstAgeP90:      p90,
	}

	c.windowStartTick = currentTick
	c.explosions = 0
	c.forcedExplosions = 0
	c.respawnsFaded = 0
	c.respawnsExpired = 0
	c.burstAges = c.burstAges[:0]

	return stats
}
