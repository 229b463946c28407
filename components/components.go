// Package components defines ECS components for the animation.
package components

import "time"

// FragmentCount is the number of fragments every burst produces.
const FragmentCount = 20

// Phase identifies which regime a shell is in.
type Phase uint8

const (
	PhaseFalling  Phase = iota // Travelling, leaving a trail
	PhaseExploded              // Burst into fragments
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseFalling:
		return "falling"
	case PhaseExploded:
		return "exploded"
	default:
		return "unknown"
	}
}

// Shell holds the lifecycle state of a top-level particle.
// A nil Burst means the shell is falling; a non-nil Burst means it has exploded.
type Shell struct {
	FromLeft bool   // Spawned left of center; inward bias pushes toward +X
	Burst    *Burst // Set on explosion, cleared by respawn
}

// Phase returns the shell's current regime.
func (s *Shell) Phase() Phase {
	if s.Burst == nil {
		return PhaseFalling
	}
	return PhaseExploded
}

// Burst is the exploded state: the fragments and the time they were released.
type Burst struct {
	Fragments [FragmentCount]Fragment
	At        time.Time
}

// Age returns how long ago the burst happened.
func (b *Burst) Age(now time.Time) time.Duration {
	return now.Sub(b.At)
}

// Faded reports whether every fragment has become fully transparent.
func (b *Burst) Faded() bool {
	for i := range b.Fragments {
		if b.Fragments[i].Tint.Visible() {
			return false
		}
	}
	return true
}

// Fragment is one child particle of a burst. Fragments never explode.
type Fragment struct {
	Position Position
	Velocity Velocity
	Tint     Tint
	Radius   float32
	Trail    Trail
}
