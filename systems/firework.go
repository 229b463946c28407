package systems

import (
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fireworks/components"
	"github.com/pthm-cable/fireworks/config"
)

// Rand is the source of randomness for spawning, explosions and fading.
// *rand.Rand satisfies it.
type Rand interface {
	Float32() float32
}

// Clock returns the current simulation time.
type Clock func() time.Time

// RespawnReason records why an exploded shell was replaced.
type RespawnReason uint8

const (
	RespawnFaded   RespawnReason = iota // Every fragment reached zero alpha
	RespawnExpired                      // Burst outlived the maximum age
)

// String returns the reason name for logging.
func (r RespawnReason) String() string {
	switch r {
	case RespawnFaded:
		return "faded"
	case RespawnExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Recorder receives lifecycle events from the firework system.
type Recorder interface {
	RecordExplosion(forced bool)
	RecordRespawn(reason RespawnReason, burstAge time.Duration)
}

// Params holds the tuning values for shells and fragments.
type Params struct {
	ShellCount         int
	SpawnHalfWidth     float32
	SpawnY             float32
	SpawnBand          float32
	ShellRadius        float32
	DriftX             float32
	RiseMin            float32
	RiseMax            float32
	RiseScale          float32
	InwardBias         float32
	ShellTrailCapacity int

	ThresholdLow    float32
	ThresholdHigh   float32
	ExplosionChance float32

	FragmentRadius        float32
	FragmentSpeedScale    float32
	FragmentSpreadX       float32
	FragmentLiftMin       float32
	FragmentLiftMax       float32
	DecayBase             float32
	DecayCapSec           int
	FadeMax               float32
	MaxBurstAge           time.Duration
	FragmentTrailCapacity int

	TickDuration time.Duration // Simulated time between updates
}

// NewParams converts the loaded configuration into system parameters.
func NewParams(cfg *config.Config) Params {
	return Params{
		ShellCount:         cfg.Shells.Count,
		SpawnHalfWidth:     float32(cfg.Shells.SpawnHalfWidth),
		SpawnY:             float32(cfg.Shells.SpawnY),
		SpawnBand:          float32(cfg.Shells.SpawnBand),
		ShellRadius:        float32(cfg.Shells.Radius),
		DriftX:             float32(cfg.Shells.DriftX),
		RiseMin:            float32(cfg.Shells.RiseMin),
		RiseMax:            float32(cfg.Shells.RiseMax),
		RiseScale:          float32(cfg.Shells.RiseScale),
		InwardBias:         float32(cfg.Shells.InwardBias),
		ShellTrailCapacity: cfg.Shells.TrailCapacity,

		ThresholdLow:    float32(cfg.Explosion.ThresholdLow),
		ThresholdHigh:   float32(cfg.Explosion.ThresholdHigh),
		ExplosionChance: float32(cfg.Explosion.Chance),

		FragmentRadius:        float32(cfg.Fragments.Radius),
		FragmentSpeedScale:    float32(cfg.Fragments.SpeedScale),
		FragmentSpreadX:       float32(cfg.Fragments.SpreadX),
		FragmentLiftMin:       float32(cfg.Fragments.LiftMin),
		FragmentLiftMax:       float32(cfg.Fragments.LiftMax),
		DecayBase:             float32(cfg.Fragments.DecayBase),
		DecayCapSec:           cfg.Fragments.DecayCapSec,
		FadeMax:               float32(cfg.Fragments.FadeMax),
		MaxBurstAge:           cfg.Derived.MaxBurstAge,
		FragmentTrailCapacity: cfg.Fragments.TrailCapacity,

		TickDuration: cfg.Derived.TickDuration,
	}
}

// ShellView gives access to one shell's components.
type ShellView struct {
	Entity   ecs.Entity
	Position *components.Position
	Velocity *components.Velocity
	Tint     *components.Tint
	Body     *components.Body
	Trail    *components.Trail
	Shell    *components.Shell
}

// FireworkSystem owns the shell pool: spawning, the falling and exploded
// steps, and in-place respawn.
type FireworkSystem struct {
	params   Params
	rng      Rand
	now      Clock
	recorder Recorder

	mapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Tint,
		components.Body,
		components.Trail,
		components.Shell,
	]
	filter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Tint,
		components.Body,
		components.Trail,
		components.Shell,
	]
}

// NewFireworkSystem creates a system operating on shells in the given world.
func NewFireworkSystem(world *ecs.World, params Params, rng Rand, now Clock) *FireworkSystem {
	return &FireworkSystem{
		params: params,
		rng:    rng,
		now:    now,
		mapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Tint,
			components.Body,
			components.Trail,
			components.Shell,
		](world),
		filter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Tint,
			components.Body,
			components.Trail,
			components.Shell,
		](world),
	}
}

// SetRecorder installs the lifecycle event sink. nil disables recording.
func (s *FireworkSystem) SetRecorder(r Recorder) {
	s.recorder = r
}

// SpawnPool creates the fixed pool of ShellCount falling shells.
// It is called once; afterwards shells are only ever reset in place.
func (s *FireworkSystem) SpawnPool() []ecs.Entity {
	entities := make([]ecs.Entity, 0, s.params.ShellCount)
	for i := 0; i < s.params.ShellCount; i++ {
		var (
			pos   components.Position
			vel   components.Velocity
			tint  components.Tint
			body  components.Body
			trail components.Trail
			shell components.Shell
		)
		s.initShell(&pos, &vel, &tint, &body, &trail, &shell)
		entities = append(entities, s.mapper.NewEntity(&pos, &vel, &tint, &body, &trail, &shell))
	}
	return entities
}

// Get returns the components of a shell entity.
func (s *FireworkSystem) Get(e ecs.Entity) ShellView {
	pos, vel, tint, body, trail, shell := s.mapper.Get(e)
	return ShellView{
		Entity:   e,
		Position: pos,
		Velocity: vel,
		Tint:     tint,
		Body:     body,
		Trail:    trail,
		Shell:    shell,
	}
}

// Each calls fn for every shell in the pool.
func (s *FireworkSystem) Each(fn func(v ShellView)) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, tint, body, trail, shell := query.Get()
		fn(ShellView{
			Entity:   query.Entity(),
			Position: pos,
			Velocity: vel,
			Tint:     tint,
			Body:     body,
			Trail:    trail,
			Shell:    shell,
		})
	}
}

// Counts returns how many shells are in each phase.
func (s *FireworkSystem) Counts() (falling, exploded int) {
	query := s.filter.Query()
	for query.Next() {
		_, _, _, _, _, shell := query.Get()
		if shell.Phase() == components.PhaseFalling {
			falling++
		} else {
			exploded++
		}
	}
	return falling, exploded
}

// Update advances every shell by one tick.
func (s *FireworkSystem) Update() {
	now := s.now()

	query := s.filter.Query()
	for query.Next() {
		pos, vel, tint, body, trail, shell := query.Get()

		if shell.Burst == nil {
			s.fall(pos, vel, tint, trail, shell, now)
			continue
		}

		age := shell.Burst.Age(now)
		s.decayBurst(shell.Burst, age)

		reason, done := s.burstDone(shell.Burst, age)
		if !done {
			continue
		}
		if s.recorder != nil {
			s.recorder.RecordRespawn(reason, age)
		}
		trail.Reset()
		s.resetShell(pos, vel, tint, body, shell)
	}
}

// fall moves a falling shell, nudges it toward the horizontal center and
// checks the explosion condition.
func (s *FireworkSystem) fall(pos *components.Position, vel *components.Velocity, tint *components.Tint,
	trail *components.Trail, shell *components.Shell, now time.Time) {
	p := &s.params

	// Inward bias grows with the square of vertical speed
	inward := vel.Y * vel.Y * s.rng.Float32() * p.InwardBias
	if !shell.FromLeft {
		inward = -inward
	}

	pos.X += vel.X
	pos.Y += vel.Y
	vel.X += inward

	if explode, forced := s.shouldExplode(pos.Y); explode {
		shell.Burst = s.explode(*pos, *tint, now)
		if s.recorder != nil {
			s.recorder.RecordExplosion(forced)
		}
	}

	trail.Push(components.TrailSample{Position: *pos, Tint: *tint})
}

// shouldExplode reports whether a shell at height y explodes this tick, and
// whether the high threshold made it unconditional.
func (s *FireworkSystem) shouldExplode(y float32) (explode, forced bool) {
	forced = y > s.params.ThresholdHigh
	if y > s.params.ThresholdLow && s.rng.Float32() < s.params.ExplosionChance {
		return true, forced
	}
	return forced, forced
}

// explode releases FragmentCount fragments at pos with divergent velocities.
func (s *FireworkSystem) explode(pos components.Position, tint components.Tint, now time.Time) *components.Burst {
	p := &s.params
	burst := &components.Burst{At: now}
	for i := range burst.Fragments {
		vx := s.uniform(-p.FragmentSpreadX, p.FragmentSpreadX) * p.FragmentSpeedScale
		vy := s.uniform(p.FragmentLiftMin, p.FragmentLiftMax) * p.FragmentSpeedScale
		burst.Fragments[i] = components.Fragment{
			Position: pos,
			Velocity: components.Velocity{X: vx, Y: vy},
			Tint:     tint,
			Radius:   p.FragmentRadius,
			Trail:    components.NewTrail(p.FragmentTrailCapacity),
		}
	}
	return burst
}

// decayBurst moves every fragment, slows it and fades it out.
func (s *FireworkSystem) decayBurst(b *components.Burst, age time.Duration) {
	p := &s.params

	// Deceleration grows once per whole second, up to the cap
	secs := int(age / time.Second)
	if secs > p.DecayCapSec {
		secs = p.DecayCapSec
	}
	decay := (1 + float32(secs)) * p.DecayBase

	for i := range b.Fragments {
		f := &b.Fragments[i]

		f.Position.X += f.Velocity.X
		f.Position.Y += f.Velocity.Y
		f.Trail.Push(components.TrailSample{Position: f.Position, Tint: f.Tint})

		f.Velocity.Y -= decay
		f.Velocity.X -= decay * decay

		alpha := f.Tint.A - s.rng.Float32()*p.FadeMax
		if alpha < 0 {
			alpha = 0
		}
		f.Tint.A = alpha
	}
}

// burstDone reports whether an exploded shell should be replaced.
// A burst is retired on the last tick that keeps its age within MaxBurstAge.
func (s *FireworkSystem) burstDone(b *components.Burst, age time.Duration) (RespawnReason, bool) {
	if b.Faded() {
		return RespawnFaded, true
	}
	if age+s.params.TickDuration > s.params.MaxBurstAge {
		return RespawnExpired, true
	}
	return 0, false
}

// initShell fills zeroed components with a fresh falling shell.
func (s *FireworkSystem) initShell(pos *components.Position, vel *components.Velocity, tint *components.Tint,
	body *components.Body, trail *components.Trail, shell *components.Shell) {
	*trail = components.NewTrail(s.params.ShellTrailCapacity)
	s.resetShell(pos, vel, tint, body, shell)
}

// resetShell turns a shell into a brand-new falling shell at a random spawn point.
// The trail is handled by the caller so its buffer can be reused.
func (s *FireworkSystem) resetShell(pos *components.Position, vel *components.Velocity, tint *components.Tint,
	body *components.Body, shell *components.Shell) {
	p := &s.params

	x := s.uniform(-p.SpawnHalfWidth, p.SpawnHalfWidth)
	y := s.uniform(p.SpawnY, p.SpawnY+p.SpawnBand)
	r, g, b := s.rng.Float32(), s.rng.Float32(), s.rng.Float32()
	vx := s.uniform(-p.DriftX, p.DriftX)
	vy := s.uniform(p.RiseMin, p.RiseMax) * p.RiseScale

	*pos = components.Position{X: x, Y: y}
	*vel = components.Velocity{X: vx, Y: vy}
	*tint = components.Tint{R: r, G: g, B: b, A: 1}
	*body = components.Body{Radius: p.ShellRadius}
	*shell = components.Shell{FromLeft: x < 0}
}

// uniform returns a value in [lo, hi).
func (s *FireworkSystem) uniform(lo, hi float32) float32 {
	return lo + (hi-lo)*s.rng.Float32()
}
