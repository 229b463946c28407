// Package game wires the shell pool, telemetry and render pass into a runnable animation.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/renderer"
	"github.com/pthm-cable/fireworks/systems"
	"github.com/pthm-cable/fireworks/telemetry"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	Headless       bool
	StepsPerUpdate int // simulation ticks per Update call

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete animation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	clock *systems.SimClock

	fireworks *systems.FireworkSystem
	shells    []ecs.Entity
	renderer  *renderer.FireworkRenderer

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// State
	tick           int32
	dt             time.Duration
	headless       bool
	stepsPerUpdate int
}

// NewGameWithOptions creates a game from the loaded configuration.
// config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))
	clock := systems.NewSimClock(time.Now())

	g := &Game{
		world:          world,
		rng:            rng,
		clock:          clock,
		fireworks:      systems.NewFireworkSystem(world, systems.NewParams(cfg), rng, clock.Now),
		renderer:       renderer.NewFireworkRenderer(cfg),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager:  outputManager,
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		dt:             cfg.Derived.TickDuration,
		headless:       opts.Headless,
		stepsPerUpdate: steps,
	}
	g.fireworks.SetRecorder(lifecycleRecorder{g: g})
	g.shells = g.fireworks.SpawnPool()

	slog.Debug("pool_spawned", "shells", len(g.shells), "seed", opts.Seed)

	return g, nil
}

// Update advances the animation for one rendered frame.
func (g *Game) Update() {
	if g.headless {
		g.UpdateHeadless()
		return
	}
	g.perfCollector.RecordFrame()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless advances the animation without frame timing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs a single tick.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseFireworks)
	g.fireworks.Update()
	g.clock.Advance(g.dt)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Draw renders the current state onto c.
func (g *Game) Draw(c renderer.Canvas) {
	g.renderer.Draw(c, g.fireworks)
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Unload releases all resources.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
