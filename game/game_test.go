package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/fireworks/components"
	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/systems"
	"github.com/pthm-cable/fireworks/telemetry"
)

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	config.MustInit("")
	opts.Headless = true
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGame_SpawnsPool(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})

	if got, want := len(g.shells), config.Cfg().Shells.Count; got != want {
		t.Fatalf("pool size = %d, want %d", got, want)
	}
	falling, exploded := g.fireworks.Counts()
	if falling != len(g.shells) || exploded != 0 {
		t.Errorf("fresh pool counts = %d falling, %d exploded; want all falling", falling, exploded)
	}
	if g.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", g.Tick())
	}
}

func TestUpdateHeadless_AdvancesTicks(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1, StepsPerUpdate: 4})

	for i := 0; i < 10; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 40 {
		t.Errorf("Tick() = %d, want 40", g.Tick())
	}
}

func TestUpdateHeadless_PoolStaysFixed(t *testing.T) {
	g := newTestGame(t, Options{Seed: 7})
	want := len(g.shells)

	for i := 0; i < 1200; i++ {
		g.UpdateHeadless()

		falling, exploded := g.fireworks.Counts()
		if falling+exploded != want {
			t.Fatalf("tick %d: pool size = %d, want %d", g.Tick(), falling+exploded, want)
		}
	}
}

func TestUpdateHeadless_Deterministic(t *testing.T) {
	run := func() []components.Position {
		g := newTestGame(t, Options{Seed: 42})
		for i := 0; i < 500; i++ {
			g.UpdateHeadless()
		}
		var out []components.Position
		g.fireworks.Each(func(v systems.ShellView) {
			out = append(out, *v.Position)
		})
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs produced %d and %d shells", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("shell %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStatsCallback_ReceivesWindows(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		Seed:           3,
		StatsWindowSec: 5,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})

	// 20 seconds of simulated time
	ticks := int(20 / config.Cfg().Physics.DT)
	for i := 0; i < ticks; i++ {
		g.UpdateHeadless()
	}

	if len(windows) < 3 {
		t.Fatalf("expected at least 3 stats windows, got %d", len(windows))
	}

	var explosions, respawns int
	for _, w := range windows {
		if w.Falling+w.Exploded != len(g.shells) {
			t.Errorf("window %d: phase counts %d+%d, want %d", w.WindowEndTick, w.Falling, w.Exploded, len(g.shells))
		}
		if w.ForcedExplosions > w.Explosions {
			t.Errorf("window %d: %d forced of %d explosions", w.WindowEndTick, w.ForcedExplosions, w.Explosions)
		}
		if w.BurstAgeP90 > config.Cfg().Fragments.MaxAgeSec+config.Cfg().Physics.DT {
			t.Errorf("window %d: burst age p90 %.3fs exceeds max age", w.WindowEndTick, w.BurstAgeP90)
		}
		explosions += w.Explosions
		respawns += w.Respawns()
	}
	if explosions == 0 {
		t.Error("expected explosions within 20 seconds")
	}
	if respawns == 0 {
		t.Error("expected respawns within 20 seconds")
	}
}

func TestOutputDir_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	config.MustInit("")
	g, err := NewGameWithOptions(Options{
		Seed:           5,
		Headless:       true,
		OutputDir:      dir,
		StatsWindowSec: 1,
	})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}

	for i := 0; i < 180; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

type countingCanvas struct {
	clears, circles int
}

func (c *countingCanvas) Clear(components.Tint)                     { c.clears++ }
func (c *countingCanvas) Circle(_, _, _ float32, _ components.Tint) { c.circles++ }

func TestDraw_RendersPool(t *testing.T) {
	g := newTestGame(t, Options{Seed: 9})

	c := &countingCanvas{}
	g.Draw(c)
	if c.clears != 1 {
		t.Errorf("clears = %d, want 1", c.clears)
	}
	if c.circles != len(g.shells) {
		t.Errorf("circles = %d, want one body per fresh shell (%d)", c.circles, len(g.shells))
	}

	g.UpdateHeadless()
	c = &countingCanvas{}
	g.Draw(c)
	// One trail sample and one body per shell after the first tick.
	if c.circles != 2*len(g.shells) {
		t.Errorf("circles after one tick = %d, want %d", c.circles, 2*len(g.shells))
	}
}
