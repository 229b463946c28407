package renderer

import (
	"math"
	"testing"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fireworks/components"
	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/systems"
)

type circle struct {
	X, Y, R float32
	Tint    components.Tint
}

// recordingCanvas captures draw calls in order.
type recordingCanvas struct {
	clears  []components.Tint
	circles []circle
}

func (c *recordingCanvas) Clear(t components.Tint) {
	c.clears = append(c.clears, t)
}

func (c *recordingCanvas) Circle(x, y, r float32, t components.Tint) {
	c.circles = append(c.circles, circle{X: x, Y: y, R: r, Tint: t})
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestTrailStyle_Defaults(t *testing.T) {
	config.MustInit("")
	s := NewTrailStyle(config.Cfg())

	for rank := 0; rank < 10; rank++ {
		if got, want := s.Radius(rank), 0.5*float32(rank); !approx(got, want) {
			t.Errorf("Radius(%d) = %v, want %v", rank, got, want)
		}
		if got := s.Alpha(rank); !approx(got, 0.8) {
			t.Errorf("Alpha(%d) = %v, want 0.8", rank, got)
		}
	}
}

func TestTrailStyle_AlphaAboveFloor(t *testing.T) {
	s := TrailStyle{BaseAlpha: 0.5, MaxAlpha: 0.2, RankScale: 51}

	if got := s.Alpha(0); !approx(got, 0.5) {
		t.Errorf("Alpha(0) = %v, want 0.5", got)
	}
	if got := s.Alpha(1); !approx(got, 0.7) {
		t.Errorf("Alpha(1) = %v, want 0.7", got)
	}
}

func fallingView(trail *components.Trail) systems.ShellView {
	return systems.ShellView{
		Position: &components.Position{X: 10, Y: 20},
		Velocity: &components.Velocity{},
		Tint:     &components.Tint{R: 1, G: 0.5, B: 0.25, A: 1},
		Body:     &components.Body{Radius: 5},
		Trail:    trail,
		Shell:    &components.Shell{},
	}
}

func TestDrawShell_FallingDrawsTrailThenBody(t *testing.T) {
	config.MustInit("")
	r := NewFireworkRenderer(config.Cfg())

	trail := components.NewTrail(10)
	for i := 0; i < 3; i++ {
		trail.Push(components.TrailSample{
			Position: components.Position{X: float32(i), Y: float32(i)},
			Tint:     components.Tint{R: 1, A: 0.3},
		})
	}

	c := &recordingCanvas{}
	r.DrawShell(c, fallingView(&trail))

	if len(c.circles) != 4 {
		t.Fatalf("expected 4 circles, got %d", len(c.circles))
	}
	for i := 0; i < 3; i++ {
		got := c.circles[i]
		if got.X != float32(i) {
			t.Errorf("trail circle %d at x=%v, want oldest first", i, got.X)
		}
		if !approx(got.R, 0.5*float32(i)) {
			t.Errorf("trail circle %d radius = %v, want %v", i, got.R, 0.5*float32(i))
		}
		if !approx(got.Tint.A, 0.8) {
			t.Errorf("trail circle %d alpha = %v, want 0.8", i, got.Tint.A)
		}
		if got.Tint.R != 1 {
			t.Errorf("trail circle %d lost its color: %+v", i, got.Tint)
		}
	}

	body := c.circles[3]
	if body.X != 10 || body.Y != 20 || body.R != 5 {
		t.Errorf("body drawn at (%v,%v) r=%v, want (10,20) r=5", body.X, body.Y, body.R)
	}
	if body.Tint.A != 1 {
		t.Errorf("body alpha = %v, want full tint", body.Tint.A)
	}
}

func TestDrawShell_ExplodedDrawsFragments(t *testing.T) {
	config.MustInit("")
	r := NewFireworkRenderer(config.Cfg())

	v := fallingView(&components.Trail{})
	burst := &components.Burst{}
	for i := range burst.Fragments {
		f := &burst.Fragments[i]
		f.Position = components.Position{X: float32(i), Y: 0}
		f.Radius = 3
		f.Tint = components.Tint{G: 1, A: 1}
		f.Trail = components.NewTrail(2)
		f.Trail.Push(components.TrailSample{Position: f.Position, Tint: f.Tint})
	}
	v.Shell.Burst = burst

	c := &recordingCanvas{}
	r.DrawShell(c, v)

	// One trail sample plus the body per fragment; the shell body is not drawn.
	if want := 2 * components.FragmentCount; len(c.circles) != want {
		t.Fatalf("expected %d circles, got %d", want, len(c.circles))
	}
	for i := 0; i < components.FragmentCount; i++ {
		trail, body := c.circles[2*i], c.circles[2*i+1]
		if trail.R != 0 {
			t.Errorf("fragment %d trail radius = %v, want 0 for rank 0", i, trail.R)
		}
		if body.X != float32(i) || body.R != 3 {
			t.Errorf("fragment %d body at x=%v r=%v, want x=%d r=3", i, body.X, body.R, i)
		}
	}
}

func TestDraw_ClearsThenDrawsPool(t *testing.T) {
	config.MustInit("")
	cfg := config.Cfg()

	world := ecs.NewWorld()
	sys := systems.NewFireworkSystem(world, systems.NewParams(cfg), rngHalf{}, systems.NewSimClock(time.Unix(0, 0)).Now)
	sys.SpawnPool()

	c := &recordingCanvas{}
	NewFireworkRenderer(cfg).Draw(c, sys)

	if len(c.clears) != 1 {
		t.Fatalf("expected 1 clear, got %d", len(c.clears))
	}
	want := components.Tint{R: 0.1, G: 0.1, B: 0.13, A: 1}
	if got := c.clears[0]; !approx(got.R, want.R) || !approx(got.G, want.G) || !approx(got.B, want.B) || got.A != 1 {
		t.Errorf("background = %+v, want %+v", got, want)
	}
	// Fresh shells have empty trails, so only bodies are drawn.
	if len(c.circles) != cfg.Shells.Count {
		t.Errorf("expected %d circles, got %d", cfg.Shells.Count, len(c.circles))
	}
}

type rngHalf struct{}

func (rngHalf) Float32() float32 { return 0.5 }
