package renderer

import (
	"github.com/pthm-cable/fireworks/components"
	"github.com/pthm-cable/fireworks/config"
	"github.com/pthm-cable/fireworks/systems"
)

// Canvas is the surface a frame is drawn onto, in world coordinates.
type Canvas interface {
	Clear(c components.Tint)
	Circle(x, y, radius float32, c components.Tint)
}

// FireworkRenderer draws shells, fragments and their trails.
type FireworkRenderer struct {
	background components.Tint
	trail      TrailStyle
}

// NewFireworkRenderer creates a renderer from the loaded configuration.
func NewFireworkRenderer(cfg *config.Config) *FireworkRenderer {
	bg := cfg.Background
	return &FireworkRenderer{
		background: components.Tint{R: float32(bg.R), G: float32(bg.G), B: float32(bg.B), A: float32(bg.A)},
		trail:      NewTrailStyle(cfg),
	}
}

// Draw clears the canvas and renders every shell in the system.
func (r *FireworkRenderer) Draw(c Canvas, sys *systems.FireworkSystem) {
	c.Clear(r.background)
	sys.Each(func(v systems.ShellView) {
		r.DrawShell(c, v)
	})
}

// DrawShell renders one shell: its own trail and body while falling,
// or each fragment's trail and body once exploded.
func (r *FireworkRenderer) DrawShell(c Canvas, v systems.ShellView) {
	if v.Shell.Burst == nil {
		r.drawParticle(c, *v.Position, *v.Tint, v.Body.Radius, v.Trail)
		return
	}
	for i := range v.Shell.Burst.Fragments {
		f := &v.Shell.Burst.Fragments[i]
		r.drawParticle(c, f.Position, f.Tint, f.Radius, &f.Trail)
	}
}

// drawParticle draws the trail first so the body ends up on top.
func (r *FireworkRenderer) drawParticle(c Canvas, pos components.Position, tint components.Tint,
	radius float32, trail *components.Trail) {
	trail.Each(func(rank int, s components.TrailSample) {
		c.Circle(s.Position.X, s.Position.Y, r.trail.Radius(rank), s.Tint.WithAlpha(r.trail.Alpha(rank)))
	})
	c.Circle(pos.X, pos.Y, radius, tint)
}
