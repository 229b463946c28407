// Package rlcanvas draws frames to a raylib window.
package rlcanvas

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fireworks/camera"
	"github.com/pthm-cable/fireworks/components"
	"github.com/pthm-cable/fireworks/renderer"
)

// Canvas implements renderer.Canvas on the current raylib window.
type Canvas struct {
	cam *camera.Camera
}

var _ renderer.Canvas = (*Canvas)(nil)

// New creates a canvas that maps world coordinates through cam.
func New(cam *camera.Camera) *Canvas {
	return &Canvas{cam: cam}
}

// Frame wraps draw in BeginDrawing/EndDrawing.
func (c *Canvas) Frame(draw func(renderer.Canvas)) {
	rl.BeginDrawing()
	draw(c)
	rl.EndDrawing()
}

// Clear fills the window with t.
func (c *Canvas) Clear(t components.Tint) {
	rl.ClearBackground(toColor(t))
}

// Circle draws a filled circle centered at world (x, y).
func (c *Canvas) Circle(x, y, radius float32, t components.Tint) {
	if radius <= 0 || !t.Visible() || !c.cam.IsVisible(x, y, radius) {
		return
	}
	sx, sy := c.cam.WorldToScreen(x, y)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, c.cam.Scale(radius), toColor(t))
}

func toColor(t components.Tint) rl.Color {
	return rl.Color{
		R: channel(t.R),
		G: channel(t.G),
		B: channel(t.B),
		A: channel(t.A),
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
