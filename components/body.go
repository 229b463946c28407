package components

// Body holds physical properties of an entity.
type Body struct {
	Radius float32
}

// Tint is an RGBA color with float components in [0, 1].
type Tint struct {
	R, G, B, A float32
}

// WithAlpha returns a copy of the tint with alpha replaced.
func (t Tint) WithAlpha(a float32) Tint {
	t.A = a
	return t
}

// Visible reports whether the tint has any opacity left.
func (t Tint) Visible() bool {
	return t.A > 0
}
