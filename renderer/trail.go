package renderer

import "github.com/pthm-cable/fireworks/config"

// colorDepth is the number of steps in an 8-bit color channel.
const colorDepth = 255

// TrailStyle maps a trail sample's age rank (0 = oldest) to its size and opacity.
type TrailStyle struct {
	BaseAlpha float32
	MaxAlpha  float32
	RankScale float32
}

// NewTrailStyle creates a trail style from the loaded configuration.
func NewTrailStyle(cfg *config.Config) TrailStyle {
	return TrailStyle{
		BaseAlpha: float32(cfg.Trail.BaseAlpha),
		MaxAlpha:  float32(cfg.Trail.MaxAlpha),
		RankScale: float32(cfg.Trail.RankScale),
	}
}

// Radius returns the circle radius for a sample. Older samples are smaller.
func (s TrailStyle) Radius(rank int) float32 {
	return s.RankScale * float32(rank)
}

// Alpha returns the opacity for a sample.
// MaxAlpha acts as a floor here, so with the default values every sample is
// drawn at MaxAlpha.
func (s TrailStyle) Alpha(rank int) float32 {
	a := s.BaseAlpha + s.RankScale*float32(rank)/colorDepth
	return max(a, s.MaxAlpha)
}
