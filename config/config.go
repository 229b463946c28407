// Package config provides configuration loading and access for the animation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all animation configuration parameters.
type Config struct {
	Screen     ScreenConfig    `yaml:"screen"`
	Background ColorConfig     `yaml:"background"`
	Physics    PhysicsConfig   `yaml:"physics"`
	Shells     ShellsConfig    `yaml:"shells"`
	Explosion  ExplosionConfig `yaml:"explosion"`
	Fragments  FragmentsConfig `yaml:"fragments"`
	Trail      TrailConfig     `yaml:"trail"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	Title     string  `yaml:"title"`
	Zoom      float64 `yaml:"zoom"`
}

// ColorConfig is an RGBA color with components in [0, 1].
type ColorConfig struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// PhysicsConfig holds simulation timing.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Simulated seconds per tick
}

// ShellsConfig holds parameters for top-level particles.
type ShellsConfig struct {
	Count          int     `yaml:"count"`
	SpawnHalfWidth float64 `yaml:"spawn_half_width"` // Spawn x in [-w, w]
	SpawnY         float64 `yaml:"spawn_y"`          // Lower edge of the spawn band
	SpawnBand      float64 `yaml:"spawn_band"`       // Height of the spawn band
	Radius         float64 `yaml:"radius"`
	DriftX         float64 `yaml:"drift_x"`     // Initial vx in [-d, d]
	RiseMin        float64 `yaml:"rise_min"`    // Initial vy = uniform(min, max) * scale
	RiseMax        float64 `yaml:"rise_max"`
	RiseScale      float64 `yaml:"rise_scale"`
	InwardBias     float64 `yaml:"inward_bias"` // vx nudge = vy^2 * rand * bias
	TrailCapacity  int     `yaml:"trail_capacity"`
}

// ExplosionConfig holds the explosion thresholds.
type ExplosionConfig struct {
	ThresholdLow  float64 `yaml:"threshold_low"`  // Above this, explode with Chance per tick
	ThresholdHigh float64 `yaml:"threshold_high"` // Above this, always explode
	Chance        float64 `yaml:"chance"`
}

// FragmentsConfig holds parameters for burst fragments.
type FragmentsConfig struct {
	Radius        float64 `yaml:"radius"`
	SpeedScale    float64 `yaml:"speed_scale"`
	SpreadX       float64 `yaml:"spread_x"` // vx = uniform(-s, s) * scale
	LiftMin       float64 `yaml:"lift_min"` // vy = uniform(min, max) * scale
	LiftMax       float64 `yaml:"lift_max"`
	DecayBase     float64 `yaml:"decay_base"`    // decay = (1 + min(secs, cap)) * base
	DecayCapSec   int     `yaml:"decay_cap_sec"` // Whole seconds of decay growth
	FadeMax       float64 `yaml:"fade_max"`      // Max alpha lost per tick
	MaxAgeSec     float64 `yaml:"max_age_sec"`   // Burst lifetime before forced respawn
	TrailCapacity int     `yaml:"trail_capacity"`
}

// TrailConfig holds trail styling parameters.
type TrailConfig struct {
	BaseAlpha float64 `yaml:"base_alpha"`
	MaxAlpha  float64 `yaml:"max_alpha"`
	RankScale float64 `yaml:"rank_scale"` // Radius per age rank
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32       // Physics.DT as float32
	TickDuration time.Duration // Physics.DT as a duration
	MaxBurstAge  time.Duration // Fragments.MaxAgeSec as a duration
	ScreenW32    float32       // Screen.Width as float32
	ScreenH32    float32       // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every out-of-range field.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	check(c.Screen.Zoom > 0, "screen.zoom must be positive, got %v", c.Screen.Zoom)
	check(c.Physics.DT > 0, "physics.dt must be positive, got %v", c.Physics.DT)
	check(c.Shells.Count > 0, "shells.count must be positive, got %d", c.Shells.Count)
	check(c.Shells.TrailCapacity > 0, "shells.trail_capacity must be positive, got %d", c.Shells.TrailCapacity)
	check(c.Shells.RiseMin > 0 && c.Shells.RiseMin <= c.Shells.RiseMax,
		"shells.rise_min must be in (0, rise_max], got %v..%v", c.Shells.RiseMin, c.Shells.RiseMax)
	check(c.Shells.RiseScale > 0, "shells.rise_scale must be positive, got %v", c.Shells.RiseScale)
	check(c.Explosion.ThresholdLow <= c.Explosion.ThresholdHigh,
		"explosion.threshold_low (%v) must not exceed threshold_high (%v)", c.Explosion.ThresholdLow, c.Explosion.ThresholdHigh)
	check(c.Explosion.Chance >= 0 && c.Explosion.Chance <= 1, "explosion.chance must be in [0, 1], got %v", c.Explosion.Chance)
	check(c.Fragments.TrailCapacity > 0, "fragments.trail_capacity must be positive, got %d", c.Fragments.TrailCapacity)
	check(c.Fragments.FadeMax >= 0, "fragments.fade_max must not be negative, got %v", c.Fragments.FadeMax)
	check(c.Fragments.MaxAgeSec > 0, "fragments.max_age_sec must be positive, got %v", c.Fragments.MaxAgeSec)
	check(c.Fragments.DecayCapSec >= 0, "fragments.decay_cap_sec must not be negative, got %d", c.Fragments.DecayCapSec)
	check(c.Trail.MaxAlpha >= 0 && c.Trail.MaxAlpha <= 1, "trail.max_alpha must be in [0, 1], got %v", c.Trail.MaxAlpha)
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window must be positive, got %v", c.Telemetry.StatsWindow)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.TickDuration = secondsToDuration(c.Physics.DT)
	c.Derived.MaxBurstAge = secondsToDuration(c.Fragments.MaxAgeSec)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// secondsToDuration rounds to the nearest nanosecond.
func secondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
