package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Pool phase counts at window end
	Falling  int `csv:"falling"`
	Exploded int `csv:"exploded"`

	// Events during window
	Explosions       int `csv:"explosions"`
	ForcedExplosions int `csv:"forced_explosions"`
	RespawnsFaded    int `csv:"respawns_faded"`
	RespawnsExpired  int `csv:"respawns_expired"`

	// Burst lifetime in seconds, over bursts that ended during the window
	BurstAgeMean float64 `csv:"burst_age_mean"`
	BurstAgeP50  float64 `csv:"burst_age_p50"`
	BurstAgeP90  float64 `csv:"burst_age_p90"`
}

// Respawns returns the total number of respawns in the window.
func (s WindowStats) Respawns() int {
	return s.RespawnsFaded + s.RespawnsExpired
}

// ComputeAgeStats calculates the mean, median and 90th percentile of values.
// Returns zeros if values is empty. values is not modified.
func ComputeAgeStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("falling", s.Falling),
		slog.Int("exploded", s.Exploded),
		slog.Int("explosions", s.Explosions),
		slog.Int("forced_explosions", s.ForcedExplosions),
		slog.Int("respawns_faded", s.RespawnsFaded),
		slog.Int("respawns_expired", s.RespawnsExpired),
		slog.Float64("burst_age_mean", s.BurstAgeMean),
		slog.Float64("burst_age_p50", s.BurstAgeP50),
		slog.Float64("burst_age_p90", s.BurstAgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", slog.Any("window", s))
}
