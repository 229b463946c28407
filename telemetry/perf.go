package telemetry

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseFireworks = "fireworks"
	PhaseTelemetry = "telemetry"
)

// phaseOrder is the order phases appear in logs.
var phaseOrder = []string{PhaseFireworks, PhaseTelemetry}

// PerfSample holds timing data for a single tick.
// Phases is indexed like PerfCollector.phaseNames.
type PerfSample struct {
	TickDuration time.Duration
	Phases       []time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
// Phases are registered on first use and addressed by index afterwards,
// so a steady-state tick does not allocate.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	phaseNames []string
	phaseIndex map[string]int
	current    []time.Duration
	lastPhase  int // -1 when no phase is running
	tickStart  time.Time
	phaseStart time.Time

	// Frame timing (graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		phaseIndex: make(map[string]int),
		lastPhase:  -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current)
	p.lastPhase = -1
}

// StartPhase ends the running phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.endPhase(now)
	p.lastPhase = p.phaseSlot(phase)
	p.phaseStart = now
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.endPhase(now)

	s := &p.samples[p.writeIndex]
	s.TickDuration = now.Sub(p.tickStart)
	s.Phases = append(s.Phases[:0], p.current...)

	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.lastPhase >= 0 {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// phaseSlot returns the index for phase, registering it if new.
func (p *PerfCollector) phaseSlot(phase string) int {
	if i, ok := p.phaseIndex[phase]; ok {
		return i
	}
	i := len(p.phaseNames)
	p.phaseIndex[phase] = i
	p.phaseNames = append(p.phaseNames, phase)
	p.current = append(p.current, 0)
	return i
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Per phase, averaged over the window and as a share of the average tick
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.phaseNames)),
		PhasePct:      make(map[string]float64, len(p.phaseNames)),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	window := p.samples[:p.sampleCount]
	phaseSum := make([]time.Duration, len(p.phaseNames))
	var total time.Duration
	stats.MinTickDuration = window[0].TickDuration
	for i := range window {
		d := window[i].TickDuration
		total += d
		stats.MinTickDuration = min(stats.MinTickDuration, d)
		stats.MaxTickDuration = max(stats.MaxTickDuration, d)
		for j, pd := range window[i].Phases {
			phaseSum[j] += pd
		}
	}

	n := time.Duration(len(window))
	stats.AvgTickDuration = total / n
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	for j, sum := range phaseSum {
		name := p.phaseNames[j]
		stats.PhaseAvg[name] = sum / n
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[name] = float64(sum/n) / float64(stats.AvgTickDuration) * 100
		}
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", slog.Any("perf", s))
}

// LogValue implements slog.LogValuer. Known phases come first in
// pipeline order, any others follow by name.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	names := slices.Sorted(maps.Keys(s.PhasePct))
	slices.SortStableFunc(names, func(a, b string) int {
		return cmp.Compare(phaseRank(a), phaseRank(b))
	})
	for _, name := range names {
		attrs = append(attrs, slog.Float64(name+"_pct", s.PhasePct[name]))
	}

	return slog.GroupValue(attrs...)
}

// phaseRank orders known phases before unknown ones.
func phaseRank(name string) int {
	if i := slices.Index(phaseOrder, name); i >= 0 {
		return i
	}
	return len(phaseOrder)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	FireworksPct float64 `csv:"fireworks_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		FireworksPct: s.PhasePct[PhaseFireworks],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
