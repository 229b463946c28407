package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/fireworks/systems"
)

// lifecycleRecorder forwards shell lifecycle events to the collector.
type lifecycleRecorder struct {
	g *Game
}

func (r lifecycleRecorder) RecordExplosion(forced bool) {
	r.g.collector.RecordExplosion(forced)
	slog.Debug("shell_exploded", "tick", r.g.tick, "forced", forced)
}

func (r lifecycleRecorder) RecordRespawn(reason systems.RespawnReason, burstAge time.Duration) {
	r.g.collector.RecordRespawn(reason, burstAge)
	slog.Debug("shell_respawned", "tick", r.g.tick, "reason", reason.String(), "burst_age", burstAge)
}

// flushTelemetry checks if the stats window should be flushed and emits it.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	falling, exploded := g.fireworks.Counts()
	stats := g.collector.Flush(g.tick, falling, exploded)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
