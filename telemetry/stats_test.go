package telemetry

import (
	"encoding/json"
	"math"
	"testing"
)

func TestComputeAgeStats(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3, 10, 9, 8, 7, 6}
	mean, p50, p90 := ComputeAgeStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p50 < 5 || p50 > 6 {
		t.Errorf("p50 = %v, want ~5", p50)
	}
	if p90 < 9 || p90 > 10 {
		t.Errorf("p90 = %v, want ~9", p90)
	}
	if p50 > p90 {
		t.Errorf("p50 (%v) > p90 (%v)", p50, p90)
	}

	// Input order must be preserved
	if values[0] != 5 || values[1] != 1 {
		t.Errorf("ComputeAgeStats modified its input: %v", values)
	}
}

func TestComputeAgeStatsEmpty(t *testing.T) {
	mean, p50, p90 := ComputeAgeStats(nil)
	if mean != 0 || p50 != 0 || p90 != 0 {
		t.Errorf("expected all zeros for empty input, got %v, %v, %v", mean, p50, p90)
	}
}

func TestComputeAgeStatsSingle(t *testing.T) {
	mean, p50, p90 := ComputeAgeStats([]float64{2.5})
	if mean != 2.5 || p50 != 2.5 || p90 != 2.5 {
		t.Errorf("expected 2.5 for all stats, got %v, %v, %v", mean, p50, p90)
	}
}

func TestWindowStats_LogStats(t *testing.T) {
	buf := captureLog(t)

	WindowStats{
		WindowEndTick:    600,
		Falling:          4,
		Exploded:         2,
		Explosions:       3,
		ForcedExplosions: 1,
		BurstAgeP90:      4.5,
	}.LogStats()

	var entry struct {
		Msg    string             `json:"msg"`
		Window map[string]float64 `json:"window"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line %q: %v", buf.String(), err)
	}
	if entry.Msg != "stats" {
		t.Errorf("msg = %q, want stats", entry.Msg)
	}
	want := map[string]float64{
		"window_end":        600,
		"falling":           4,
		"exploded":          2,
		"explosions":        3,
		"forced_explosions": 1,
		"burst_age_p90":     4.5,
	}
	for k, v := range want {
		if got, ok := entry.Window[k]; !ok || got != v {
			t.Errorf("%s = %v, want %v", k, got, v)
		}
	}
}
