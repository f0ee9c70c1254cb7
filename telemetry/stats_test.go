package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{5}, Distribution{Mean: 5, P10: 5, P50: 5, P90: 5}},
		{"one to ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			Distribution{Mean: 5.5, Std: 3.0277, P10: 1, P50: 5, P90: 9}},
		{"constant", []float64{2, 2, 2, 2}, Distribution{Mean: 2, P10: 2, P50: 2, P90: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			check := func(field string, got, want float64) {
				if math.Abs(got-want) > 0.001 {
					t.Errorf("%s = %v, want %v", field, got, want)
				}
			}
			check("mean", got.Mean, tt.want.Mean)
			check("std", got.Std, tt.want.Std)
			check("p10", got.P10, tt.want.P10)
			check("p50", got.P50, tt.want.P50)
			check("p90", got.P90, tt.want.P90)
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("WindowDurationTicks() = %d, want 4", c.WindowDurationTicks())
	}

	for tick := int32(1); tick <= 4; tick++ {
		c.RecordStep(0.25, 10, 4, 1, 7)
		if got := c.ShouldFlush(tick); got != (tick == 4) {
			t.Errorf("ShouldFlush(%d) = %v", tick, got)
		}
	}

	stats := c.Flush(4, PoolSample{
		Active:     25,
		Capacity:   100,
		Emitters:   2,
		Fields:     1,
		LifeRatios: []float64{0.5, 0.1, 0.9},
		Speeds:     []float64{3, 1, 2},
	})

	if stats.Emitted != 40 || stats.Expired != 16 || stats.Dropped != 4 || stats.PairChecks != 28 {
		t.Errorf("counters = %+v", stats)
	}
	if math.Abs(stats.EmitRate-40) > 1e-9 || math.Abs(stats.ExpireRate-16) > 1e-9 {
		t.Errorf("rates = %v, %v; want 40, 16", stats.EmitRate, stats.ExpireRate)
	}
	if stats.Utilization != 0.25 {
		t.Errorf("utilization = %v, want 0.25", stats.Utilization)
	}
	if stats.SimTimeSec != 1 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}
	if math.Abs(stats.LifeMean-0.5) > 1e-9 || stats.SpeedP50 != 2 {
		t.Errorf("life mean = %v, speed p50 = %v", stats.LifeMean, stats.SpeedP50)
	}

	// Counters reset for the next window
	if c.ShouldFlush(5) {
		t.Error("ShouldFlush(5) true right after flush at 4")
	}
	next := c.Flush(8, PoolSample{})
	if next.Emitted != 0 || next.WindowStartTick != 4 || next.EmitRate != 0 {
		t.Errorf("next window = %+v", next)
	}
}
