package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/telemetry"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg.Presets[0], cfg)

	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: got %g, want %g", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestApplyToConfigClampsAndValidates(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg.Presets[0], cfg)

	values := []float64{-10, 100, 1000, 0, 1e6}
	pv.ApplyToConfig(cfg, 0, values)

	p := cfg.Presets[0]
	if p.Rate != pv.Specs[0].Min {
		t.Errorf("rate = %g, want %g", p.Rate, pv.Specs[0].Min)
	}
	if p.Lifetime != pv.Specs[1].Max {
		t.Errorf("lifetime = %g, want %g", p.Lifetime, pv.Specs[1].Max)
	}
	if cfg.Simulation.CellSize < cfg.Repulsion.Radius {
		t.Errorf("cell size %g below repulsion radius %g", cfg.Simulation.CellSize, cfg.Repulsion.Radius)
	}
	if cfg.Simulation.BucketCapacity != int(pv.Specs[4].Max) {
		t.Errorf("bucket capacity = %d, want %d", cfg.Simulation.BucketCapacity, int(pv.Specs[4].Max))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("clamped config should validate: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		windows  []telemetry.WindowStats
		wantUtil float64
		wantDrop float64
	}{
		{
			name:    "only warmup",
			windows: make([]telemetry.WindowStats, warmupWindows),
		},
		{
			name: "steady",
			windows: []telemetry.WindowStats{
				{Utilization: 0.1}, {Utilization: 0.3},
				{Utilization: 0.5, Active: 100, Emitted: 100, Dropped: 10},
				{Utilization: 0.7, Active: 100, Emitted: 100, Dropped: 10},
			},
			wantUtil: 0.6,
			wantDrop: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := summarize(tt.windows)
			if math.Abs(d.Utilization-tt.wantUtil) > 1e-9 {
				t.Errorf("utilization = %g, want %g", d.Utilization, tt.wantUtil)
			}
			if math.Abs(d.DropRate-tt.wantDrop) > 1e-9 {
				t.Errorf("drop rate = %g, want %g", d.DropRate, tt.wantDrop)
			}
			if d.CV != 0 {
				t.Errorf("cv = %g, want 0 for constant active count", d.CV)
			}
		})
	}
}

func TestScorePrefersTarget(t *testing.T) {
	fe := &FitnessEvaluator{target: 0.6}
	onTarget := fe.score(runDetail{Utilization: 0.6})
	off := fe.score(runDetail{Utilization: 0.3})
	dropping := fe.score(runDetail{Utilization: 0.6, DropRate: 0.2})

	if onTarget >= off {
		t.Errorf("on-target %g should beat off-target %g", onTarget, off)
	}
	if onTarget >= dropping {
		t.Errorf("no drops %g should beat drops %g", onTarget, dropping)
	}
}
