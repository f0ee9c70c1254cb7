// Package telemetry provides particle engine health tracking, bookmarking,
// performance collection and CSV output.
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

	// Pool state at window end
	Active      int     `csv:"active"`
	Capacity    int     `csv:"capacity"`
	Utilization float64 `csv:"utilization"`
	Emitters    int     `csv:"emitters"`
	Fields      int     `csv:"fields"`

	// Events during window
	Emitted    int `csv:"emitted"`
	Expired    int `csv:"expired"`
	Dropped    int `csv:"dropped"`     // index overflow, summed over steps
	PairChecks int `csv:"pair_checks"` // repulsion pairs, summed over steps

	// Per-second rates over the window
	EmitRate   float64 `csv:"emit_rate"`
	ExpireRate float64 `csv:"expire_rate"`

	// Remaining lifetime fraction of active particles (sampled at window end)
	LifeMean float64 `csv:"life_mean"`
	LifeP10  float64 `csv:"life_p10"`
	LifeP50  float64 `csv:"life_p50"`
	LifeP90  float64 `csv:"life_p90"`

	// Speed distribution of active particles (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, standard deviation and empirical percentiles of
// values. values is sorted in place. An empty sample yields zeros.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	slices.Sort(values)
	mean, std := stat.MeanStdDev(values, nil)
	if n < 2 {
		std = 0
	}

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, values, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, values, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, values, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active", s.Active),
		slog.Int("capacity", s.Capacity),
		slog.Float64("utilization", s.Utilization),
		slog.Int("emitters", s.Emitters),
		slog.Int("fields", s.Fields),
		slog.Int("emitted", s.Emitted),
		slog.Int("expired", s.Expired),
		slog.Int("dropped", s.Dropped),
		slog.Int("pair_checks", s.PairChecks),
		slog.Float64("emit_rate", s.EmitRate),
		slog.Float64("expire_rate", s.ExpireRate),
		slog.Float64("life_mean", s.LifeMean),
		slog.Float64("life_p50", s.LifeP50),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p90", s.SpeedP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"active", s.Active,
		"utilization", s.Utilization,
		"emitters", s.Emitters,
		"fields", s.Fields,
		"emitted", s.Emitted,
		"expired", s.Expired,
		"dropped", s.Dropped,
		"pair_checks", s.PairChecks,
		"emit_rate", s.EmitRate,
		"expire_rate", s.ExpireRate,
		"life_mean", s.LifeMean,
		"life_p10", s.LifeP10,
		"life_p50", s.LifeP50,
		"life_p90", s.LifeP90,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
	)
}
