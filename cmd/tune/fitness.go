package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/game"
	"github.com/pthm-cable/sparks/telemetry"
)

// Fitness term weights.
const (
	weightUtilization = 1.0
	weightDropped     = 2.0
	weightPairs       = 0.002 // per neighbour pair per active particle
	weightStability   = 0.5

	warmupWindows = 2 // windows skipped while the pool fills
)

// FitnessEvaluator runs headless simulations and scores how well a preset
// fills the pool to the target utilization without index overflow.
type FitnessEvaluator struct {
	params      *ParamVector
	configPath  string
	presetIdx   int
	maxTicks    int32
	seeds       []int64
	target      float64
	statsWindow float64

	mu         sync.Mutex
	lastDetail runDetail
}

// runDetail holds the per-term breakdown of an evaluation.
type runDetail struct {
	Utilization float64
	DropRate    float64
	PairsPer    float64
	CV          float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, configPath string, presetIdx int, maxTicks int32, seeds []int64, target float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		configPath:  configPath,
		presetIdx:   presetIdx,
		maxTicks:    maxTicks,
		seeds:       seeds,
		target:      target,
		statsWindow: 1.0,
	}
}

// LastDetail returns the averaged breakdown from the most recent Evaluate call.
func (fe *FitnessEvaluator) LastDetail() runDetail {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDetail
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	details := make([]runDetail, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			details[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runDetail
	for _, d := range details {
		avg.Utilization += d.Utilization
		avg.DropRate += d.DropRate
		avg.PairsPer += d.PairsPer
		avg.CV += d.CV
	}
	n := float64(len(details))
	avg.Utilization /= n
	avg.DropRate /= n
	avg.PairsPer /= n
	avg.CV /= n

	fe.mu.Lock()
	fe.lastDetail = avg
	fe.mu.Unlock()

	return fe.score(avg)
}

// score combines a run breakdown into a scalar.
func (fe *FitnessEvaluator) score(d runDetail) float64 {
	utilErr := math.Abs(d.Utilization-fe.target) / fe.target
	return weightUtilization*utilErr +
		weightDropped*d.DropRate +
		weightPairs*d.PairsPer +
		weightStability*d.CV
}

// runSimulation executes a single headless run and summarizes its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runDetail {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return runDetail{DropRate: 1}
	}
	fe.params.ApplyToConfig(cfg, fe.presetIdx, x)
	if err := cfg.Validate(); err != nil {
		slog.Warn("rejected parameters", "error", err)
		return runDetail{DropRate: 1}
	}

	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		Preset:         cfg.Presets[fe.presetIdx].Name,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		slog.Error("failed to start run", "error", err)
		return runDetail{DropRate: 1}
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}

	return summarize(windows)
}

// summarize reduces post-warmup windows to a run breakdown.
func summarize(windows []telemetry.WindowStats) runDetail {
	if len(windows) <= warmupWindows {
		return runDetail{}
	}
	valid := windows[warmupWindows:]

	var d runDetail
	var emitted, dropped, active int
	actives := make([]float64, 0, len(valid))
	for _, w := range valid {
		d.Utilization += w.Utilization
		emitted += w.Emitted
		dropped += w.Dropped
		active += w.Active
		d.PairsPer += float64(w.PairChecks)
		actives = append(actives, float64(w.Active))
	}
	d.Utilization /= float64(len(valid))
	if emitted > 0 {
		d.DropRate = float64(dropped) / float64(emitted)
	}
	if active > 0 {
		d.PairsPer /= float64(active)
	}
	if dist := telemetry.Summarize(actives); dist.Mean > 0 {
		d.CV = dist.Std / dist.Mean
	}

	return d
}
