// Package main sweeps worker counts over a headless preset run and reports
// step timing per worker count.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/simulation"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
)

// Result is one row of the sweep.
type Result struct {
	Workers     int     `csv:"workers"`
	Ticks       int     `csv:"ticks"`
	AvgStepUS   float64 `csv:"avg_step_us"`
	P95StepUS   float64 `csv:"p95_step_us"`
	IndexUS     float64 `csv:"spatial_index_us"`
	EmissionUS  float64 `csv:"emission_us"`
	IntegrateUS float64 `csv:"integration_us"`
	Speedup     float64 `csv:"speedup"`
	Active      int     `csv:"active"`
	Dropped     int     `csv:"dropped"`
	PairChecks  int     `csv:"pair_checks"`
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	presetName := flag.String("preset", "fountain", "Preset to run")
	workerList := flag.String("workers", "1,2,4,8", "Comma-separated worker counts")
	ticks := flag.Int("ticks", 600, "Measured ticks per worker count")
	warmup := flag.Int("warmup", 300, "Unmeasured ticks before timing")
	seed := flag.Int64("seed", 42, "Emitter seed")
	output := flag.String("output", "", "CSV output path (empty = stdout only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	preset, ok := cfg.Preset(*presetName)
	if !ok {
		log.Fatalf("unknown preset %q", *presetName)
	}
	counts, err := parseWorkers(*workerList)
	if err != nil {
		log.Fatal(err)
	}

	results := make([]Result, 0, len(counts))
	for _, w := range counts {
		r, err := run(cfg, preset, w, *seed, *warmup, *ticks)
		if err != nil {
			log.Fatalf("workers=%d: %v", w, err)
		}
		if len(results) > 0 && r.AvgStepUS > 0 {
			r.Speedup = results[0].AvgStepUS / r.AvgStepUS
		} else {
			r.Speedup = 1
		}
		results = append(results, r)
		fmt.Printf("workers=%-3d avg=%8.1fus p95=%8.1fus speedup=%.2fx active=%d dropped=%d\n",
			r.Workers, r.AvgStepUS, r.P95StepUS, r.Speedup, r.Active, r.Dropped)
	}

	if *output == "" {
		return
	}
	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
}

// parseWorkers parses a comma-separated list of positive worker counts.
func parseWorkers(list string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid worker count %q", field)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no worker counts in %q", list)
	}
	return counts, nil
}

// run steps a fresh system with the given worker count and measures it.
func run(cfg *config.Config, preset config.PresetConfig, workers int, seed int64, warmup, ticks int) (Result, error) {
	opts := simulation.OptionsFromConfig(cfg, seed)
	opts.Workers = workers
	sys, err := simulation.New(opts)
	if err != nil {
		return Result{}, err
	}
	defer sys.Close()

	ec, mods, err := systems.EmitterFromPreset(preset, cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	if err != nil {
		return Result{}, err
	}
	h, err := sys.AddEmitter(ec)
	if err != nil {
		return Result{}, err
	}
	for _, m := range mods {
		sys.AddModifier(h, m)
	}

	dt := cfg.Derived.FixedDT32
	for range warmup {
		sys.Step(dt)
	}

	perf := telemetry.NewPerfCollector(ticks)
	sys.SetPerf(perf)
	r := Result{Workers: workers, Ticks: ticks}
	for range ticks {
		perf.StartTick()
		sys.Step(dt)
		perf.EndTick()

		last := sys.LastStep()
		r.Dropped += last.Dropped
		r.PairChecks += last.PairChecks
	}
	r.Active = sys.ActiveCount()

	stats := perf.Stats()
	r.AvgStepUS = micros(stats.AvgTickDuration)
	r.P95StepUS = micros(stats.P95TickDuration)
	r.IndexUS = micros(stats.PhaseAvg[telemetry.PhaseSpatialIndex])
	r.EmissionUS = micros(stats.PhaseAvg[telemetry.PhaseEmission])
	r.IntegrateUS = micros(stats.PhaseAvg[telemetry.PhaseIntegration])
	return r, nil
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
