package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePool())
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

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// samplePool collects per-particle distributions at window end.
func (g *Game) samplePool() telemetry.PoolSample {
	sample := telemetry.PoolSample{
		Capacity: g.sys.Capacity(),
		Emitters: g.sys.EmitterCount(),
		Fields:   g.sys.ForceFieldCount(),
	}

	g.sys.ForEachActive(func(_ int, p *components.Particle) {
		sample.LifeRatios = append(sample.LifeRatios, float64(p.LifeRatio()))
		sample.Speeds = append(sample.Speeds, math.Hypot(float64(p.VX), float64(p.VY)))
	})
	sample.Active = len(sample.LifeRatios)

	return sample
}
