package telemetry

// Collector accumulates step counters within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32
	elapsedSec      float64 // sim seconds in the current window
	simTimeSec      float64 // sim seconds since start

	// Counters for current window
	emitted    int
	expired    int
	dropped    int
	pairChecks int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
	}
}

// RecordStep adds one step's counters to the current window. dt is the step
// actually taken, which may differ from the nominal tick in graphics mode.
func (c *Collector) RecordStep(dt float32, emitted, expired, dropped, pairChecks int) {
	c.elapsedSec += float64(dt)
	c.simTimeSec += float64(dt)
	c.emitted += emitted
	c.expired += expired
	c.dropped += dropped
	c.pairChecks += pairChecks
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PoolSample is the particle state sampled at window end.
type PoolSample struct {
	Active   int
	Capacity int
	Emitters int
	Fields   int

	LifeRatios []float64 // remaining lifetime fraction per active particle
	Speeds     []float64 // speed per active particle
}

// Flush produces a WindowStats and resets counters for the next window.
// sample slices are sorted in place.
func (c *Collector) Flush(currentTick int32, sample PoolSample) WindowStats {
	var emitRate, expireRate, utilization float64
	if c.elapsedSec > 0 {
		emitRate = float64(c.emitted) / c.elapsedSec
		expireRate = float64(c.expired) / c.elapsedSec
	}
	if sample.Capacity > 0 {
		utilization = float64(sample.Active) / float64(sample.Capacity)
	}

	life := Summarize(sample.LifeRatios)
	speed := Summarize(sample.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.simTimeSec,

		Active:      sample.Active,
		Capacity:    sample.Capacity,
		Utilization: utilization,
		Emitters:    sample.Emitters,
		Fields:      sample.Fields,

		Emitted:    c.emitted,
		Expired:    c.expired,
		Dropped:    c.dropped,
		PairChecks: c.pairChecks,

		EmitRate:   emitRate,
		ExpireRate: expireRate,

		LifeMean: life.Mean,
		LifeP10:  life.P10,
		LifeP50:  life.P50,
		LifeP90:  life.P90,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.elapsedSec = 0
	c.emitted = 0
	c.expired = 0
	c.dropped = 0
	c.pairChecks = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
