// Package simulation runs the particle engine: a fixed-capacity pool advanced
// once per Step by a set of long-lived workers.
package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
)

var (
	// ErrInvalidOptions is wrapped by every construction failure.
	ErrInvalidOptions = errors.New("invalid simulation options")
	// ErrNoWorkers is returned when Options.Workers is not positive.
	ErrNoWorkers = errors.New("simulation needs at least one worker")
)

// Options configures a System.
type Options struct {
	MaxParticles   int
	Workers        int
	Gravity        float32 // downward acceleration
	CellSize       float32
	BucketCapacity int

	RepulsionRadius    float32 // must not exceed CellSize
	RepulsionStrength  float32
	InteractionEnabled bool

	Seed int64 // seeds every emitter's generator
}

// OptionsFromConfig builds Options from loaded configuration.
func OptionsFromConfig(cfg *config.Config, seed int64) Options {
	return Options{
		MaxParticles:       cfg.Simulation.MaxParticles,
		Workers:            cfg.Derived.Workers,
		Gravity:            float32(cfg.Simulation.Gravity),
		CellSize:           float32(cfg.Simulation.CellSize),
		BucketCapacity:     cfg.Simulation.BucketCapacity,
		RepulsionRadius:    float32(cfg.Repulsion.Radius),
		RepulsionStrength:  float32(cfg.Repulsion.Strength),
		InteractionEnabled: cfg.Repulsion.Enabled,
		Seed:               seed,
	}
}

func (o Options) validate() error {
	if o.Workers <= 0 {
		return fmt.Errorf("%w: got %d", ErrNoWorkers, o.Workers)
	}
	if o.MaxParticles <= 0 {
		return fmt.Errorf("%w: max particles must be positive, got %d", ErrInvalidOptions, o.MaxParticles)
	}
	if o.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %g", ErrInvalidOptions, o.CellSize)
	}
	if o.BucketCapacity <= 0 {
		return fmt.Errorf("%w: bucket capacity must be positive, got %d", ErrInvalidOptions, o.BucketCapacity)
	}
	if o.RepulsionRadius < 0 || o.RepulsionRadius > o.CellSize {
		return fmt.Errorf("%w: repulsion radius %g must be within [0, cell size %g]",
			ErrInvalidOptions, o.RepulsionRadius, o.CellSize)
	}
	return nil
}

// PhaseTimer receives phase boundaries during Step. *telemetry.PerfCollector
// satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// StepStats summarizes the most recent Step.
type StepStats struct {
	Emitted    int // particles activated by emitters
	Expired    int // particles whose lifetime ran out
	Active     int // particles still active after integration
	Dropped    int // particles left out of the spatial index
	PairChecks int // neighbour pairs inside the repulsion radius
}

// System owns the particle pool, emitters, force fields and the worker pool.
// Its methods must be called from a single goroutine.
type System struct {
	pool      []components.Particle
	emitters  []*systems.Emitter
	fields    []components.ForceField
	index     *systems.SpatialIndex
	repulsion systems.Repulsion
	gravity   float32

	interaction bool
	rng         *rand.Rand

	workers *workerPool
	perf    PhaseTimer
	last    StepStats
	closed  bool
}

// New validates opts, allocates the pool and starts the workers.
func New(opts Options) (*System, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	s := &System{
		pool:  make([]components.Particle, opts.MaxParticles),
		index: systems.NewSpatialIndex(opts.CellSize, opts.BucketCapacity),
		repulsion: systems.Repulsion{
			Radius:   opts.RepulsionRadius,
			Strength: opts.RepulsionStrength,
		},
		gravity:     opts.Gravity,
		interaction: opts.InteractionEnabled,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		workers:     newWorkerPool(opts.Workers),
	}
	s.workers.startWorkers(s)
	return s, nil
}

// SetPerf installs a phase timer, or removes it when t is nil.
func (s *System) SetPerf(t PhaseTimer) {
	s.perf = t
}

func (s *System) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

// Step advances the simulation by dt seconds: rebuild the spatial index from
// current positions, run the emitters, then integrate every particle in
// parallel. Negative dt is treated as zero. Step does nothing after Close.
func (s *System) Step(dt float32) {
	if s.closed {
		return
	}
	if dt < 0 {
		dt = 0
	}

	s.phase(telemetry.PhaseSpatialIndex)
	if s.interaction {
		s.index.Rebuild(s.pool)
	} else {
		s.index.Clear()
	}

	s.phase(telemetry.PhaseEmission)
	emitted := 0
	for _, e := range s.emitters {
		emitted += e.Update(dt, s.pool)
	}

	s.phase(telemetry.PhaseIntegration)
	s.workers.run(dt)

	active, expired, pairs := s.workers.totals()
	s.last = StepStats{
		Emitted:    emitted,
		Expired:    expired,
		Active:     active,
		Dropped:    s.index.Dropped(),
		PairChecks: pairs,
	}
}

// integrateRange applies forces to and integrates slots [lo, hi). Runs on a
// worker; it writes only those slots and the worker's scratch.
func (s *System) integrateRange(lo, hi int, dt float32, scratch *workerScratch) {
	interaction := s.interaction && s.repulsion.Radius > 0
	radius := s.repulsion.Radius

	for i := lo; i < hi; i++ {
		p := &s.pool[i]
		if !p.Active {
			continue
		}

		p.ApplyForce(0, s.gravity)
		systems.ApplyForceFields(p, s.fields)

		if interaction {
			scratch.Neighbors = s.index.QueryRadiusInto(scratch.Neighbors[:0], p.X, p.Y, radius, int32(i))
			scratch.pairChecks += len(scratch.Neighbors)
			s.repulsion.Apply(p, scratch.Neighbors)
		}

		if p.Integrate(dt) {
			scratch.expired++
		} else {
			scratch.active++
		}
	}
}

// LastStep returns counters from the most recent Step.
func (s *System) LastStep() StepStats {
	return s.last
}

// AddEmitter validates cfg and registers a new emitter. The returned handle is
// its index, which shifts down when an earlier emitter is removed.
func (s *System) AddEmitter(cfg systems.EmitterConfig) (int, error) {
	e, err := systems.NewEmitter(cfg, s.rng.Int63())
	if err != nil {
		return -1, fmt.Errorf("adding emitter: %w", err)
	}
	s.emitters = append(s.emitters, e)
	return len(s.emitters) - 1, nil
}

// RemoveEmitter removes emitter h. Stale handles are ignored.
func (s *System) RemoveEmitter(h int) {
	if h < 0 || h >= len(s.emitters) {
		return
	}
	s.emitters = slices.Delete(s.emitters, h, h+1)
}

// SetEmitterPosition moves emitter h. Stale handles are ignored.
func (s *System) SetEmitterPosition(h int, x, y float32) {
	if h < 0 || h >= len(s.emitters) {
		return
	}
	s.emitters[h].SetPosition(x, y)
}

// AddModifier appends a post-emission modifier to emitter h. Stale handles
// are ignored.
func (s *System) AddModifier(h int, m systems.Modifier) {
	if h < 0 || h >= len(s.emitters) {
		return
	}
	s.emitters[h].AddModifier(m)
}

// EmitterConfig returns the current configuration of emitter h.
func (s *System) EmitterConfig(h int) (systems.EmitterConfig, bool) {
	if h < 0 || h >= len(s.emitters) {
		return systems.EmitterConfig{}, false
	}
	return s.emitters[h].Config(), true
}

// EmitterCount returns the number of registered emitters.
func (s *System) EmitterCount() int {
	return len(s.emitters)
}

// AddForceField registers an active field and returns its handle.
func (s *System) AddForceField(x, y, radius, strength float32) int {
	s.fields = append(s.fields, components.ForceField{
		X: x, Y: y,
		Radius:   radius,
		Strength: strength,
		Active:   true,
	})
	return len(s.fields) - 1
}

// RemoveForceField removes field h, shifting later handles down by one.
func (s *System) RemoveForceField(h int) {
	if h < 0 || h >= len(s.fields) {
		return
	}
	s.fields = slices.Delete(s.fields, h, h+1)
}

// UpdateForceField moves field h.
func (s *System) UpdateForceField(h int, x, y float32) {
	if h < 0 || h >= len(s.fields) {
		return
	}
	s.fields[h].X = x
	s.fields[h].Y = y
}

// SetForceFieldStrength changes the strength of field h.
func (s *System) SetForceFieldStrength(h int, strength float32) {
	if h < 0 || h >= len(s.fields) {
		return
	}
	s.fields[h].Strength = strength
}

// ForceFieldStrength returns the strength of field h, or 0 for a stale handle.
func (s *System) ForceFieldStrength(h int) float32 {
	if h < 0 || h >= len(s.fields) {
		return 0
	}
	return s.fields[h].Strength
}

// SetForceFieldActive enables or disables field h without removing it.
func (s *System) SetForceFieldActive(h int, active bool) {
	if h < 0 || h >= len(s.fields) {
		return
	}
	s.fields[h].Active = active
}

// ForceField returns a copy of field h.
func (s *System) ForceField(h int) (components.ForceField, bool) {
	if h < 0 || h >= len(s.fields) {
		return components.ForceField{}, false
	}
	return s.fields[h], true
}

// ForceFieldCount returns the number of registered fields.
func (s *System) ForceFieldCount() int {
	return len(s.fields)
}

// SetParticleInteractionEnabled toggles pairwise repulsion.
func (s *System) SetParticleInteractionEnabled(enabled bool) {
	s.interaction = enabled
}

// ParticleInteractionEnabled reports whether pairwise repulsion is on.
func (s *System) ParticleInteractionEnabled() bool {
	return s.interaction
}

// Reset deactivates every particle and removes all emitters and fields.
func (s *System) Reset() {
	for i := range s.pool {
		s.pool[i].Active = false
	}
	s.emitters = nil
	s.fields = s.fields[:0]
	s.index.Clear()
	s.last = StepStats{}
}

// ForEachActive calls fn for every active particle in slot order. fn must not
// retain p.
func (s *System) ForEachActive(fn func(slot int, p *components.Particle)) {
	for i := range s.pool {
		if s.pool[i].Active {
			fn(i, &s.pool[i])
		}
	}
}

// ActiveCount returns the number of active particles.
func (s *System) ActiveCount() int {
	n := 0
	for i := range s.pool {
		if s.pool[i].Active {
			n++
		}
	}
	return n
}

// Capacity returns the pool size.
func (s *System) Capacity() int {
	return len(s.pool)
}

// Workers returns the number of worker goroutines.
func (s *System) Workers() int {
	return s.workers.numWorkers
}

// Close stops the workers. It is safe to call more than once.
func (s *System) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.workers.stopWorkers()
}
