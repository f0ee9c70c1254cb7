package systems

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/pthm-cable/sparks/components"
)

// Spawn geometry constants.
const (
	circleSpawnRadius = 50.0  // max distance from centre for circle spawns
	lineHalfWidth     = 100.0 // line emitters spawn within +/- this of centre
	lineJitter        = 0.2   // horizontal velocity fraction for line spawns

	spiralAngleStep  = 0.1
	spiralRadiusStep = 0.05
	spiralRadiusMin  = 5.0
	spiralRadiusMax  = 100.0
	spiralArmMin     = 5.0 // random arm offset added to the running radius
	spiralArmMax     = 20.0
	spiralSpinMin    = 2.0 // tangential speed multiplier range
	spiralSpinMax    = 5.0
	spiralOutward    = 0.5 // radial speed multiplier
)

var (
	// ErrInvalidColorRange is returned when a colour channel has min > max.
	ErrInvalidColorRange = errors.New("invalid color range")
	// ErrUnknownPattern is returned for an unrecognised pattern name or value.
	ErrUnknownPattern = errors.New("unknown emitter pattern")
	// ErrInvalidEmitter is returned for negative rate, size or lifetime.
	ErrInvalidEmitter = errors.New("invalid emitter config")
)

// EmitterConfig describes what an emitter spawns and where.
type EmitterConfig struct {
	X, Y     float32
	Rate     float32 // particles per second
	Speed    float32 // initial speed
	Size     float32
	Lifetime float32 // seconds
	Pattern  Pattern

	// Per-channel inclusive colour ranges
	ColorMin color.RGBA
	ColorMax color.RGBA
	Rainbow  bool

	// Running spiral state, advanced on every spiral spawn
	SpiralAngle  float32
	SpiralRadius float32
}

// Validate reports configuration errors that would make emission undefined.
func (c *EmitterConfig) Validate() error {
	if !c.Pattern.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownPattern, uint8(c.Pattern))
	}
	if c.Rate < 0 || c.Size < 0 || c.Lifetime < 0 {
		return fmt.Errorf("%w: rate=%g size=%g lifetime=%g", ErrInvalidEmitter, c.Rate, c.Size, c.Lifetime)
	}
	channels := [...]struct {
		name     string
		min, max uint8
	}{
		{"red", c.ColorMin.R, c.ColorMax.R},
		{"green", c.ColorMin.G, c.ColorMax.G},
		{"blue", c.ColorMin.B, c.ColorMax.B},
		{"alpha", c.ColorMin.A, c.ColorMax.A},
	}
	for _, ch := range channels {
		if ch.min > ch.max {
			return fmt.Errorf("%w: %s min %d > max %d", ErrInvalidColorRange, ch.name, ch.min, ch.max)
		}
	}
	return nil
}

// Emitter activates pooled particles at a configured rate.
type Emitter struct {
	cfg         EmitterConfig
	accumulator float64 // fractional particles carried to the next update
	rng         *rand.Rand
	modifiers   []Modifier
}

// NewEmitter validates cfg and returns an emitter drawing from its own
// generator seeded with seed.
func NewEmitter(cfg EmitterConfig, seed int64) (*Emitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Pattern == PatternSpiral && cfg.SpiralRadius == 0 {
		cfg.SpiralRadius = spiralRadiusMin
	}
	return &Emitter{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Config returns a copy of the emitter's current configuration, including
// spiral progress.
func (e *Emitter) Config() EmitterConfig {
	return e.cfg
}

// SetPosition moves the emitter. Already emitted particles are unaffected.
func (e *Emitter) SetPosition(x, y float32) {
	e.cfg.X = x
	e.cfg.Y = y
}

// AddModifier registers a post-emission modifier. Modifiers run in
// registration order on every freshly emitted particle.
func (e *Emitter) AddModifier(m Modifier) {
	if m == nil {
		return
	}
	e.modifiers = append(e.modifiers, m.bind(e.rng))
}

// Modifiers returns the number of registered modifiers.
func (e *Emitter) Modifiers() int {
	return len(e.modifiers)
}

// Update emits the whole particles owed for dt into inactive pool slots and
// returns how many were emitted. Demand the pool cannot absorb is dropped.
func (e *Emitter) Update(dt float32, pool []components.Particle) int {
	if dt < 0 {
		dt = 0
	}

	toEmit := float64(e.cfg.Rate)*float64(dt) + e.accumulator
	whole := math.Floor(toEmit)
	e.accumulator = toEmit - whole

	emitted := 0
	// Slots before next were active when scanned and stay active for the rest
	// of this call, so resuming there finds the same first inactive slot.
	next := 0
	for n := 0; n < int(whole); n++ {
		slot := firstInactive(pool, next)
		if slot < 0 {
			break
		}

		p := &pool[slot]
		e.emit(p)
		for _, m := range e.modifiers {
			m.Apply(p)
		}

		emitted++
		next = slot + 1
	}

	return emitted
}

// firstInactive returns the first inactive slot at or after start, or -1.
func firstInactive(pool []components.Particle, start int) int {
	for i := start; i < len(pool); i++ {
		if !pool[i].Active {
			return i
		}
	}
	return -1
}

// emit fully reinitializes p from the emitter config.
func (e *Emitter) emit(p *components.Particle) {
	c := &e.cfg

	p.Active = true
	p.Lifetime = c.Lifetime
	p.MaxLifetime = c.Lifetime
	p.Size = c.Size
	p.Rainbow = c.Rainbow
	p.Color = color.RGBA{
		R: e.channel(c.ColorMin.R, c.ColorMax.R),
		G: e.channel(c.ColorMin.G, c.ColorMax.G),
		B: e.channel(c.ColorMin.B, c.ColorMax.B),
		A: e.channel(c.ColorMin.A, c.ColorMax.A),
	}
	p.AX = 0
	p.AY = 0

	switch c.Pattern {
	case PatternPoint:
		angle := e.uniform(0, 2*math.Pi)
		sin, cos := sincos(angle)
		p.X = c.X
		p.Y = c.Y
		p.VX = cos * c.Speed
		p.VY = sin * c.Speed

	case PatternCircle:
		angle := e.uniform(0, 2*math.Pi)
		radius := e.uniform(0, circleSpawnRadius)
		sin, cos := sincos(angle)
		p.X = c.X + cos*radius
		p.Y = c.Y + sin*radius
		p.VX = cos * c.Speed
		p.VY = sin * c.Speed

	case PatternLine:
		p.X = c.X + e.uniform(-lineHalfWidth, lineHalfWidth)
		p.Y = c.Y
		p.VX = e.uniform(-lineJitter, lineJitter) * c.Speed
		p.VY = -c.Speed

	case PatternSpiral:
		radius := e.uniform(spiralArmMin, spiralArmMax) + c.SpiralRadius
		spin := e.uniform(spiralSpinMin, spiralSpinMax)
		sin, cos := sincos(c.SpiralAngle)
		p.X = c.X + cos*radius
		p.Y = c.Y + sin*radius
		p.VX = (-sin*spin + cos*spiralOutward) * c.Speed
		p.VY = (cos*spin + sin*spiralOutward) * c.Speed

		c.SpiralAngle += spiralAngleStep
		c.SpiralRadius += spiralRadiusStep
		if c.SpiralRadius > spiralRadiusMax {
			c.SpiralRadius = spiralRadiusMin
		}
	}
}

// channel draws uniformly from the inclusive range [lo, hi].
func (e *Emitter) channel(lo, hi uint8) uint8 {
	return lo + uint8(e.rng.Intn(int(hi)-int(lo)+1))
}

// uniform draws from [lo, hi).
func (e *Emitter) uniform(lo, hi float32) float32 {
	return lo + e.rng.Float32()*(hi-lo)
}

func sincos(a float32) (sin, cos float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}
