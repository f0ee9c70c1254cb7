package systems

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
)

// Modifier adjusts a freshly emitted particle. The set of implementations is
// closed: VelocityJitter, LifetimeVariance, SizeVariance, Turbulence and Tint.
type Modifier interface {
	Apply(p *components.Particle)

	// bind returns a copy of the modifier wired to the owning emitter's
	// generator. Called once by Emitter.AddModifier.
	bind(rng *rand.Rand) Modifier
}

// VelocityJitter adds a uniform random offset in [-Amount, Amount) to each
// velocity component.
type VelocityJitter struct {
	Amount float32
	rng    *rand.Rand
}

func (m VelocityJitter) Apply(p *components.Particle) {
	if m.rng == nil {
		return
	}
	p.VX += (m.rng.Float32()*2 - 1) * m.Amount
	p.VY += (m.rng.Float32()*2 - 1) * m.Amount
}

func (m VelocityJitter) bind(rng *rand.Rand) Modifier {
	m.rng = rng
	return m
}

// LifetimeVariance scales lifetime by a random factor in [1-Fraction, 1+Fraction).
type LifetimeVariance struct {
	Fraction float32
	rng      *rand.Rand
}

func (m LifetimeVariance) Apply(p *components.Particle) {
	if m.rng == nil {
		return
	}
	scale := 1 + (m.rng.Float32()*2-1)*m.Fraction
	if scale <= 0 {
		return
	}
	p.Lifetime *= scale
	p.MaxLifetime = p.Lifetime
}

func (m LifetimeVariance) bind(rng *rand.Rand) Modifier {
	m.rng = rng
	return m
}

// SizeVariance scales size by a random factor in [1-Fraction, 1+Fraction).
type SizeVariance struct {
	Fraction float32
	rng      *rand.Rand
}

func (m SizeVariance) Apply(p *components.Particle) {
	if m.rng == nil {
		return
	}
	scale := 1 + (m.rng.Float32()*2-1)*m.Fraction
	if scale < 0 {
		scale = 0
	}
	p.Size *= scale
}

func (m SizeVariance) bind(rng *rand.Rand) Modifier {
	m.rng = rng
	return m
}

// Turbulence pushes the particle along a direction sampled from a simplex
// noise field at its spawn position.
type Turbulence struct {
	Scale    float32 // noise frequency in 1/world units
	Strength float32 // added speed
	noise    opensimplex.Noise
}

func (m Turbulence) Apply(p *components.Particle) {
	if m.noise == nil {
		return
	}
	n := m.noise.Eval2(float64(p.X*m.Scale), float64(p.Y*m.Scale))
	sin, cos := math.Sincos(n * math.Pi)
	p.VX += float32(cos) * m.Strength
	p.VY += float32(sin) * m.Strength
}

func (m Turbulence) bind(rng *rand.Rand) Modifier {
	m.noise = opensimplex.New(rng.Int63())
	return m
}

// Tint blends the particle colour toward Color by Mix in [0, 1].
type Tint struct {
	Color color.RGBA
	Mix   float32
}

func (m Tint) Apply(p *components.Particle) {
	mix := min(max(m.Mix, 0), 1)
	lerp := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*mix + 0.5)
	}
	p.Color = color.RGBA{
		R: lerp(p.Color.R, m.Color.R),
		G: lerp(p.Color.G, m.Color.G),
		B: lerp(p.Color.B, m.Color.B),
		A: lerp(p.Color.A, m.Color.A),
	}
}

func (m Tint) bind(*rand.Rand) Modifier {
	return m
}

// BuildModifier converts a preset modifier declaration into a Modifier.
func BuildModifier(mc config.ModifierConfig) (Modifier, error) {
	switch mc.Kind {
	case "jitter":
		return VelocityJitter{Amount: float32(mc.Amount)}, nil
	case "lifetime_variance":
		return LifetimeVariance{Fraction: float32(mc.Amount)}, nil
	case "size_variance":
		return SizeVariance{Fraction: float32(mc.Amount)}, nil
	case "turbulence":
		return Turbulence{Scale: float32(mc.Scale), Strength: float32(mc.Strength)}, nil
	case "tint":
		c, err := rgbaFromInts(mc.Color)
		if err != nil {
			return nil, err
		}
		return Tint{Color: c, Mix: float32(mc.Amount)}, nil
	default:
		return nil, fmt.Errorf("unknown modifier kind %q", mc.Kind)
	}
}

func rgbaFromInts(v [4]int) (color.RGBA, error) {
	for _, c := range v {
		if c < 0 || c > 255 {
			return color.RGBA{}, fmt.Errorf("%w: component %d outside [0, 255]", ErrInvalidColorRange, c)
		}
	}
	return color.RGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: uint8(v[3])}, nil
}
