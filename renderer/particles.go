// Package renderer draws the particle pool, force field indicators and debug
// overlays with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/palette"
)

// ParticleSource iterates the active particles of a pool.
type ParticleSource interface {
	ForEachActive(fn func(slot int, p *components.Particle))
}

// ParticleRenderer renders active particles as filled circles.
type ParticleRenderer struct {
	MinRadius float32 // smallest radius drawn
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{MinRadius: 0.5}
}

// Draw renders all active particles and returns how many were drawn.
// Fully faded particles are skipped.
func (r *ParticleRenderer) Draw(src ParticleSource) int {
	drawn := 0
	src.ForEachActive(func(_ int, p *components.Particle) {
		c := palette.ParticleColor(p)
		if c.A == 0 {
			return
		}
		size := max(palette.Radius(p), r.MinRadius)
		rl.DrawCircle(int32(p.X), int32(p.Y), size, rl.NewColor(c.R, c.G, c.B, c.A))
		drawn++
	})
	return drawn
}
