package systems

import (
	"math"

	"github.com/pthm-cable/sparks/components"
)

// MinDistSq is the squared separation below which inverse-distance forces
// are skipped.
const MinDistSq = 0.01

// ApplyForceFields accumulates the pull of every active field whose radius
// contains p. Magnitude falls off as strength/dist.
func ApplyForceFields(p *components.Particle, fields []components.ForceField) {
	for i := range fields {
		f := &fields[i]
		if !f.Active {
			continue
		}

		dx := f.X - p.X
		dy := f.Y - p.Y
		distSq := dx*dx + dy*dy
		if !f.Contains(distSq) || distSq <= MinDistSq {
			continue
		}

		dist := float32(math.Sqrt(float64(distSq)))
		force := f.Strength / dist
		p.ApplyForce(dx/dist*force, dy/dist*force)
	}
}

// Repulsion pushes particles apart with a force that reaches zero at Radius.
type Repulsion struct {
	Radius   float32
	Strength float32
}

// Apply accumulates repulsion from neighbours found by a radius query around
// p. Neighbour deltas point from p to the neighbour.
func (r Repulsion) Apply(p *components.Particle, neighbors []Neighbor) {
	radiusSq := r.Radius * r.Radius
	for i := range neighbors {
		n := &neighbors[i]
		if n.DistSq >= radiusSq || n.DistSq <= MinDistSq {
			continue
		}

		dist := float32(math.Sqrt(float64(n.DistSq)))
		force := r.Strength * (1 - dist/r.Radius) / dist
		p.ApplyForce(-n.DX*force, -n.DY*force)
	}
}

// Magnitude returns the acceleration magnitude Apply produces for a single
// neighbour at dist, or 0 outside the active band.
func (r Repulsion) Magnitude(dist float32) float32 {
	if dist >= r.Radius || dist*dist <= MinDistSq {
		return 0
	}
	return r.Strength * (1 - dist/r.Radius)
}
