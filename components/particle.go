package components

import "image/color"

// Particle is a single pooled point mass. Its slot index in the pool is its
// only identity. Kinematic fields of an inactive particle are stale and are
// only touched by emission, which reinitializes them before activation.
type Particle struct {
	X, Y   float32 // position
	VX, VY float32 // velocity
	AX, AY float32 // acceleration accumulated for the current step

	Lifetime    float32 // seconds remaining
	MaxLifetime float32 // lifetime at emission
	Size        float32 // render radius at full life

	Color   color.RGBA
	Active  bool
	Rainbow bool // hue cycles with age and position instead of using Color
}

// Integrate advances the particle by dt seconds using the acceleration
// accumulated since the last call, then clears it. Returns true if the particle
// expired during this call.
func (p *Particle) Integrate(dt float32) bool {
	if !p.Active {
		return false
	}

	p.VX += p.AX * dt
	p.VY += p.AY * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt

	p.Lifetime -= dt
	expired := false
	if p.Lifetime <= 0 {
		p.Active = false
		expired = true
	}

	// Forces are reapplied every frame
	p.AX = 0
	p.AY = 0

	return expired
}

// ApplyForce accumulates a force (unit mass) into the pending acceleration.
func (p *Particle) ApplyForce(fx, fy float32) {
	p.AX += fx
	p.AY += fy
}

// LifeRatio returns remaining/maximum lifetime in [0, 1].
func (p *Particle) LifeRatio() float32 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	r := p.Lifetime / p.MaxLifetime
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
