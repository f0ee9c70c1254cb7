// Package palette maps particle state to draw colours and sizes, and drives
// the dynamic background.
package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/sparks/components"
)

const (
	rainbowPositionHue = 0.1 // degrees of hue per world unit of x+y
	minRadiusFraction  = 0.7 // radius at end of life relative to Size
)

// ParticleColor returns the colour p is drawn with. Rainbow particles cycle
// hue with age and position; others keep their emitted colour. Alpha fades
// with remaining lifetime in both cases.
func ParticleColor(p *components.Particle) color.RGBA {
	ratio := p.LifeRatio()

	c := p.Color
	if p.Rainbow {
		c = Hue(RainbowHue(p.X, p.Y, ratio), 1, 1)
	}
	c.A = uint8(float32(p.Color.A) * ratio)
	return c
}

// RainbowHue returns the hue in degrees for a rainbow particle at (x, y)
// with the given lifetime ratio.
func RainbowHue(x, y, ratio float32) float64 {
	h := math.Mod(float64(ratio)*360+float64(x+y)*rainbowPositionHue, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Radius returns the draw radius of p, shrinking to 70% of Size at end of life.
func Radius(p *components.Particle) float32 {
	return p.Size * (minRadiusFraction + (1-minRadiusFraction)*p.LifeRatio())
}

// Hue converts an HSV triple (h in degrees, s and v in [0, 1]) to an opaque RGBA.
func Hue(h, s, v float64) color.RGBA {
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
