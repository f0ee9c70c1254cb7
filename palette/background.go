package palette

import (
	"image/color"
	"math"

	"github.com/ojrac/opensimplex-go"
)

const (
	backgroundHueSpeed = 10.0 // degrees per second
	backgroundValue    = 0.1
	backgroundDrift    = 0.03 // value wobble amplitude
	backgroundDriftHz  = 0.2
)

// StaticBackground is the clear colour while the dynamic background is off.
var StaticBackground = color.RGBA{R: 10, G: 10, B: 30, A: 255}

// Background is a slowly cycling dark clear colour.
type Background struct {
	Enabled bool

	hue   float64
	time  float64
	noise opensimplex.Noise
}

// NewBackground creates a disabled background whose brightness drift is
// seeded with seed.
func NewBackground(seed int64) *Background {
	return &Background{noise: opensimplex.New(seed)}
}

// Toggle flips the dynamic background on or off.
func (b *Background) Toggle() {
	b.Enabled = !b.Enabled
}

// Update advances the hue by dt seconds. Does nothing while disabled.
func (b *Background) Update(dt float32) {
	if !b.Enabled || dt <= 0 {
		return
	}
	b.time += float64(dt)
	b.hue = math.Mod(b.hue+backgroundHueSpeed*float64(dt), 360)
}

// HueDegrees returns the current hue.
func (b *Background) HueDegrees() float64 {
	return b.hue
}

// Color returns the current clear colour.
func (b *Background) Color() color.RGBA {
	if !b.Enabled {
		return StaticBackground
	}
	v := backgroundValue + backgroundDrift*b.noise.Eval2(b.time*backgroundDriftHz, 0)
	return Hue(b.hue, 1, min(max(v, 0), 1))
}
