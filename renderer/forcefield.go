package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/components"
)

// Indicator ring radii in pixels.
const (
	glowRadius   = 170
	fieldRadius  = 150
	centerRadius = 30
)

// ringPalette holds the glow, edge and centre ring colours for one polarity.
type ringPalette struct {
	glow, edge, center rl.Color
}

var (
	repelRings = ringPalette{
		glow:   rl.NewColor(100, 150, 255, 30),
		edge:   rl.NewColor(100, 150, 255, 100),
		center: rl.NewColor(150, 200, 255, 150),
	}
	attractRings = ringPalette{
		glow:   rl.NewColor(255, 100, 100, 30),
		edge:   rl.NewColor(255, 100, 100, 100),
		center: rl.NewColor(255, 150, 150, 150),
	}
)

// FieldIndicator draws concentric rings around a force field: blue when it
// repels, red when it attracts.
type FieldIndicator struct{}

// NewFieldIndicator creates a new indicator renderer.
func NewFieldIndicator() *FieldIndicator {
	return &FieldIndicator{}
}

// Draw renders the rings for f. Inactive fields are not drawn.
func (fi *FieldIndicator) Draw(f components.ForceField) {
	if !f.Active {
		return
	}

	rings := attractRings
	if f.Strength < 0 {
		rings = repelRings
	}

	x, y := int32(f.X), int32(f.Y)
	rl.DrawCircleLines(x, y, glowRadius, rings.glow)
	rl.DrawCircleLines(x, y, fieldRadius, rings.edge)
	rl.DrawCircleLines(x, y, centerRadius, rings.center)
}
