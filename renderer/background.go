package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/palette"
)

// BackgroundRenderer clears the frame with the static or cycling background.
type BackgroundRenderer struct {
	bg *palette.Background
}

// NewBackgroundRenderer creates a renderer for bg.
func NewBackgroundRenderer(bg *palette.Background) *BackgroundRenderer {
	return &BackgroundRenderer{bg: bg}
}

// Draw clears the screen.
func (b *BackgroundRenderer) Draw() {
	c := b.bg.Color()
	rl.ClearBackground(rl.NewColor(c.R, c.G, c.B, c.A))
}
