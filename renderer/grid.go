package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/systems"
)

var (
	gridLineColor  = rl.NewColor(255, 255, 255, 20)
	gridFillColor  = rl.NewColor(80, 200, 120, 0)
	gridFullColor  = rl.NewColor(255, 60, 60, 90)
	gridLabelColor = rl.NewColor(200, 200, 200, 160)
)

// GridOverlay visualizes spatial bucket occupancy. It indexes the pool into
// its own SpatialIndex so it never touches the simulation's index.
type GridOverlay struct {
	index  *systems.SpatialIndex
	width  int32
	height int32
}

// NewGridOverlay creates an overlay covering a width x height screen with the
// given cell size and bucket capacity.
func NewGridOverlay(width, height int32, cellSize float32, capacity int) *GridOverlay {
	return &GridOverlay{
		index:  systems.NewSpatialIndex(cellSize, capacity),
		width:  width,
		height: height,
	}
}

// Resize updates the covered screen area.
func (g *GridOverlay) Resize(width, height int32) {
	g.width = width
	g.height = height
}

// Index rebuilds the overlay's index from src and returns the number of
// particles that did not fit their bucket.
func (g *GridOverlay) Index(src ParticleSource) int {
	g.index.Clear()
	src.ForEachActive(func(slot int, p *components.Particle) {
		g.index.Insert(int32(slot), p.X, p.Y)
	})
	return g.index.Dropped()
}

// Draw shades each on-screen cell by bucket fill and outlines the grid.
// Full buckets are drawn red.
func (g *GridOverlay) Draw() {
	cell := g.index.CellSize()
	size := max(int32(cell), 1)
	capacity := float32(g.index.Capacity())

	cols := int32(float32(g.width)/cell) + 1
	rows := int32(float32(g.height)/cell) + 1

	for cy := int32(0); cy < rows; cy++ {
		for cx := int32(0); cx < cols; cx++ {
			n := len(g.index.Bucket(systems.Cell{X: cx, Y: cy}))
			if n == 0 {
				continue
			}
			x, y := cx*size, cy*size
			if float32(n) >= capacity {
				rl.DrawRectangle(x, y, size, size, gridFullColor)
			} else {
				fill := gridFillColor
				fill.A = uint8(10 + 80*float32(n)/capacity)
				rl.DrawRectangle(x, y, size, size, fill)
			}
			rl.DrawText(fmt.Sprintf("%d", n), x+2, y+2, 10, gridLabelColor)
		}
	}

	for x := int32(0); x <= g.width; x += size {
		rl.DrawLine(x, 0, x, g.height, gridLineColor)
	}
	for y := int32(0); y <= g.height; y += size {
		rl.DrawLine(0, y, g.width, y, gridLineColor)
	}
}
