package components

// Position is a world-space point.
type Position struct {
	X, Y float32
}
