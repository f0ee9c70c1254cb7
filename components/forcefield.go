package components

// ForceField is a radius-bounded point source. Positive strength attracts,
// negative strength repels.
type ForceField struct {
	X, Y     float32
	Radius   float32
	Strength float32
	Active   bool
}

// Contains reports whether a squared distance falls inside the field radius.
func (f *ForceField) Contains(distSq float32) bool {
	return distSq < f.Radius*f.Radius
}
