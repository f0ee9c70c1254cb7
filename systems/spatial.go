// Package systems provides the emitters, spatial index and force kernels used
// by the particle engine.
package systems

import (
	"math"

	"github.com/pthm-cable/sparks/components"
)

// Cell is a discretized grid coordinate.
type Cell struct {
	X, Y int32
}

// Neighbor holds a nearby particle with precomputed spatial data.
type Neighbor struct {
	Slot   int32
	DX, DY float32 // delta from query origin to the neighbour
	DistSq float32
}

// SpatialIndex buckets active particle slots by cell. It is rebuilt from
// scratch every frame and is read-only between rebuilds, so concurrent
// queries need no locking.
//
// Each bucket holds at most capacity slots; particles beyond that are left
// out of the frame's queries and counted in Dropped.
type SpatialIndex struct {
	cellSize float32
	invCell  float32
	capacity int

	cells map[Cell][]int32
	spare [][]int32 // bucket storage recycled across rebuilds

	// Positions captured at rebuild, indexed by slot
	positions []components.Position

	count   int
	dropped int
}

// NewSpatialIndex creates an empty index. cellSize must be at least the
// largest interaction radius queried through the 3x3 neighbourhood.
func NewSpatialIndex(cellSize float32, capacity int) *SpatialIndex {
	return &SpatialIndex{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		capacity: capacity,
		cells:    make(map[Cell][]int32),
	}
}

// CellSize returns the cell edge length.
func (s *SpatialIndex) CellSize() float32 {
	return s.cellSize
}

// Capacity returns the per-bucket bound.
func (s *SpatialIndex) Capacity() int {
	return s.capacity
}

// Clear empties every bucket, keeping their storage for reuse.
func (s *SpatialIndex) Clear() {
	for _, b := range s.cells {
		s.spare = append(s.spare, b[:0])
	}
	clear(s.cells)
	s.count = 0
	s.dropped = 0
}

// Rebuild clears the index and inserts every active particle in pool.
func (s *SpatialIndex) Rebuild(pool []components.Particle) {
	s.Clear()
	if cap(s.positions) < len(pool) {
		s.positions = make([]components.Position, len(pool))
	}
	s.positions = s.positions[:len(pool)]

	for i := range pool {
		p := &pool[i]
		if p.Active {
			s.Insert(int32(i), p.X, p.Y)
		}
	}
}

// Insert adds slot at (x, y). Returns false if the target bucket is full.
func (s *SpatialIndex) Insert(slot int32, x, y float32) bool {
	c := s.CellOf(x, y)
	b, ok := s.cells[c]
	if !ok {
		b = s.takeBucket()
	}
	if len(b) >= s.capacity {
		s.dropped++
		return false
	}

	if int(slot) >= len(s.positions) {
		s.positions = append(s.positions, make([]components.Position, int(slot)+1-len(s.positions))...)
	}
	s.positions[slot] = components.Position{X: x, Y: y}

	s.cells[c] = append(b, slot)
	s.count++
	return true
}

func (s *SpatialIndex) takeBucket() []int32 {
	if n := len(s.spare); n > 0 {
		b := s.spare[n-1]
		s.spare = s.spare[:n-1]
		return b
	}
	return make([]int32, 0, min(s.capacity, 16))
}

// CellOf returns the cell containing (x, y).
func (s *SpatialIndex) CellOf(x, y float32) Cell {
	return Cell{
		X: int32(math.Floor(float64(x * s.invCell))),
		Y: int32(math.Floor(float64(y * s.invCell))),
	}
}

// Bucket returns the slots stored in c. The slice must not be modified.
func (s *SpatialIndex) Bucket(c Cell) []int32 {
	return s.cells[c]
}

// Neighborhood returns the 3x3 block of buckets centred on c, row by row,
// with c itself at index 4.
func (s *SpatialIndex) Neighborhood(c Cell) [9][]int32 {
	var block [9][]int32
	i := 0
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			block[i] = s.cells[Cell{X: c.X + dx, Y: c.Y + dy}]
			i++
		}
	}
	return block
}

// Position returns the position slot had when it was indexed.
func (s *SpatialIndex) Position(slot int32) components.Position {
	return s.positions[slot]
}

// Len returns the number of indexed particles.
func (s *SpatialIndex) Len() int {
	return s.count
}

// Dropped returns how many particles the last rebuild left out because their
// bucket was full.
func (s *SpatialIndex) Dropped() int {
	return s.dropped
}

// QueryRadiusInto appends every indexed particle within radius of (x, y),
// excluding slot exclude, to dst and returns the extended slice. Reuse dst
// across calls to avoid allocations. A radius up to the cell size scans only
// the Neighborhood of the cell holding (x, y).
func (s *SpatialIndex) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude int32) []Neighbor {
	reach := max(int32(math.Ceil(float64(radius*s.invCell))), 1)
	center := s.CellOf(x, y)
	radiusSq := radius * radius

	if reach == 1 {
		for _, bucket := range s.Neighborhood(center) {
			dst = s.appendWithin(dst, bucket, x, y, radiusSq, exclude)
		}
		return dst
	}

	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			bucket := s.cells[Cell{X: center.X + dx, Y: center.Y + dy}]
			dst = s.appendWithin(dst, bucket, x, y, radiusSq, exclude)
		}
	}
	return dst
}

// appendWithin appends the entries of bucket closer than sqrt(radiusSq) to (x, y).
func (s *SpatialIndex) appendWithin(dst []Neighbor, bucket []int32, x, y, radiusSq float32, exclude int32) []Neighbor {
	for _, slot := range bucket {
		if slot == exclude {
			continue
		}

		pos := s.positions[slot]
		ddx := pos.X - x
		ddy := pos.Y - y
		distSq := ddx*ddx + ddy*ddy

		if distSq < radiusSq {
			dst = append(dst, Neighbor{Slot: slot, DX: ddx, DY: ddy, DistSq: distSq})
		}
	}
	return dst
}
