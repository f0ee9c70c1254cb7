package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/pthm-cable/sparks/components"
)

func TestCellOfFloors(t *testing.T) {
	s := NewSpatialIndex(30, 8)
	tests := []struct {
		x, y float32
		want Cell
	}{
		{0, 0, Cell{0, 0}},
		{29.9, 29.9, Cell{0, 0}},
		{30, 60, Cell{1, 2}},
		{-0.1, -29.9, Cell{-1, -1}},
		{-30, -30.1, Cell{-1, -2}},
	}
	for _, tt := range tests {
		if got := s.CellOf(tt.x, tt.y); got != tt.want {
			t.Errorf("CellOf(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRebuildIndexesActiveOnly(t *testing.T) {
	pool := []components.Particle{
		{X: 5, Y: 5, Active: true},
		{X: 6, Y: 6},
		{X: 35, Y: 5, Active: true},
		{X: -5, Y: 5, Active: true},
	}
	s := NewSpatialIndex(30, 8)
	s.Rebuild(pool)

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got := s.Bucket(Cell{0, 0}); !slices.Equal(got, []int32{0}) {
		t.Errorf("bucket (0,0) = %v, want [0]", got)
	}
	if got := s.Bucket(Cell{1, 0}); !slices.Equal(got, []int32{2}) {
		t.Errorf("bucket (1,0) = %v, want [2]", got)
	}
	if got := s.Bucket(Cell{-1, 0}); !slices.Equal(got, []int32{3}) {
		t.Errorf("bucket (-1,0) = %v, want [3]", got)
	}
	if pos := s.Position(2); pos.X != 35 || pos.Y != 5 {
		t.Errorf("Position(2) = %v, want {35 5}", pos)
	}

	block := s.Neighborhood(Cell{0, 0})
	if !slices.Equal(block[4], []int32{0}) || !slices.Equal(block[5], []int32{2}) || !slices.Equal(block[3], []int32{3}) {
		t.Errorf("Neighborhood = %v", block)
	}
}

func TestRebuildCapacityDrops(t *testing.T) {
	pool := make([]components.Particle, 10)
	for i := range pool {
		pool[i] = components.Particle{X: 1, Y: 1, Active: true}
	}
	s := NewSpatialIndex(30, 4)
	s.Rebuild(pool)

	if got := len(s.Bucket(Cell{0, 0})); got != 4 {
		t.Errorf("bucket len = %d, want 4", got)
	}
	if s.Dropped() != 6 {
		t.Errorf("Dropped() = %d, want 6", s.Dropped())
	}

	// Dropped particles are invisible to queries
	got := s.QueryRadiusInto(nil, 1, 1, 10, -1)
	if len(got) != 4 {
		t.Errorf("query found %d, want 4", len(got))
	}

	s.Rebuild(pool[:2])
	if s.Dropped() != 0 || s.Len() != 2 {
		t.Errorf("after smaller rebuild: dropped=%d len=%d, want 0 2", s.Dropped(), s.Len())
	}
}

func TestClearEmptiesIndex(t *testing.T) {
	pool := []components.Particle{{X: 1, Y: 1, Active: true}, {X: 100, Y: 100, Active: true}}
	s := NewSpatialIndex(30, 8)
	s.Rebuild(pool)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", s.Len())
	}
	if b := s.Bucket(Cell{0, 0}); len(b) != 0 {
		t.Errorf("bucket (0,0) = %v after Clear", b)
	}
	if got := s.QueryRadiusInto(nil, 1, 1, 30, -1); len(got) != 0 {
		t.Errorf("query after Clear found %d", len(got))
	}
}

// TestQueryMatchesBruteForce samples random clouds and checks the radius
// query against a full scan, both for radii inside the 3x3 neighbourhood and
// for radii that reach further.
func TestQueryMatchesBruteForce(t *testing.T) {
	tests := []struct {
		name   string
		radius float32
	}{
		{"within one cell", 20},
		{"below one cell", 7},
		{"three cells", 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const (
				n        = 400
				cellSize = 20
			)
			rng := rand.New(rand.NewSource(11))
			pool := make([]components.Particle, n)
			for i := range pool {
				pool[i] = components.Particle{
					X:      rng.Float32()*400 - 200,
					Y:      rng.Float32()*400 - 200,
					Active: rng.Intn(5) != 0,
				}
			}

			s := NewSpatialIndex(cellSize, n)
			s.Rebuild(pool)

			var scratch []Neighbor
			for i := range pool {
				if !pool[i].Active {
					continue
				}
				scratch = s.QueryRadiusInto(scratch[:0], pool[i].X, pool[i].Y, tt.radius, int32(i))

				var got []int32
				for _, nb := range scratch {
					got = append(got, nb.Slot)
					if want := pool[nb.Slot].X - pool[i].X; nb.DX != want {
						t.Errorf("neighbour %d DX = %v, want %v", nb.Slot, nb.DX, want)
					}
				}

				var want []int32
				for j := range pool {
					if j == i || !pool[j].Active {
						continue
					}
					dx := pool[j].X - pool[i].X
					dy := pool[j].Y - pool[i].Y
					if dx*dx+dy*dy < tt.radius*tt.radius {
						want = append(want, int32(j))
					}
				}

				slices.Sort(got)
				if !slices.Equal(got, want) {
					t.Fatalf("particle %d: neighbours %v, want %v", i, got, want)
				}
			}
		})
	}
}

func BenchmarkRebuild(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pool := make([]components.Particle, 50000)
	for i := range pool {
		pool[i] = components.Particle{X: rng.Float32() * 1280, Y: rng.Float32() * 720, Active: true}
	}
	s := NewSpatialIndex(30, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Rebuild(pool)
	}
}
