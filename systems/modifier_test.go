package systems

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/config"
)

// recordModifier appends its tag to a shared log so tests can observe order.
type recordModifier struct {
	tag string
	log *[]string
}

func (m recordModifier) Apply(*components.Particle) { *m.log = append(*m.log, m.tag) }

func (m recordModifier) bind(*rand.Rand) Modifier { return m }

func TestModifiersRunInRegistrationOrder(t *testing.T) {
	e, err := NewEmitter(testEmitterConfig(PatternPoint, 2), 1)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	var log []string
	for _, tag := range []string{"a", "b", "c"} {
		e.AddModifier(recordModifier{tag: tag, log: &log})
	}
	e.AddModifier(nil)
	if got := e.Modifiers(); got != 3 {
		t.Errorf("Modifiers() = %d, want 3", got)
	}

	e.Update(1, make([]components.Particle, 4))

	want := []string{"a", "b", "c", "a", "b", "c"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestModifierEffects(t *testing.T) {
	base := components.Particle{X: 10, Y: 20, VX: 1, VY: 2, Lifetime: 4, MaxLifetime: 4, Size: 2,
		Color: color.RGBA{R: 0, G: 100, B: 200, A: 255}}
	rng := rand.New(rand.NewSource(5))

	tests := []struct {
		name  string
		mod   Modifier
		check func(t *testing.T, p components.Particle)
	}{
		{"jitter bounded", VelocityJitter{Amount: 3}, func(t *testing.T, p components.Particle) {
			if math.Abs(float64(p.VX-1)) > 3 || math.Abs(float64(p.VY-2)) > 3 {
				t.Errorf("velocity (%v, %v) jittered beyond 3", p.VX, p.VY)
			}
		}},
		{"lifetime variance keeps ratio full", LifetimeVariance{Fraction: 0.5}, func(t *testing.T, p components.Particle) {
			if p.Lifetime < 2 || p.Lifetime > 6 {
				t.Errorf("lifetime = %v, want within [2, 6]", p.Lifetime)
			}
			if p.Lifetime != p.MaxLifetime {
				t.Errorf("lifetime %v != max lifetime %v", p.Lifetime, p.MaxLifetime)
			}
		}},
		{"size variance bounded", SizeVariance{Fraction: 0.25}, func(t *testing.T, p components.Particle) {
			if p.Size < 1.5 || p.Size > 2.5 {
				t.Errorf("size = %v, want within [1.5, 2.5]", p.Size)
			}
		}},
		{"turbulence adds strength", Turbulence{Scale: 0.01, Strength: 10}, func(t *testing.T, p components.Particle) {
			dv := math.Hypot(float64(p.VX-1), float64(p.VY-2))
			if math.Abs(dv-10) > 1e-3 {
				t.Errorf("turbulence changed speed by %v, want 10", dv)
			}
		}},
		{"tint full mix", Tint{Color: color.RGBA{R: 255, G: 0, B: 0, A: 128}, Mix: 1}, func(t *testing.T, p components.Particle) {
			if p.Color != (color.RGBA{R: 255, G: 0, B: 0, A: 128}) {
				t.Errorf("color = %v, want tint color", p.Color)
			}
		}},
		{"tint half mix", Tint{Color: color.RGBA{R: 200, G: 100, B: 0, A: 255}, Mix: 0.5}, func(t *testing.T, p components.Particle) {
			if p.Color != (color.RGBA{R: 100, G: 100, B: 100, A: 255}) {
				t.Errorf("color = %v, want {100 100 100 255}", p.Color)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.mod.bind(rng)
			for i := 0; i < 100; i++ {
				p := base
				m.Apply(&p)
				tt.check(t, p)
			}
		})
	}
}

func TestUnboundModifiersAreNoOps(t *testing.T) {
	base := components.Particle{VX: 1, VY: 2, Lifetime: 3, MaxLifetime: 3, Size: 4}
	for _, m := range []Modifier{VelocityJitter{Amount: 1}, LifetimeVariance{Fraction: 1}, SizeVariance{Fraction: 1}, Turbulence{Strength: 1}} {
		p := base
		m.Apply(&p)
		if p != base {
			t.Errorf("%T modified particle without binding", m)
		}
	}
}

func TestBuildModifier(t *testing.T) {
	tests := []struct {
		name    string
		mc      config.ModifierConfig
		want    Modifier
		wantErr error
	}{
		{"jitter", config.ModifierConfig{Kind: "jitter", Amount: 2}, VelocityJitter{Amount: 2}, nil},
		{"lifetime", config.ModifierConfig{Kind: "lifetime_variance", Amount: 0.1}, LifetimeVariance{Fraction: 0.1}, nil},
		{"size", config.ModifierConfig{Kind: "size_variance", Amount: 0.25}, SizeVariance{Fraction: 0.25}, nil},
		{"tint", config.ModifierConfig{Kind: "tint", Amount: 0.5, Color: [4]int{1, 2, 3, 4}},
			Tint{Color: color.RGBA{R: 1, G: 2, B: 3, A: 4}, Mix: 0.5}, nil},
		{"tint out of range", config.ModifierConfig{Kind: "tint", Color: [4]int{256, 0, 0, 0}}, nil, ErrInvalidColorRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildModifier(tt.mc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("BuildModifier() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildModifier() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildModifier() = %#v, want %#v", got, tt.want)
			}
		})
	}

	if _, err := BuildModifier(config.ModifierConfig{Kind: "gravity_well"}); err == nil {
		t.Error("BuildModifier(unknown kind) returned nil error")
	}

	m, err := BuildModifier(config.ModifierConfig{Kind: "turbulence", Scale: 0.02, Strength: 5})
	if err != nil {
		t.Fatalf("BuildModifier(turbulence) error = %v", err)
	}
	if tb, ok := m.(Turbulence); !ok || tb.Scale != 0.02 || tb.Strength != 5 {
		t.Errorf("BuildModifier(turbulence) = %#v", m)
	}
}
