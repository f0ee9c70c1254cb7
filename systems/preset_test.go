package systems

import (
	"errors"
	"testing"

	"github.com/pthm-cable/sparks/config"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		in      string
		want    Pattern
		wantErr bool
	}{
		{"point", PatternPoint, false},
		{"Circle", PatternCircle, false},
		{" line ", PatternLine, false},
		{"spiral", PatternSpiral, false},
		{"vortex", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePattern(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPattern) {
				t.Errorf("ParsePattern(%q) error = %v, want ErrUnknownPattern", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePattern(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	var p Pattern
	if err := p.UnmarshalText([]byte("spiral")); err != nil || p != PatternSpiral {
		t.Errorf("UnmarshalText(spiral) = %v, %v", p, err)
	}
	if text, err := PatternLine.MarshalText(); err != nil || string(text) != "line" {
		t.Errorf("MarshalText(line) = %q, %v", text, err)
	}
	if _, err := Pattern(7).MarshalText(); err == nil {
		t.Error("MarshalText(invalid) returned nil error")
	}
}

func TestEmitterFromDefaultPresets(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	for _, p := range cfg.Presets {
		t.Run(p.Name, func(t *testing.T) {
			ec, mods, err := EmitterFromPreset(p, 1000, 500)
			if err != nil {
				t.Fatalf("EmitterFromPreset: %v", err)
			}
			if ec.X != float32(p.X)*1000 || ec.Y != float32(p.Y)*500 {
				t.Errorf("position (%v, %v) not scaled from (%v, %v)", ec.X, ec.Y, p.X, p.Y)
			}
			if len(mods) != len(p.Modifiers) {
				t.Errorf("built %d modifiers, want %d", len(mods), len(p.Modifiers))
			}
			if _, err := NewEmitter(ec, 1); err != nil {
				t.Errorf("NewEmitter: %v", err)
			}
		})
	}
}

func TestEmitterFromPresetErrors(t *testing.T) {
	valid := config.PresetConfig{
		Name: "test", Rate: 10, Speed: 10, Size: 1, Lifetime: 1, Pattern: "point",
		Red: [2]int{0, 255}, Green: [2]int{0, 255}, Blue: [2]int{0, 255}, Alpha: [2]int{255, 255},
	}

	tests := []struct {
		name    string
		mutate  func(p *config.PresetConfig)
		wantErr error
	}{
		{"inverted channel", func(p *config.PresetConfig) { p.Green = [2]int{200, 100} }, ErrInvalidColorRange},
		{"channel above 255", func(p *config.PresetConfig) { p.Blue = [2]int{0, 300} }, ErrInvalidColorRange},
		{"unknown pattern", func(p *config.PresetConfig) { p.Pattern = "zigzag" }, ErrUnknownPattern},
		{"negative rate", func(p *config.PresetConfig) { p.Rate = -5 }, ErrInvalidEmitter},
	}

	if _, _, err := EmitterFromPreset(valid, 100, 100); err != nil {
		t.Fatalf("valid preset: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if _, _, err := EmitterFromPreset(p, 100, 100); !errors.Is(err, tt.wantErr) {
				t.Errorf("EmitterFromPreset() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
