package systems

import (
	"fmt"
	"image/color"

	"github.com/pthm-cable/sparks/config"
)

// EmitterFromPreset builds an emitter config and its modifiers from a preset.
// Preset positions are screen fractions and are scaled by width and height.
func EmitterFromPreset(p config.PresetConfig, width, height float32) (EmitterConfig, []Modifier, error) {
	pattern, err := ParsePattern(p.Pattern)
	if err != nil {
		return EmitterConfig{}, nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}

	var lo, hi color.RGBA
	ranges := [...]struct {
		name   string
		r      [2]int
		lo, hi *uint8
	}{
		{"red", p.Red, &lo.R, &hi.R},
		{"green", p.Green, &lo.G, &hi.G},
		{"blue", p.Blue, &lo.B, &hi.B},
		{"alpha", p.Alpha, &lo.A, &hi.A},
	}
	for _, ch := range ranges {
		if ch.r[0] < 0 || ch.r[1] > 255 || ch.r[0] > ch.r[1] {
			return EmitterConfig{}, nil, fmt.Errorf("preset %q: %w: %s [%d, %d]",
				p.Name, ErrInvalidColorRange, ch.name, ch.r[0], ch.r[1])
		}
		*ch.lo = uint8(ch.r[0])
		*ch.hi = uint8(ch.r[1])
	}

	cfg := EmitterConfig{
		X:        float32(p.X) * width,
		Y:        float32(p.Y) * height,
		Rate:     float32(p.Rate),
		Speed:    float32(p.Speed),
		Size:     float32(p.Size),
		Lifetime: float32(p.Lifetime),
		Pattern:  pattern,
		ColorMin: lo,
		ColorMax: hi,
		Rainbow:  p.Rainbow,
	}
	if err := cfg.Validate(); err != nil {
		return EmitterConfig{}, nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}

	mods := make([]Modifier, 0, len(p.Modifiers))
	for _, mc := range p.Modifiers {
		m, err := BuildModifier(mc)
		if err != nil {
			return EmitterConfig{}, nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		mods = append(mods, m)
	}

	return cfg, mods, nil
}
