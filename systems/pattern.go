package systems

import (
	"fmt"
	"strings"
)

// Pattern selects the spawn geometry of an emitter.
type Pattern uint8

const (
	PatternPoint Pattern = iota
	PatternCircle
	PatternLine
	PatternSpiral
)

var patternNames = [...]string{
	PatternPoint:  "point",
	PatternCircle: "circle",
	PatternLine:   "line",
	PatternSpiral: "spiral",
}

// String returns the pattern's config name.
func (p Pattern) String() string {
	if int(p) < len(patternNames) {
		return patternNames[p]
	}
	return fmt.Sprintf("pattern(%d)", uint8(p))
}

// Valid reports whether p is one of the known patterns.
func (p Pattern) Valid() bool {
	return int(p) < len(patternNames)
}

// ParsePattern converts a config name into a Pattern.
func ParsePattern(s string) (Pattern, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pattern) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPattern, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
