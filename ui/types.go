// Package ui provides a descriptor-driven UI for the particle engine.
// Panels are declared as field descriptors over a Snapshot of engine state
// and drawn by a shared themed Renderer.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetLoadBar                       // Bar coloured by how full it is
	WidgetCenteredBar                   // Bar growing from zero in either direction
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// Snapshot is the engine state panels read from. Filled once per frame.
type Snapshot struct {
	Active     int
	Capacity   int
	Emitters   int
	Fields     int
	Bursts     int
	Workers    int
	Emitted    int
	Expired    int
	Dropped    int
	PairChecks int

	Preset        string
	FieldStrength float32
	FieldActive   bool
	Interaction   bool
	Rainbow       bool
	Background    rl.Color

	FPS    int32
	Paused bool
}

// Utilization returns Active/Capacity.
func (s *Snapshot) Utilization() float32 {
	if s.Capacity == 0 {
		return 0
	}
	return float32(s.Active) / float32(s.Capacity)
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string                   // Unique identifier for the field
	Label       string                   // Display label
	Widget      WidgetType               // How to render
	Format      string                   // Printf format for text (e.g., "%.2f")
	Range       FieldRange               // Value range for bars
	Color       rl.Color                 // Optional color override
	Visible     func(*Snapshot) bool     // Optional visibility check (nil = always visible)
	Getter      func(*Snapshot) float32  // Value extractor (for numeric fields)
	TextGetter  func(*Snapshot) string   // Value extractor (for text fields)
	ColorGetter func(*Snapshot) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(*Snapshot) bool
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	ID       string
	Title    string
	Sections []SectionDescriptor
	Width    int32
	Anchor   PanelAnchor
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// AnchorOrigin returns the top-left corner of a w x h panel anchored inside
// a screenW x screenH screen with margin spacing from the edges.
func AnchorOrigin(a PanelAnchor, w, h, screenW, screenH, margin int32) (x, y int32) {
	switch a {
	case AnchorTopRight:
		return screenW - w - margin, margin
	case AnchorBottomLeft:
		return margin, screenH - h - margin
	case AnchorBottomRight:
		return screenW - w - margin, screenH - h - margin
	default:
		return margin, margin
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillLow      rl.Color
	BarFillMedium   rl.Color
	BarFillHigh     rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 15, G: 18, B: 28, A: 220},
		PanelBorder:     rl.Color{R: 60, G: 70, B: 90, A: 255},
		SectionHeader:   rl.Gold,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.RayWhite,
		BarBg:           rl.Color{R: 40, G: 40, B: 48, A: 255},
		BarFill:         rl.Color{R: 100, G: 150, B: 255, A: 255},
		BarFillLow:      rl.Color{R: 100, G: 200, B: 100, A: 255},
		BarFillMedium:   rl.Color{R: 220, G: 180, B: 90, A: 255},
		BarFillHigh:     rl.Color{R: 230, G: 90, B: 90, A: 255},
		BarFillNegative: rl.Color{R: 100, G: 150, B: 255, A: 255},
		BarFillPositive: rl.Color{R: 255, G: 100, B: 100, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      80,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
