package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FieldStrengthLimit bounds the field strength slider and bar.
const FieldStrengthLimit = 1000

// StatsPanelDescriptor returns the layout of the engine stats panel.
func StatsPanelDescriptor() PanelDescriptor {
	return PanelDescriptor{
		ID:     "stats",
		Title:  "Engine",
		Width:  260,
		Anchor: AnchorTopRight,
		Sections: []SectionDescriptor{
			{
				ID:    "pool",
				Title: "Pool",
				Fields: []FieldDescriptor{
					{
						ID:     "active",
						Label:  "Active",
						Widget: WidgetText,
						TextGetter: func(s *Snapshot) string {
							return fmt.Sprintf("%d / %d", s.Active, s.Capacity)
						},
					},
					{
						ID:     "utilization",
						Label:  "Used",
						Widget: WidgetLoadBar,
						Range:  DefaultRange(),
						Getter: func(s *Snapshot) float32 { return s.Utilization() },
					},
					{
						ID:      "dropped",
						Label:   "Dropped",
						Widget:  WidgetText,
						Format:  "%.0f",
						Getter:  func(s *Snapshot) float32 { return float32(s.Dropped) },
						Visible: func(s *Snapshot) bool { return s.Dropped > 0 },
					},
				},
			},
			{
				ID:    "sources",
				Title: "Sources",
				Fields: []FieldDescriptor{
					{
						ID:         "preset",
						Label:      "Preset",
						Widget:     WidgetText,
						TextGetter: func(s *Snapshot) string { return s.Preset },
					},
					{
						ID:     "emitters",
						Label:  "Emitters",
						Widget: WidgetText,
						TextGetter: func(s *Snapshot) string {
							return fmt.Sprintf("%d (%d bursts)", s.Emitters, s.Bursts)
						},
					},
					{
						ID:      "field",
						Label:   "Field",
						Widget:  WidgetCenteredBar,
						Range:   FieldRange{Min: -FieldStrengthLimit, Max: FieldStrengthLimit},
						Getter:  func(s *Snapshot) float32 { return s.FieldStrength },
						Visible: func(s *Snapshot) bool { return s.FieldActive },
					},
				},
			},
			{
				ID:    "step",
				Title: "Last step",
				Fields: []FieldDescriptor{
					{ID: "emitted", Label: "Emitted", Widget: WidgetText, Format: "%.0f",
						Getter: func(s *Snapshot) float32 { return float32(s.Emitted) }},
					{ID: "expired", Label: "Expired", Widget: WidgetText, Format: "%.0f",
						Getter: func(s *Snapshot) float32 { return float32(s.Expired) }},
					{ID: "pairs", Label: "Pairs", Widget: WidgetText, Format: "%.0f",
						Getter:  func(s *Snapshot) float32 { return float32(s.PairChecks) },
						Visible: func(s *Snapshot) bool { return s.Interaction }},
					{ID: "workers", Label: "Workers", Widget: WidgetText, Format: "%.0f",
						Getter: func(s *Snapshot) float32 { return float32(s.Workers) }},
				},
			},
			{
				ID:    "render",
				Title: "Render",
				Fields: []FieldDescriptor{
					{ID: "background", Label: "Background", Widget: WidgetColorSwatch,
						ColorGetter: func(s *Snapshot) rl.Color { return s.Background }},
					{ID: "fps", Label: "FPS", Widget: WidgetText, Format: "%.0f",
						Getter: func(s *Snapshot) float32 { return float32(s.FPS) }},
				},
			},
		},
	}
}

// StatsPanel draws the engine stats panel.
type StatsPanel struct {
	renderer *Renderer
	layout   PanelDescriptor
	visible  bool
}

// NewStatsPanel creates a visible stats panel.
func NewStatsPanel() *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		layout:   StatsPanelDescriptor(),
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (p *StatsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Draw renders the panel for s.
func (p *StatsPanel) Draw(s *Snapshot, screenW, screenH int32) {
	if !p.visible {
		return
	}
	p.renderer.DrawPanelDescriptor(p.layout, s, screenW, screenH)
}
