package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsResult reports what the user changed in the control panel this frame.
type ControlsResult struct {
	Toggled       []ToggleID // toggles flipped through check boxes
	FieldStrength float32
	StrengthMoved bool
	Preset        int // index of the preset button pressed, or -1
	Reset         bool
}

// ControlsPanel is the raygui control panel. It mirrors the toggle registry
// as check boxes and adds a field strength slider, preset buttons and reset.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	toggled  []ToggleID
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Bounds returns the panel rectangle for the given registry and preset count.
func (c *ControlsPanel) Bounds(toggles *ToggleRegistry, presets int) rl.Rectangle {
	return rl.Rectangle{
		X:      float32(c.x),
		Y:      float32(c.y),
		Width:  float32(c.width),
		Height: float32(c.height(toggles, presets)),
	}
}

const (
	controlRow    = 20
	controlButton = 24
)

func (c *ControlsPanel) height(toggles *ToggleRegistry, presets int) int32 {
	t := c.renderer.Theme
	h := t.Padding*2 + t.LineHeight + 4 // title
	for _, cat := range toggles.Categories() {
		if cat == "panels" {
			continue
		}
		h += t.LineHeight + int32(len(toggles.ByCategory(cat)))*controlRow + 4
	}
	h += t.LineHeight + controlRow + 4                         // strength slider
	h += t.LineHeight + int32((presets+1)/2)*(controlButton+4) // preset buttons
	h += controlButton + 4                                     // reset
	return h
}

// Draw renders the panel and returns the user's changes. Toggle check boxes
// update the registry directly.
func (c *ControlsPanel) Draw(toggles *ToggleRegistry, fieldStrength float32, presets []string) ControlsResult {
	res := ControlsResult{FieldStrength: fieldStrength, Preset: -1}

	r := c.renderer
	t := r.Theme
	r.DrawPanel(c.x, c.y, c.width, c.height(toggles, len(presets)))

	x := float32(c.x + t.Padding)
	y := c.y + t.Padding
	inner := float32(c.width - t.Padding*2)

	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += t.LineHeight + 4

	c.toggled = c.toggled[:0]
	for _, cat := range toggles.Categories() {
		if cat == "panels" {
			continue
		}
		y = r.DrawSectionHeader(int32(x), y, categoryLabel(cat))
		for _, desc := range toggles.ByCategory(cat) {
			was := toggles.IsEnabled(desc.ID)
			label := desc.Name
			if desc.KeyLabel != "" {
				label = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			}
			now := gui.CheckBox(rl.Rectangle{X: x, Y: float32(y), Width: 14, Height: 14}, label, was)
			if now != was {
				toggles.SetEnabled(desc.ID, now)
				c.toggled = append(c.toggled, desc.ID)
			}
			y += controlRow
		}
		y += 4
	}
	res.Toggled = c.toggled

	y = r.DrawSectionHeader(int32(x), y, "Field Strength [Space]")
	strength := gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: float32(y), Width: inner - 90, Height: 16},
		fmt.Sprintf("%d", -FieldStrengthLimit),
		fmt.Sprintf("%+.0f", fieldStrength),
		fieldStrength,
		-FieldStrengthLimit,
		FieldStrengthLimit,
	)
	if strength != fieldStrength {
		res.FieldStrength = strength
		res.StrengthMoved = true
	}
	y += controlRow + 4

	y = r.DrawSectionHeader(int32(x), y, "Presets [1-4]")
	half := (inner - 6) / 2
	for i, name := range presets {
		bx := x
		if i%2 == 1 {
			bx += half + 6
		}
		if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: half, Height: controlButton}, name) {
			res.Preset = i
		}
		if i%2 == 1 || i == len(presets)-1 {
			y += controlButton + 4
		}
	}

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: controlButton}, "Reset [R]") {
		res.Reset = true
	}

	return res
}
