package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Load thresholds for WidgetLoadBar colouring.
const (
	loadMedium = 0.6
	loadHigh   = 0.9
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// barLayout returns the bar origin and width inside a row of the given width.
func (r *Renderer) barLayout(x, width int32) (barX, barWidth int32) {
	return x + r.Theme.LabelWidth, max(width-r.Theme.LabelWidth-50, 10)
}

// DrawBar draws a progress bar for value within rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	return r.drawFilledBar(x, y, label, value, rng, width, func(float32) rl.Color { return r.Theme.BarFill })
}

// DrawLoadBar draws a bar whose colour shifts from green to red as it fills.
func (r *Renderer) DrawLoadBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	return r.drawFilledBar(x, y, label, value, rng, width, func(ratio float32) rl.Color {
		switch {
		case ratio >= loadHigh:
			return r.Theme.BarFillHigh
		case ratio >= loadMedium:
			return r.Theme.BarFillMedium
		default:
			return r.Theme.BarFillLow
		}
	})
}

func (r *Renderer) drawFilledBar(x, y int32, label string, value float32, rng FieldRange, width int32, fill func(float32) rl.Color) int32 {
	ratio := normalize(value, rng)
	barX, barWidth := r.barLayout(x, width)

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill(ratio))
	rl.DrawText(fmt.Sprintf("%.0f%%", ratio*100), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a bar centred at zero for values in rng. Negative
// values extend left, positive values right.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value float32, rng FieldRange, width int32) int32 {
	barX, barWidth := r.barLayout(x, width)

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	centerX := barX + barWidth/2
	rl.DrawLine(centerX, y+2, centerX, y+2+r.Theme.BarHeight, rl.Color{R: 80, G: 80, B: 80, A: 255})

	extent := max(-rng.Min, rng.Max)
	var frac float32
	if extent > 0 {
		frac = min(abs32(value)/extent, 1)
	}
	fillWidth := int32(float32(barWidth/2) * frac)

	fillX := centerX
	barColor := r.Theme.BarFillPositive
	if value < 0 {
		fillX = centerX - fillWidth
		barColor = r.Theme.BarFillNegative
	}
	rl.DrawRectangle(fillX, y+2, fillWidth, r.Theme.BarHeight, barColor)
	rl.DrawText(fmt.Sprintf("%+.0f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	const swatchSize = 12

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, color)
	rl.DrawRectangleLines(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, r.Theme.PanelBorder)

	return y + r.Theme.LineHeight
}

// FieldHeight returns the vertical space a field occupies.
func (r *Renderer) FieldHeight(fd FieldDescriptor) int32 {
	switch fd.Widget {
	case WidgetBar, WidgetLoadBar, WidgetCenteredBar:
		return r.Theme.LineHeight + 2
	case WidgetSpacer:
		return 6
	default:
		return r.Theme.LineHeight
	}
}

// PanelHeight returns the height DrawPanelDescriptor will use for pd given s.
func (r *Renderer) PanelHeight(pd PanelDescriptor, s *Snapshot) int32 {
	h := r.Theme.Padding * 2
	if pd.Title != "" {
		h += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		if sd.Visible != nil && !sd.Visible(s) {
			continue
		}
		if sd.Title != "" {
			h += r.Theme.LineHeight
		}
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(s) {
				continue
			}
			h += r.FieldHeight(fd)
		}
		h += 4
	}
	return h
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, s *Snapshot, width int32) int32 {
	value := float32(0)
	if fd.Getter != nil {
		value = fd.Getter(s)
	}

	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(s)
		} else if fd.Getter != nil {
			text = fmt.Sprintf(fd.Format, value)
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, value, fd.Range, width)

	case WidgetLoadBar:
		return r.DrawLoadBar(x, y, fd.Label, value, fd.Range, width)

	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, value, fd.Range, width)

	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(s)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + r.FieldHeight(fd)
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, s *Snapshot, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(s) {
		return y
	}

	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}

	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(s) {
			continue
		}
		y = r.DrawField(x, y, fd, s, width)
	}

	return y + 4
}

// DrawPanelDescriptor draws pd at its anchor and returns the panel bounds.
func (r *Renderer) DrawPanelDescriptor(pd PanelDescriptor, s *Snapshot, screenW, screenH int32) rl.Rectangle {
	h := r.PanelHeight(pd, s)
	x, y := AnchorOrigin(pd.Anchor, pd.Width, h, screenW, screenH, r.Theme.Padding)

	r.DrawPanel(x, y, pd.Width, h)

	cx := x + r.Theme.Padding
	cy := y + r.Theme.Padding
	inner := pd.Width - r.Theme.Padding*2

	if pd.Title != "" {
		rl.DrawText(pd.Title, cx, cy, 16, rl.White)
		cy += r.Theme.LineHeight + 4
	}
	for _, sd := range pd.Sections {
		cy = r.DrawSection(cx, cy, sd, s, inner)
	}

	return rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(pd.Width), Height: float32(h)}
}

// normalize maps value into [0, 1] over rng.
func normalize(value float32, rng FieldRange) float32 {
	span := rng.Max - rng.Min
	if span <= 0 {
		return 0
	}
	return min(max((value-rng.Min)/span, 0), 1)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
