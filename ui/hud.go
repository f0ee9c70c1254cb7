package ui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Snapshot     *Snapshot
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	s := data.Snapshot

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d / %d | Emitters: %d | FPS: %d", s.Active, s.Capacity, s.Emitters, s.FPS),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(ModeLine(s), 10, 55, 16, rl.LightGray)

	if s.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// ModeLine summarizes the current physics modes.
func ModeLine(s *Snapshot) string {
	field := "off"
	if s.FieldActive {
		field = "repel"
		if s.FieldStrength > 0 {
			field = "attract"
		}
	}
	return fmt.Sprintf("Preset: %s | Field: %s | Interaction: %s | Rainbow: %s",
		s.Preset, field, onOff(s.Interaction), onOff(s.Rainbow))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, legend []string) {
	rl.DrawText(strings.Join(legend, " | "), 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s  P95: %s", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond)),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, phase := range telemetry.Phases() {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %6s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
