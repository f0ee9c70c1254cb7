package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/ui"
)

// Draw renders the frame.
func (g *Game) Draw() {
	rl.BeginDrawing()

	g.backgroundRenderer.Draw()
	g.particleRenderer.Draw(g.sys)

	if f, ok := g.sys.ForceField(g.field); ok {
		g.fieldIndicator.Draw(f)
	}

	g.drawActiveOverlays()
	g.drawUI()

	rl.EndDrawing()
}

// drawActiveOverlays renders debug overlays that are switched on.
func (g *Game) drawActiveOverlays() {
	if g.toggles.IsEnabled(ui.ToggleGrid) {
		g.gridOverlay.Index(g.sys)
		g.gridOverlay.Draw()
	}
}

// drawUI renders the HUD and panels.
func (g *Game) drawUI() {
	g.fillSnapshot(&g.snapshot)
	w, h := int32(g.screenWidth), int32(g.screenHeight)

	g.hud.Draw(ui.HUDData{
		Title:        Title,
		Snapshot:     &g.snapshot,
		ScreenWidth:  w,
		ScreenHeight: h,
	})
	g.hud.DrawControls(h, g.toggles.Legend())

	if g.toggles.IsEnabled(ui.ToggleStats) {
		g.statsPanel.Draw(&g.snapshot, w, h)
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if g.toggles.IsEnabled(ui.ToggleControls) {
		names := make([]string, len(g.presets))
		for i, p := range g.presets {
			names[i] = p.Name
		}
		res := g.controlsPanel.Draw(g.toggles, g.fieldStrength, names)
		if len(res.Toggled) > 0 || res.StrengthMoved || res.Preset >= 0 || res.Reset {
			// Toggled aliases panel scratch that the next Draw overwrites
			res.Toggled = append([]ui.ToggleID(nil), res.Toggled...)
			g.pendingControls = &res
		}
	}
}

// fillSnapshot copies the state panels display into s.
func (g *Game) fillSnapshot(s *ui.Snapshot) {
	last := g.sys.LastStep()
	bg := g.background.Color()

	*s = ui.Snapshot{
		Active:        last.Active,
		Capacity:      g.sys.Capacity(),
		Emitters:      g.sys.EmitterCount(),
		Fields:        g.sys.ForceFieldCount(),
		Bursts:        g.bursts.Len(),
		Workers:       g.sys.Workers(),
		Emitted:       last.Emitted,
		Expired:       last.Expired,
		Dropped:       last.Dropped,
		PairChecks:    last.PairChecks,
		Preset:        g.PresetName(),
		FieldStrength: g.fieldStrength,
		FieldActive:   g.toggles.IsEnabled(ui.ToggleField),
		Interaction:   g.sys.ParticleInteractionEnabled(),
		Rainbow:       g.presets[g.presetIdx].Rainbow,
		Background:    rl.NewColor(bg.R, bg.G, bg.B, bg.A),
		FPS:           rl.GetFPS(),
		Paused:        g.toggles.IsEnabled(ui.TogglePause),
	}
}
