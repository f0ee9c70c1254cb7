package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/ui"
)

// populate installs the current preset emitter and the mouse field.
func (g *Game) populate() error {
	h, err := g.addPresetEmitter(g.presets[g.presetIdx], nil)
	if err != nil {
		return err
	}
	g.mainEmitter = h
	g.toggles.SetEnabled(ui.ToggleRainbow, g.presets[g.presetIdx].Rainbow)

	g.fieldStrength = float32(g.cfg.MouseField.Strength)
	g.field = g.sys.AddForceField(g.fieldX, g.fieldY, float32(g.cfg.MouseField.Radius), g.fieldStrength)
	g.toggles.SetEnabled(ui.ToggleField, true)
	return nil
}

// addPresetEmitter registers an emitter built from p with its modifiers.
// When at is non-nil the emitter is placed there instead of the preset
// position.
func (g *Game) addPresetEmitter(p config.PresetConfig, at *[2]float32) (int, error) {
	ec, mods, err := systems.EmitterFromPreset(p, g.screenWidth, g.screenHeight)
	if err != nil {
		return -1, err
	}
	if at != nil {
		ec.X, ec.Y = at[0], at[1]
	}

	h, err := g.sys.AddEmitter(ec)
	if err != nil {
		return -1, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	for _, m := range mods {
		g.sys.AddModifier(h, m)
	}
	return h, nil
}

// replaceMainEmitter swaps the preset emitter for one built from the current
// preset. Burst handles are shifted to follow the removal.
func (g *Game) replaceMainEmitter() {
	if g.mainEmitter >= 0 {
		g.sys.RemoveEmitter(g.mainEmitter)
		g.bursts.Shift(g.mainEmitter)
		g.mainEmitter = -1
	}

	h, err := g.addPresetEmitter(g.presets[g.presetIdx], nil)
	if err != nil {
		slog.Error("failed to add preset emitter", "preset", g.presets[g.presetIdx].Name, "error", err)
		return
	}
	g.mainEmitter = h
}

// selectPreset switches the main emitter to preset i. Out of range indices
// are ignored.
func (g *Game) selectPreset(i int) {
	if i < 0 || i >= len(g.presets) {
		return
	}
	g.presetIdx = i
	g.replaceMainEmitter()
	g.toggles.SetEnabled(ui.ToggleRainbow, g.presets[i].Rainbow)

	slog.Info("preset selected", "preset", g.presets[i].Name, "emitters", g.sys.EmitterCount())
}

// setRainbow changes rainbow mode for the current preset and rebuilds its
// emitter.
func (g *Game) setRainbow(enabled bool) {
	g.presets[g.presetIdx].Rainbow = enabled
	g.replaceMainEmitter()
}

// spawnBurst adds a short-lived emitter at (x, y) cloned from the burst
// preset.
func (g *Game) spawnBurst(x, y float32) {
	bc := g.cfg.Bursts
	if bc.Preset == "" || bc.Duration <= 0 {
		return
	}
	p, ok := g.cfg.Preset(bc.Preset)
	if !ok {
		return
	}
	if bc.Rate > 0 {
		p.Rate = bc.Rate
	}

	h, err := g.addPresetEmitter(p, &[2]float32{x, y})
	if err != nil {
		slog.Error("failed to add burst", "error", err)
		return
	}
	g.bursts.Add(h, float32(bc.Duration))
}

// retireBursts removes burst emitters whose time ran out.
func (g *Game) retireBursts(dt float32) {
	for _, h := range g.bursts.Update(dt) {
		g.sys.RemoveEmitter(h)
		if g.mainEmitter > h {
			g.mainEmitter--
		}
	}
}

// moveField places the mouse field at (x, y).
func (g *Game) moveField(x, y float32) {
	g.fieldX, g.fieldY = x, y
	g.sys.UpdateForceField(g.field, x, y)
}

// flipField swaps the mouse field between attraction and repulsion. Does
// nothing while the field is off.
func (g *Game) flipField() {
	if !g.toggles.IsEnabled(ui.ToggleField) {
		return
	}
	g.setFieldStrength(-g.fieldStrength)
}

func (g *Game) setFieldStrength(s float32) {
	g.fieldStrength = s
	g.sys.SetForceFieldStrength(g.field, s)
}

// reset clears every particle, emitter and field, then reinstalls the current
// preset and the mouse field at its last position.
func (g *Game) reset() {
	g.sys.Reset()
	g.bursts.Clear()
	g.mainEmitter = -1
	g.field = -1

	if err := g.populate(); err != nil {
		slog.Error("failed to repopulate after reset", "error", err)
	}
	slog.Info("system reset", "preset", g.presets[g.presetIdx].Name)
}

// applyToggle performs the side effects of a toggle changing state.
func (g *Game) applyToggle(id ui.ToggleID, enabled bool) {
	switch id {
	case ui.ToggleField:
		g.sys.SetForceFieldActive(g.field, enabled)
	case ui.ToggleInteraction:
		g.sys.SetParticleInteractionEnabled(enabled)
		slog.Info("particle interaction", "enabled", enabled)
	case ui.ToggleRainbow:
		g.setRainbow(enabled)
	case ui.ToggleBackground:
		g.background.Enabled = enabled
	}
}

// applyControls applies changes made in the control panel last frame.
func (g *Game) applyControls(res *ui.ControlsResult) {
	for _, id := range res.Toggled {
		g.applyToggle(id, g.toggles.IsEnabled(id))
	}
	if res.StrengthMoved {
		g.setFieldStrength(res.FieldStrength)
	}
	if res.Preset >= 0 {
		g.selectPreset(res.Preset)
	}
	if res.Reset {
		g.reset()
	}
}
