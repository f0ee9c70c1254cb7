package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/ui"
)

// presetKeys select presets by position.
var presetKeys = [...]int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	// Panel clicks are reported during Draw and applied here
	if g.pendingControls != nil {
		g.applyControls(g.pendingControls)
		g.pendingControls = nil
	}

	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		g.quit = true
	}

	g.handleToggleKeys()

	if rl.IsKeyPressed(rl.KeySpace) {
		g.flipField()
	}
	for i, key := range presetKeys {
		if rl.IsKeyPressed(key) {
			g.selectPreset(i)
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.reset()
	}

	mouse := rl.GetMousePosition()
	if g.toggles.IsEnabled(ui.ToggleField) {
		g.moveField(mouse.X, mouse.Y)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.overControls(mouse) {
		g.spawnBurst(mouse.X, mouse.Y)
	}
}

// handleToggleKeys checks every registered toggle's key.
func (g *Game) handleToggleKeys() {
	for _, desc := range g.toggles.All() {
		if desc.Key == 0 || !rl.IsKeyPressed(desc.Key) {
			continue
		}
		if id, state, ok := g.toggles.HandleKeyPress(desc.Key); ok {
			g.applyToggle(id, state)
		}
	}
}

// overControls reports whether mouse is over the visible control panel.
func (g *Game) overControls(mouse rl.Vector2) bool {
	if !g.toggles.IsEnabled(ui.ToggleControls) {
		return false
	}
	bounds := g.controlsPanel.Bounds(g.toggles, len(g.presets))
	return rl.CheckCollisionPointRec(mouse, bounds)
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.gridOverlay.Resize(int32(w), int32(h))
	g.perfPanel.SetPosition(10, int32(h)-160)
}
