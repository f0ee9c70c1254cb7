package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/systems"
	"github.com/pthm-cable/sparks/telemetry"
	"github.com/pthm-cable/sparks/ui"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Simulation.MaxParticles = 2000
	return cfg
}

func newHeadlessGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	opts.Headless = true
	if opts.Workers == 0 {
		opts.Workers = 2
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func mainPattern(t *testing.T, g *Game) systems.Pattern {
	t.Helper()
	ec, ok := g.sys.EmitterConfig(g.mainEmitter)
	if !ok {
		t.Fatalf("main emitter handle %d is stale", g.mainEmitter)
	}
	return ec.Pattern
}

func TestNewGame_Populates(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	if g.sys.EmitterCount() != 1 || g.sys.ForceFieldCount() != 1 {
		t.Fatalf("emitters=%d fields=%d, want 1 and 1", g.sys.EmitterCount(), g.sys.ForceFieldCount())
	}
	if g.PresetName() != "fountain" {
		t.Errorf("preset = %q, want fountain", g.PresetName())
	}
	if got := g.sys.ForceFieldStrength(g.field); got != -500 {
		t.Errorf("field strength = %v, want -500", got)
	}
	if !g.sys.ParticleInteractionEnabled() || !g.toggles.IsEnabled(ui.ToggleInteraction) {
		t.Error("interaction should follow repulsion.enabled")
	}
}

func TestNewGame_UnknownPreset(t *testing.T) {
	_, err := NewGameWithOptions(Options{Config: testConfig(t), Headless: true, Preset: "nope"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}

func TestUpdateHeadless_EmitsParticles(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	for range 30 {
		g.UpdateHeadless()
	}

	if g.Tick() != 30 {
		t.Errorf("tick = %d, want 30", g.Tick())
	}
	if g.ActiveCount() == 0 {
		t.Error("expected active particles after half a second")
	}
}

func TestPause_StopsSteps(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.toggles.SetEnabled(ui.TogglePause, true)
	for range 10 {
		g.UpdateHeadless()
	}
	if g.Tick() != 0 || g.ActiveCount() != 0 {
		t.Errorf("paused game advanced: tick=%d active=%d", g.Tick(), g.ActiveCount())
	}
}

func TestBurst_RetiresAndKeepsMainHandle(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.spawnBurst(100, 100)
	if g.sys.EmitterCount() != 2 || g.Bursts() != 1 {
		t.Fatalf("emitters=%d bursts=%d after click", g.sys.EmitterCount(), g.Bursts())
	}

	// Snow replaces the fountain and lands after the burst
	g.selectPreset(2)
	if g.mainEmitter != 1 {
		t.Fatalf("main emitter = %d, want 1", g.mainEmitter)
	}
	if mainPattern(t, g) != systems.PatternLine {
		t.Fatalf("main pattern = %v, want line", mainPattern(t, g))
	}

	// Burst lasts 0.1s; a few fixed steps retire it
	for range 10 {
		g.UpdateHeadless()
	}

	if g.Bursts() != 0 || g.sys.EmitterCount() != 1 {
		t.Fatalf("bursts=%d emitters=%d, want 0 and 1", g.Bursts(), g.sys.EmitterCount())
	}
	if g.mainEmitter != 0 {
		t.Errorf("main emitter = %d, want 0", g.mainEmitter)
	}
	if mainPattern(t, g) != systems.PatternLine {
		t.Errorf("surviving emitter pattern = %v, want line", mainPattern(t, g))
	}
}

func TestBurst_UsesConfiguredRate(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.spawnBurst(300, 200)
	ec, ok := g.sys.EmitterConfig(1)
	if !ok {
		t.Fatal("burst emitter missing")
	}
	if ec.Rate != 500 || ec.X != 300 || ec.Y != 200 || ec.Pattern != systems.PatternCircle {
		t.Errorf("burst config = %+v", ec)
	}
}

func TestFlipField(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.flipField()
	if got := g.sys.ForceFieldStrength(g.field); got != 500 {
		t.Fatalf("after flip: %v, want 500", got)
	}

	id, state, _ := g.toggles.HandleKeyPress(toggleKey(t, g, ui.ToggleField))
	g.applyToggle(id, state)
	if f, _ := g.sys.ForceField(g.field); f.Active {
		t.Fatal("field should be inactive after toggle")
	}

	g.flipField()
	if got := g.sys.ForceFieldStrength(g.field); got != 500 {
		t.Errorf("flip while off changed strength to %v", got)
	}
}

func toggleKey(t *testing.T, g *Game, id ui.ToggleID) int32 {
	t.Helper()
	d, ok := g.toggles.Get(id)
	if !ok || d.Key == 0 {
		t.Fatalf("toggle %s has no key", id)
	}
	return d.Key
}

func TestRainbowToggle_RebuildsEmitter(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.applyToggle(ui.ToggleRainbow, true)
	ec, _ := g.sys.EmitterConfig(g.mainEmitter)
	if !ec.Rainbow {
		t.Error("main emitter should be rainbow")
	}
	if g.sys.EmitterCount() != 1 {
		t.Errorf("emitters = %d, want 1", g.sys.EmitterCount())
	}

	if g.cfg.Presets[0].Rainbow {
		t.Error("rainbow toggle leaked into the loaded config")
	}
}

func TestSelectPreset_SyncsRainbowToggle(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.selectPreset(3)
	if !g.toggles.IsEnabled(ui.ToggleRainbow) {
		t.Error("spiral preset should switch rainbow on")
	}
	g.selectPreset(99)
	if g.PresetName() != "spiral" {
		t.Errorf("out of range select changed preset to %q", g.PresetName())
	}
}

func TestReset(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.flipField()
	g.spawnBurst(10, 10)
	for range 20 {
		g.UpdateHeadless()
	}

	g.reset()

	if g.ActiveCount() != 0 {
		t.Errorf("active = %d after reset", g.ActiveCount())
	}
	if g.sys.EmitterCount() != 1 || g.sys.ForceFieldCount() != 1 || g.Bursts() != 0 {
		t.Errorf("emitters=%d fields=%d bursts=%d", g.sys.EmitterCount(), g.sys.ForceFieldCount(), g.Bursts())
	}
	if got := g.sys.ForceFieldStrength(g.field); got != -500 {
		t.Errorf("field strength = %v, want -500", got)
	}
}

func TestControlsResultApplied(t *testing.T) {
	g := newHeadlessGame(t, Options{})

	g.toggles.SetEnabled(ui.ToggleBackground, true)
	g.applyControls(&ui.ControlsResult{
		Toggled:       []ui.ToggleID{ui.ToggleBackground},
		FieldStrength: 250,
		StrengthMoved: true,
		Preset:        1,
	})

	if !g.background.Enabled {
		t.Error("background should be enabled")
	}
	if got := g.sys.ForceFieldStrength(g.field); got != 250 {
		t.Errorf("strength = %v, want 250", got)
	}
	if g.PresetName() != "explosion" {
		t.Errorf("preset = %q, want explosion", g.PresetName())
	}
}

func TestTelemetry_FlushesWindows(t *testing.T) {
	var windows []telemetry.WindowStats
	dir := t.TempDir()

	g := newHeadlessGame(t, Options{
		StatsWindowSec: 0.1,
		OutputDir:      dir,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})

	for range 60 {
		g.UpdateHeadless()
	}

	if len(windows) < 5 {
		t.Fatalf("got %d windows, want at least 5", len(windows))
	}
	last := windows[len(windows)-1]
	if last.Active == 0 || last.Capacity != 2000 || last.Emitters != 1 {
		t.Errorf("last window = %+v", last)
	}

	for _, name := range []string{telemetry.TelemetryFile, telemetry.PerfFile, telemetry.ConfigFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
