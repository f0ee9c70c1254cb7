// Package game wires the particle engine to input, rendering and telemetry.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/effects"
	"github.com/pthm-cable/sparks/palette"
	"github.com/pthm-cable/sparks/renderer"
	"github.com/pthm-cable/sparks/simulation"
	"github.com/pthm-cable/sparks/telemetry"
	"github.com/pthm-cable/sparks/ui"
)

// Game holds the complete application state.
type Game struct {
	cfg  *config.Config
	sys  *simulation.System
	seed int64

	// Presets are copied so rainbow toggles do not leak into the config
	presets     []config.PresetConfig
	presetIdx   int
	mainEmitter int // handle of the preset emitter, -1 if none

	field         int // handle of the mouse field
	fieldStrength float32
	fieldX        float32
	fieldY        float32

	bursts     *effects.Tracker
	background *palette.Background
	toggles    *ui.ToggleRegistry

	// Rendering (nil in headless mode)
	backgroundRenderer *renderer.BackgroundRenderer
	particleRenderer   *renderer.ParticleRenderer
	fieldIndicator     *renderer.FieldIndicator
	gridOverlay        *renderer.GridOverlay
	hud                *ui.HUD
	statsPanel         *ui.StatsPanel
	controlsPanel      *ui.ControlsPanel
	perfPanel          *ui.PerfPanel
	pendingControls    *ui.ControlsResult
	snapshot           ui.Snapshot

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	// State
	tick     int32
	headless bool
	quit     bool

	screenWidth  float32
	screenHeight float32
}

// NewGameWithOptions creates a game with the given options.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if len(cfg.Presets) == 0 {
		return nil, fmt.Errorf("%w: no emitter presets", config.ErrInvalidConfig)
	}

	simOpts := simulation.OptionsFromConfig(cfg, opts.Seed)
	if opts.Workers > 0 {
		simOpts.Workers = opts.Workers
	}
	sys, err := simulation.New(simOpts)
	if err != nil {
		return nil, fmt.Errorf("creating particle system: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:              cfg,
		sys:              sys,
		seed:             opts.Seed,
		presets:          append([]config.PresetConfig(nil), cfg.Presets...),
		mainEmitter:      -1,
		field:            -1,
		bursts:           effects.NewTracker(),
		background:       palette.NewBackground(opts.Seed),
		toggles:          ui.NewToggleRegistry(),
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.FixedDT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(bookmarkHistory),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		headless:         opts.Headless,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}
	g.sys.SetPerf(g.perfCollector)
	g.toggles.SetEnabled(ui.ToggleInteraction, cfg.Repulsion.Enabled)

	if opts.Preset != "" {
		i, ok := cfg.Derived.PresetIndex[opts.Preset]
		if !ok {
			g.sys.Close()
			return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, opts.Preset)
		}
		g.presetIdx = i
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.sys.Close()
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
		g.outputManager = om
	}

	if !opts.Headless {
		g.initRendering()
	}

	g.fieldX = g.screenWidth / 2
	g.fieldY = g.screenHeight / 2
	if err := g.populate(); err != nil {
		g.Unload()
		return nil, err
	}

	slog.Info("game initialized",
		"seed", opts.Seed,
		"workers", g.sys.Workers(),
		"capacity", g.sys.Capacity(),
		"preset", g.presets[g.presetIdx].Name,
		"headless", opts.Headless,
	)

	return g, nil
}

// initRendering creates the renderers and panels.
func (g *Game) initRendering() {
	g.backgroundRenderer = renderer.NewBackgroundRenderer(g.background)
	g.particleRenderer = renderer.NewParticleRenderer()
	g.fieldIndicator = renderer.NewFieldIndicator()
	g.gridOverlay = renderer.NewGridOverlay(
		int32(g.screenWidth), int32(g.screenHeight),
		float32(g.cfg.Simulation.CellSize), g.cfg.Simulation.BucketCapacity,
	)
	g.hud = ui.NewHUD()
	g.statsPanel = ui.NewStatsPanel()
	g.controlsPanel = ui.NewControlsPanel(10, 100, 250)
	g.perfPanel = ui.NewPerfPanel(10, int32(g.screenHeight)-160)
}

// Update handles input and advances the simulation by one frame.
func (g *Game) Update() {
	g.handleInput()

	dt := min(rl.GetFrameTime(), g.cfg.Derived.MaxDT32)
	g.perfCollector.RecordFrame()
	g.step(dt)
}

// UpdateHeadless advances the simulation by one fixed step without input.
func (g *Game) UpdateHeadless() {
	g.step(g.cfg.Derived.FixedDT32)
}

// step runs one frame: burst retirement, the particle step, background and
// telemetry.
func (g *Game) step(dt float32) {
	if g.toggles.IsEnabled(ui.TogglePause) {
		return
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseEffects)
	g.retireBursts(dt)
	g.background.Update(dt)

	g.sys.Step(dt)
	last := g.sys.LastStep()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(dt, last.Emitted, last.Expired, last.Dropped, last.PairChecks)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Unload releases all resources.
func (g *Game) Unload() {
	if g.sys != nil {
		g.sys.Close()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}

// Tick returns the number of simulation steps taken.
func (g *Game) Tick() int32 {
	return g.tick
}

// ShouldQuit reports whether the user asked to exit.
func (g *Game) ShouldQuit() bool {
	return g.quit
}

// System returns the underlying particle system.
func (g *Game) System() *simulation.System {
	return g.sys
}

// ActiveCount returns the number of live particles.
func (g *Game) ActiveCount() int {
	return g.sys.ActiveCount()
}

// PresetName returns the name of the active preset.
func (g *Game) PresetName() string {
	return g.presets[g.presetIdx].Name
}

// Bursts returns the number of live click bursts.
func (g *Game) Bursts() int {
	return g.bursts.Len()
}
