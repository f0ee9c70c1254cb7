package game

import (
	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/telemetry"
)

// Title is the window title.
const Title = "Sparks"

// bookmarkHistory is the number of stats windows kept for bookmark detection.
const bookmarkHistory = 10

// Options configures a Game.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // CSV output directory, empty to disable
	Preset         string  // initial preset name, empty = first preset
	Workers        int     // 0 = use config

	// Config overrides the global configuration when set.
	Config *config.Config

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}
