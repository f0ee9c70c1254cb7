// Package config provides configuration loading and access for the particle engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine and application configuration.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Repulsion  RepulsionConfig  `yaml:"repulsion"`
	MouseField MouseFieldConfig `yaml:"mouse_field"`
	Bursts     BurstConfig      `yaml:"bursts"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Presets    []PresetConfig   `yaml:"presets"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds pool, worker and physics parameters.
type SimulationConfig struct {
	MaxParticles   int     `yaml:"max_particles"`
	Workers        int     `yaml:"workers"`         // 0 = GOMAXPROCS
	Gravity        float64 `yaml:"gravity"`         // downward acceleration (screen y grows down)
	CellSize       float64 `yaml:"cell_size"`       // spatial index cell edge
	BucketCapacity int     `yaml:"bucket_capacity"` // max particles indexed per cell
	MaxDT          float64 `yaml:"max_dt"`          // frame delta clamp
	FixedDT        float64 `yaml:"fixed_dt"`        // headless step size
}

// RepulsionConfig holds pairwise particle repulsion parameters.
type RepulsionConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Radius   float64 `yaml:"radius"`   // must not exceed simulation.cell_size
	Strength float64 `yaml:"strength"`
}

// MouseFieldConfig holds the cursor-following force field parameters.
type MouseFieldConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}

// BurstConfig holds the click burst parameters.
type BurstConfig struct {
	Preset   string  `yaml:"preset"`   // preset the burst is cloned from
	Rate     float64 `yaml:"rate"`     // overrides the preset rate
	Duration float64 `yaml:"duration"` // seconds before the burst emitter is removed
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds of sim time per stats row
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
}

// PresetConfig describes a named emitter preset.
type PresetConfig struct {
	Name      string           `yaml:"name"`
	X         float64          `yaml:"x"` // fraction of screen width
	Y         float64          `yaml:"y"` // fraction of screen height
	Rate      float64          `yaml:"rate"`
	Speed     float64          `yaml:"speed"`
	Size      float64          `yaml:"size"`
	Lifetime  float64          `yaml:"lifetime"`
	Pattern   string           `yaml:"pattern"`
	Red       [2]int           `yaml:"red"`
	Green     [2]int           `yaml:"green"`
	Blue      [2]int           `yaml:"blue"`
	Alpha     [2]int           `yaml:"alpha"`
	Rainbow   bool             `yaml:"rainbow"`
	Modifiers []ModifierConfig `yaml:"modifiers"`
}

// ModifierConfig declares one post-emission modifier for a preset.
type ModifierConfig struct {
	Kind     string  `yaml:"kind"` // jitter, lifetime_variance, size_variance, turbulence, tint
	Amount   float64 `yaml:"amount"`
	Scale    float64 `yaml:"scale"`
	Strength float64 `yaml:"strength"`
	Color    [4]int  `yaml:"color"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Workers     int            // resolved worker count
	MaxDT32     float32        // Simulation.MaxDT as float32
	FixedDT32   float32        // Simulation.FixedDT as float32
	ScreenW32   float32        // Screen.Width as float32
	ScreenH32   float32        // Screen.Height as float32
	PresetIndex map[string]int // name -> index into Presets
}

var (
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Workers = c.Simulation.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
	c.Derived.MaxDT32 = float32(c.Simulation.MaxDT)
	c.Derived.FixedDT32 = float32(c.Simulation.FixedDT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.PresetIndex = make(map[string]int, len(c.Presets))
	for i, p := range c.Presets {
		c.Derived.PresetIndex[p.Name] = i
	}
}

// Validate checks the constraints the engine relies on.
func (c *Config) Validate() error {
	s := c.Simulation
	if s.MaxParticles <= 0 {
		return fmt.Errorf("%w: simulation.max_particles must be positive, got %d", ErrInvalidConfig, s.MaxParticles)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: simulation.workers must be >= 0, got %d", ErrInvalidConfig, s.Workers)
	}
	if s.CellSize <= 0 {
		return fmt.Errorf("%w: simulation.cell_size must be positive, got %g", ErrInvalidConfig, s.CellSize)
	}
	if s.BucketCapacity <= 0 {
		return fmt.Errorf("%w: simulation.bucket_capacity must be positive, got %d", ErrInvalidConfig, s.BucketCapacity)
	}
	// Neighbour search only scans the 3x3 block around a cell
	if c.Repulsion.Radius > s.CellSize {
		return fmt.Errorf("%w: repulsion.radius %g exceeds simulation.cell_size %g",
			ErrInvalidConfig, c.Repulsion.Radius, s.CellSize)
	}
	if s.MaxDT <= 0 {
		return fmt.Errorf("%w: simulation.max_dt must be positive, got %g", ErrInvalidConfig, s.MaxDT)
	}

	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("%w: preset without name", ErrInvalidConfig)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate preset %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
	}
	if b := c.Bursts; b.Preset != "" && !seen[b.Preset] {
		return fmt.Errorf("%w: bursts.preset %q not found", ErrInvalidConfig, b.Preset)
	}
	if c.Bursts.Duration < 0 || c.Bursts.Rate < 0 {
		return fmt.Errorf("%w: bursts.rate and bursts.duration must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Preset returns the preset with the given name.
func (c *Config) Preset(name string) (PresetConfig, bool) {
	i, ok := c.Derived.PresetIndex[name]
	if !ok {
		return PresetConfig{}, false
	}
	return c.Presets[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
