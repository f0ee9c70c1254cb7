package main

import (
	"github.com/pthm-cable/sparks/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the parameter set for tuning preset name against
// the spatial index settings.
func NewParamVector(preset config.PresetConfig, cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "rate", Path: "presets." + preset.Name + ".rate", Min: 50, Max: 5000, Default: preset.Rate},
			{Name: "lifetime", Path: "presets." + preset.Name + ".lifetime", Min: 0.5, Max: 10, Default: preset.Lifetime},
			{Name: "speed", Path: "presets." + preset.Name + ".speed", Min: 20, Max: 400, Default: preset.Speed},
			// Lower bound keeps the repulsion radius inside one cell
			{Name: "cell_size", Path: "simulation.cell_size", Min: cfg.Repulsion.Radius, Max: 80, Default: cfg.Simulation.CellSize},
			{Name: "bucket_capacity", Path: "simulation.bucket_capacity", Min: 8, Max: 256, Default: float64(cfg.Simulation.BucketCapacity)},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg for the preset at index
// presetIdx. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, presetIdx int, values []float64) {
	clamped := pv.Clamp(values)

	p := &cfg.Presets[presetIdx]
	p.Rate = clamped[0]
	p.Lifetime = clamped[1]
	p.Speed = clamped[2]

	cfg.Simulation.CellSize = clamped[3]
	cfg.Simulation.BucketCapacity = int(clamped[4])
}
