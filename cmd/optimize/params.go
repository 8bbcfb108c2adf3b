// Package main provides CMA-ES optimization for swarm tuning parameters.
package main

import (
	"github.com/pthm-cable/invasion/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Population counts are design inputs and stay locked.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Swarm spawning
			{Name: "min_spawn_dist", Path: "swarm.min_distance_to_spawn", Min: 3, Max: 10, Default: 6},
			{Name: "max_spawn_dist", Path: "swarm.max_distance_to_spawn", Min: 8, Max: 24, Default: 14},
			// Swarmling stats
			{Name: "swarm_speed", Path: "swarm.speed", Min: 1, Max: 5, Default: 2.5},
			{Name: "swarm_sight", Path: "swarm.sight_range", Min: 2, Max: 16, Default: 8},
			// Brain
			{Name: "nav_proximity", Path: "brain.nav_point_proximity_limit", Min: 0.05, Max: 1, Default: 0.2},
			{Name: "input_speed", Path: "brain.input_speed", Min: 1, Max: 5, Default: 3},
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

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Swarm.MinDistanceToSpawn = clamped[0]
	cfg.Swarm.MaxDistanceToSpawn = max(clamped[1], clamped[0])
	cfg.Swarm.Speed = clamped[2]
	cfg.Swarm.SightRange = clamped[3]
	cfg.Brain.NavPointProximityLimit = clamped[4]
	cfg.Brain.InputSpeed = clamped[5]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Swarm.MinDistanceToSpawn,
		cfg.Swarm.MaxDistanceToSpawn,
		cfg.Swarm.Speed,
		cfg.Swarm.SightRange,
		cfg.Brain.NavPointProximityLimit,
		cfg.Brain.InputSpeed,
	}
}
