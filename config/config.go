// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Vision    VisionConfig    `yaml:"vision"`
	Swarm     SwarmConfig     `yaml:"swarm"`
	Brain     BrainConfig     `yaml:"brain"`
	Intensity IntensityConfig `yaml:"intensity"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds tick timing.
type SimConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// VisionConfig holds line-of-sight defaults.
type VisionConfig struct {
	IgnoreLayer  int     `yaml:"ignore_layer"`  // collision layer skipped by sight lines (trigger-only geometry)
	SightRange   float64 `yaml:"sight_range"`   // default actor sight range (0 = unlimited)
	SightDegrees float64 `yaml:"sight_degrees"` // default full cone width in degrees
}

// SwarmConfig holds pooled swarmling population parameters.
type SwarmConfig struct {
	MinimumCount       float64 `yaml:"minimum_count"`         // population at intensity 0
	CountMultiplier    float64 `yaml:"count_multiplier"`      // extra population at intensity 1
	MinDistanceToSpawn float64 `yaml:"min_distance_to_spawn"` // inner spawn radius and vertical keep band
	MaxDistanceToSpawn float64 `yaml:"max_distance_to_spawn"` // outer spawn radius
	Speed              float64 `yaml:"speed"`                 // swarmling move speed (units per second)
	SightRange         float64 `yaml:"sight_range"`
	SightDegrees       float64 `yaml:"sight_degrees"`
}

// BrainConfig holds AI brain tuning.
type BrainConfig struct {
	NavPointProximityLimit float64 `yaml:"nav_point_proximity_limit"` // arrive radius for nav points
	InputSpeed             float64 `yaml:"input_speed"`               // per-axis clamp on intent vectors
}

// IntensityConfig holds the starting atmosphere.
type IntensityConfig struct {
	Initial float64 `yaml:"initial"` // 0..1
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TicksPerWindow int32   // Telemetry.StatsWindow in ticks
	TickRate       float64 // 1 / Sim.DT
}

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

// Set replaces the global configuration. Used by hot reload between ticks.
func Set(cfg *Config) {
	if cfg != nil {
		global = cfg
	}
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Sim.DT <= 0 {
		c.Sim.DT = 1.0 / 60.0
	}
	c.Derived.TickRate = 1 / c.Sim.DT

	ticks := int32(math.Round(c.Telemetry.StatsWindow / c.Sim.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerWindow = ticks

	// Max below min would make every spawn node fail; treat it as a single ring.
	if c.Swarm.MaxDistanceToSpawn < c.Swarm.MinDistanceToSpawn {
		c.Swarm.MaxDistanceToSpawn = c.Swarm.MinDistanceToSpawn
	}
	if c.Brain.InputSpeed <= 0 {
		c.Brain.InputSpeed = 3
	}
}

// DesiredSwarmlings returns the population the swarm controller aims for at
// the given intensity.
func (c *Config) DesiredSwarmlings(intensity float64) int {
	return c.Swarm.Desired(intensity)
}

// Desired returns floor(minimum + multiplier*intensity), never below zero.
func (s SwarmConfig) Desired(intensity float64) int {
	n := int(math.Floor(s.MinimumCount + s.CountMultiplier*intensity))
	if n < 0 {
		return 0
	}
	return n
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
