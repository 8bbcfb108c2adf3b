// Package levels defines the level file format and the embedded sample levels.
package levels

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/invasion/components"
)

var (
	ErrNoPlayer        = errors.New("levels: no player")
	ErrUnknownFaction  = errors.New("levels: unknown faction")
	ErrUnknownNavPoint = errors.New("levels: unknown nav point")
	ErrUnknownTrigger  = errors.New("levels: unknown trigger")
	ErrDuplicateName   = errors.New("levels: duplicate name")
)

// Point is a 2D position. +Y is up.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec returns the point as a gonum vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Box is an axis-aligned rectangle.
type Box struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

// Level is a parsed level file.
type Level struct {
	Name      string   `yaml:"name"`
	Intensity *float64 `yaml:"intensity"` // starting intensity, config default when omitted
	Script    string   `yaml:"script"`    // optional intensity script

	Player       *PlayerSpec       `yaml:"player"`
	Actors       []ActorSpec       `yaml:"actors"`
	Swarm        SwarmSpec         `yaml:"swarm"`
	NavPoints    []NavPointSpec    `yaml:"nav_points"`
	AutoLink     bool              `yaml:"auto_link"` // link every nav point to the visible points above it
	Obstructions []ObstructionSpec `yaml:"obstructions"`
	Triggers     []TriggerSpec     `yaml:"intensity_triggers"`
	Sensors      []SensorSpec      `yaml:"sensors"`
}

// PlayerSpec places the player and its scripted path.
type PlayerSpec struct {
	Name      string   `yaml:"name"`
	Position  Point    `yaml:"position"`
	AimOffset Point    `yaml:"aim_offset"`
	Speed     float64  `yaml:"speed"`
	Path      PathSpec `yaml:"path"`
}

// PathSpec is the waypoint route the player walks.
type PathSpec struct {
	Waypoints []Point `yaml:"waypoints"`
	Arrive    float64 `yaml:"arrive"`
	Loop      bool    `yaml:"loop"`
}

// ActorSpec places a non-player actor.
type ActorSpec struct {
	Name       string   `yaml:"name"`
	Faction    string   `yaml:"faction"`
	Position   Point    `yaml:"position"`
	AimOffset  Point    `yaml:"aim_offset"`
	FacingLeft bool     `yaml:"facing_left"`
	Speed      float64  `yaml:"speed"`
	SightRange *float64 `yaml:"sight_range"`   // vision default when omitted
	Degrees    *float64 `yaml:"sight_degrees"` // vision default when omitted

	FollowsNavPoints bool `yaml:"follows_nav_points"`
	Swarm            bool `yaml:"swarm"` // starts in the swarmling pool
}

// SwarmSpec configures the pooled swarm.
type SwarmSpec struct {
	Enabled bool `yaml:"enabled"`
	Prewarm int  `yaml:"prewarm"` // dead slots created at load
}

// NavPointSpec is one nav point and the names of its next points.
type NavPointSpec struct {
	Name     string   `yaml:"name"`
	Position Point    `yaml:"position"`
	Next     []string `yaml:"next"`
	Swarm    bool     `yaml:"swarm"`
}

// ObstructionSpec is a solid box on a collision layer.
type ObstructionSpec struct {
	Box   `yaml:",inline"`
	Layer int `yaml:"layer"`
}

// TriggerSpec is an intensity trigger region.
type TriggerSpec struct {
	Name   string `yaml:"name"`
	Region Box    `yaml:"region"`

	TriggersOnce bool    `yaml:"triggers_once"`
	Amount       float64 `yaml:"amount"`
	Interval     float64 `yaml:"interval"`

	OnlyWhilePlayerIn        bool `yaml:"only_while_player_in"`
	DestroyAfterPlayerLeaves bool `yaml:"destroy_after_player_leaves"`

	LastsForDuration     bool    `yaml:"lasts_for_duration"`
	DurationFromExit     bool    `yaml:"duration_from_exit"`
	DestroyAfterDuration bool    `yaml:"destroy_after_duration"`
	Duration             float64 `yaml:"duration"`

	MultipleSignals bool `yaml:"multiple_signals"`
}

// SensorSpec is a region that signals triggers by name.
type SensorSpec struct {
	ID     string `yaml:"id"`
	Region Box    `yaml:"region"`

	TriggersOnce           bool     `yaml:"triggers_once"`
	ClosesWhenPlayerLeaves bool     `yaml:"closes_when_player_leaves"`
	Receivers              []string `yaml:"receivers"`
}

// LoadLevel reads and validates a level by name or path.
func LoadLevel(name string) (*Level, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", name, err)
	}
	return Parse(name, data)
}

// Parse decodes and validates a level file.
func Parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = name
	}
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("levels: %s: %w", name, err)
	}
	return &lvl, nil
}

// Validate checks cross references. Errors wrap the package sentinels.
func (l *Level) Validate() error {
	if l.Player == nil {
		return ErrNoPlayer
	}
	if l.Player.Name == "" {
		l.Player.Name = "player"
	}

	for _, a := range l.Actors {
		if _, err := components.ParseFaction(a.Faction); err != nil {
			return fmt.Errorf("actor %q: %w: %q", a.Name, ErrUnknownFaction, a.Faction)
		}
	}

	points := make(map[string]bool, len(l.NavPoints))
	for _, n := range l.NavPoints {
		// Unnamed points can link onward but cannot be linked to.
		if n.Name == "" {
			continue
		}
		if points[n.Name] {
			return fmt.Errorf("nav point %q: %w", n.Name, ErrDuplicateName)
		}
		points[n.Name] = true
	}
	for _, n := range l.NavPoints {
		for _, next := range n.Next {
			if !points[next] {
				return fmt.Errorf("nav point %q next %q: %w", n.Name, next, ErrUnknownNavPoint)
			}
		}
	}

	triggers := make(map[string]bool, len(l.Triggers))
	for _, t := range l.Triggers {
		if triggers[t.Name] {
			return fmt.Errorf("trigger %q: %w", t.Name, ErrDuplicateName)
		}
		triggers[t.Name] = true
	}
	for _, s := range l.Sensors {
		for _, r := range s.Receivers {
			if !triggers[r] {
				return fmt.Errorf("sensor %q receiver %q: %w", s.ID, r, ErrUnknownTrigger)
			}
		}
	}

	if l.Swarm.Prewarm < 0 {
		l.Swarm.Prewarm = 0
	}
	return nil
}
