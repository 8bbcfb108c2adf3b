// Package components defines ECS components for the simulation.
package components

import (
	"fmt"
	"strings"
)

// Faction is a coarse allegiance tag. Actors never target their own faction.
type Faction uint8

const (
	FactionNone Faction = iota
	FactionPlayer
	FactionAlien
	FactionSecurity
)

var factionNames = []string{"none", "player", "alien", "security"}

// String returns the lower-case faction name.
func (f Faction) String() string {
	if int(f) < len(factionNames) {
		return factionNames[f]
	}
	return "unknown"
}

// ParseFaction converts a faction name (case-insensitive) to a Faction.
func ParseFaction(s string) (Faction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FactionNone, nil
	}
	for i, n := range factionNames {
		if n == name {
			return Faction(i), nil
		}
	}
	return FactionNone, fmt.Errorf("unknown faction %q", s)
}
