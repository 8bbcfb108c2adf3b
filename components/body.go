package components

import "github.com/pthm-cable/invasion/config"

// Stats holds the sight and movement knobs of an actor.
type Stats struct {
	Faction      Faction
	SightRange   float64 // 0 = unlimited
	SightDegrees float64 // full cone width; 360 sees all around
	AimOffsetX   float64 // targeting point relative to Position
	AimOffsetY   float64
	Speed        float64 // units per second at full intent
}

// ConeHalfAngle returns half the sight cone in degrees.
func (s Stats) ConeHalfAngle() float64 {
	return s.SightDegrees / 2
}

// SwarmlingStats returns the stats every pooled swarmling spawns with.
func SwarmlingStats(cfg config.SwarmConfig) Stats {
	return Stats{
		Faction:      FactionAlien,
		SightRange:   cfg.SightRange,
		SightDegrees: cfg.SightDegrees,
		Speed:        cfg.Speed,
	}
}
