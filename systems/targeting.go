package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
)

// TargetSelector picks hostile targets from the actor registry.
type TargetSelector struct {
	registry *ActorRegistry
	space    Obstructions
	posMap   *ecs.Map1[components.Position]
	statsMap *ecs.Map1[components.Stats]
}

// NewTargetSelector creates a selector over the registry and obstruction space.
func NewTargetSelector(w *ecs.World, registry *ActorRegistry, space Obstructions) *TargetSelector {
	return &TargetSelector{
		registry: registry,
		space:    space,
		posMap:   ecs.NewMap1[components.Position](w),
		statsMap: ecs.NewMap1[components.Stats](w),
	}
}

// AimPoint returns the point other actors aim at.
func (s *TargetSelector) AimPoint(e ecs.Entity) r2.Vec {
	pos := s.posMap.Get(e)
	st := s.statsMap.Get(e)
	return r2.Vec{X: pos.X + st.AimOffsetX, Y: pos.Y + st.AimOffsetY}
}

// SelectTarget returns the first live actor, in registration order, that is
// hostile to the attacker, within its sight range and visible inside its cone.
func (s *TargetSelector) SelectTarget(attacker ecs.Entity, facingRight bool) (ecs.Entity, bool) {
	from := s.posMap.Get(attacker).Vec()
	st := s.statsMap.Get(attacker)

	for _, cand := range s.registry.AllLive() {
		cst := s.statsMap.Get(cand)
		if cst.Faction == st.Faction {
			continue
		}
		if st.SightRange > 0 && r2.Norm(r2.Sub(s.posMap.Get(cand).Vec(), from)) > st.SightRange {
			continue
		}
		if !IsVisible(s.space, from, s.AimPoint(cand), facingRight, st.ConeHalfAngle(), st.SightRange) {
			continue
		}
		return cand, true
	}
	return ecs.Entity{}, false
}

// CanSee reports whether the attacker still sees target with its own cone and range.
func (s *TargetSelector) CanSee(attacker, target ecs.Entity, facingRight bool) bool {
	if !s.registry.IsLive(target) {
		return false
	}
	st := s.statsMap.Get(attacker)
	from := s.posMap.Get(attacker).Vec()
	return IsVisible(s.space, from, s.AimPoint(target), facingRight, st.ConeHalfAngle(), st.SightRange)
}
