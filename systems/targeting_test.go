package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
)

func hunter() components.Stats {
	return components.Stats{Faction: components.FactionAlien, SightRange: 10, SightDegrees: 360}
}

func TestSelectTargetFirstMatch(t *testing.T) {
	tw := newTestWorld()
	attacker := tw.spawn("attacker", r2.Vec{}, hunter())
	far := tw.spawn("far", r2.Vec{X: 8}, components.Stats{Faction: components.FactionPlayer})
	near := tw.spawn("near", r2.Vec{X: 1}, components.Stats{Faction: components.FactionSecurity})

	reg := NewActorRegistry(tw.world)
	reg.RegisterAll([]ecs.Entity{attacker, far, near})
	sel := NewTargetSelector(tw.world, reg, nil)

	got, ok := sel.SelectTarget(attacker, true)
	if !ok {
		t.Fatal("expected a target")
	}
	if got != far {
		t.Errorf("SelectTarget = %v, want first registered hostile %v", got, far)
	}
}

func TestSelectTargetFilters(t *testing.T) {
	tests := []struct {
		name    string
		target  components.Stats
		at      r2.Vec
		facing  bool
		walls   bool
		wantHit bool
	}{
		{"same faction", components.Stats{Faction: components.FactionAlien}, r2.Vec{X: 2}, true, false, false},
		{"hostile in range", components.Stats{Faction: components.FactionPlayer}, r2.Vec{X: 2}, true, false, true},
		{"hostile out of range", components.Stats{Faction: components.FactionPlayer}, r2.Vec{X: 12}, true, false, false},
		{"hostile behind wall", components.Stats{Faction: components.FactionPlayer}, r2.Vec{X: 8}, true, true, false},
		{"aim point out of range", components.Stats{Faction: components.FactionPlayer, AimOffsetY: 5}, r2.Vec{X: 9}, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := newTestWorld()
			attacker := tw.spawn("attacker", r2.Vec{}, hunter())
			target := tw.spawn("target", tt.at, tt.target)

			reg := NewActorRegistry(tw.world)
			reg.RegisterAll([]ecs.Entity{attacker, target})

			var space Obstructions
			if tt.walls {
				space = wallSpace(t, 0)
			}
			sel := NewTargetSelector(tw.world, reg, space)

			_, ok := sel.SelectTarget(attacker, tt.facing)
			if ok != tt.wantHit {
				t.Errorf("SelectTarget hit = %v, want %v", ok, tt.wantHit)
			}
		})
	}
}

func TestSelectTargetCone(t *testing.T) {
	tw := newTestWorld()
	stats := hunter()
	stats.SightDegrees = 90
	attacker := tw.spawn("attacker", r2.Vec{}, stats)
	behind := tw.spawn("behind", r2.Vec{X: -3}, components.Stats{Faction: components.FactionPlayer})

	reg := NewActorRegistry(tw.world)
	reg.RegisterAll([]ecs.Entity{attacker, behind})
	sel := NewTargetSelector(tw.world, reg, nil)

	if _, ok := sel.SelectTarget(attacker, true); ok {
		t.Error("target behind a right-facing attacker should be skipped")
	}
	if got, ok := sel.SelectTarget(attacker, false); !ok || got != behind {
		t.Error("target should be found when facing left")
	}
}

func TestSelectTargetNeverOwnFaction(t *testing.T) {
	tw := newTestWorld()
	attacker := tw.spawn("attacker", r2.Vec{}, hunter())
	var all []ecs.Entity
	all = append(all, attacker)
	for i := 0; i < 5; i++ {
		all = append(all, tw.spawn("ally", r2.Vec{X: float64(i + 1)}, components.Stats{Faction: components.FactionAlien}))
	}
	hostile := tw.spawn("hostile", r2.Vec{X: 7}, components.Stats{Faction: components.FactionPlayer})
	all = append(all, hostile)

	reg := NewActorRegistry(tw.world)
	reg.RegisterAll(all)
	sel := NewTargetSelector(tw.world, reg, nil)

	got, ok := sel.SelectTarget(attacker, true)
	if !ok || got != hostile {
		t.Errorf("SelectTarget = %v, %v; want the only hostile", got, ok)
	}

	tw.vitals.Get(hostile).Alive = false
	if _, ok := sel.SelectTarget(attacker, true); ok {
		t.Error("no hostile is alive; expected a miss")
	}
}
