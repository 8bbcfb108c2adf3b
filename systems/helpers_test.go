package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
)

// testWorld builds actors for system tests.
type testWorld struct {
	world  *ecs.World
	mapper *ecs.Map7[
		components.Position,
		components.Facing,
		components.Stats,
		components.Vitals,
		components.Actor,
		components.Brain,
		components.Motion,
	]
	pos    *ecs.Map1[components.Position]
	vitals *ecs.Map1[components.Vitals]
	brain  *ecs.Map1[components.Brain]
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		world: w,
		mapper: ecs.NewMap7[
			components.Position,
			components.Facing,
			components.Stats,
			components.Vitals,
			components.Actor,
			components.Brain,
			components.Motion,
		](w),
		pos:    ecs.NewMap1[components.Position](w),
		vitals: ecs.NewMap1[components.Vitals](w),
		brain:  ecs.NewMap1[components.Brain](w),
	}
}

func (tw *testWorld) spawn(name string, at r2.Vec, stats components.Stats) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	facing := components.Facing{Right: true}
	vitals := components.Vitals{Alive: true}
	actor := components.Actor{Name: name, Slot: -1}
	brain := components.Brain{NavNode: -1}
	motion := components.Motion{}
	return tw.mapper.NewEntity(&pos, &facing, &stats, &vitals, &actor, &brain, &motion)
}

func (tw *testWorld) at(e ecs.Entity) r2.Vec {
	return tw.pos.Get(e).Vec()
}

// fakeSwarmActors implements SwarmActors on top of a testWorld.
type fakeSwarmActors struct {
	tw      *testWorld
	created int
}

func (f *fakeSwarmActors) Position(e ecs.Entity) r2.Vec { return f.tw.at(e) }

func (f *fakeSwarmActors) Instantiate(at r2.Vec) ecs.Entity {
	f.created++
	stats := components.Stats{Faction: components.FactionAlien}
	return f.tw.spawn("swarmling", at, stats)
}

func (f *fakeSwarmActors) Activate(e ecs.Entity, at r2.Vec) {
	f.tw.pos.Get(e).Set(at)
	f.tw.vitals.Get(e).Alive = true
}

func (f *fakeSwarmActors) Deactivate(e ecs.Entity) {
	f.tw.vitals.Get(e).Alive = false
}
