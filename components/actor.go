package components

import "github.com/mlange-42/ark/ecs"

// Vitals tracks whether an actor is alive.
// Pooled actors flip Alive instead of being removed from the world.
type Vitals struct {
	Alive bool
}

// Actor bundles identity and pool membership.
type Actor struct {
	Name  string
	Swarm bool // pooled swarmling
	Slot  int  // pool slot index, -1 when not pooled
}

// Brain holds per-actor AI memory.
type Brain struct {
	FollowsNavPoints bool

	HasTarget bool
	Target    ecs.Entity // weak reference, validated against the registry each tick

	NavNode int // index into the nav graph, -1 = none
}

// ClearTarget forgets the held target.
func (b *Brain) ClearTarget() {
	b.HasTarget = false
	b.Target = ecs.Entity{}
}
