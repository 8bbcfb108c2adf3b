package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/invasion/components"
)

// ActorRegistry is the ordered list of actors that can be targeted.
// Registration order is the tie-break for target selection.
type ActorRegistry struct {
	world  *ecs.World
	vitals *ecs.Map1[components.Vitals]

	actors []ecs.Entity
	member map[ecs.Entity]struct{}
	live   []ecs.Entity // reused by AllLive
}

// NewActorRegistry creates an empty registry over the given world.
func NewActorRegistry(w *ecs.World) *ActorRegistry {
	return &ActorRegistry{
		world:  w,
		vitals: ecs.NewMap1[components.Vitals](w),
		member: make(map[ecs.Entity]struct{}),
	}
}

// RegisterAll appends the actors in order, skipping ones already registered.
func (r *ActorRegistry) RegisterAll(actors []ecs.Entity) {
	for _, e := range actors {
		r.Register(e)
	}
}

// Register appends an actor. Returns false if it was already registered.
func (r *ActorRegistry) Register(e ecs.Entity) bool {
	if _, ok := r.member[e]; ok {
		return false
	}
	r.member[e] = struct{}{}
	r.actors = append(r.actors, e)
	return true
}

// Remove drops an actor. Removing an unknown actor is a no-op.
func (r *ActorRegistry) Remove(e ecs.Entity) bool {
	if _, ok := r.member[e]; !ok {
		return false
	}
	delete(r.member, e)
	for i, a := range r.actors {
		if a == e {
			r.actors = append(r.actors[:i], r.actors[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the actor is registered.
func (r *ActorRegistry) Contains(e ecs.Entity) bool {
	_, ok := r.member[e]
	return ok
}

// IsLive reports whether the actor is registered, exists and is alive.
func (r *ActorRegistry) IsLive(e ecs.Entity) bool {
	if !r.Contains(e) || !r.world.Alive(e) {
		return false
	}
	return r.vitals.Get(e).Alive
}

// Len returns the number of registered actors, alive or not.
func (r *ActorRegistry) Len() int {
	return len(r.actors)
}

// AllLive returns the registered, living actors in registration order.
// The slice is reused by the next call and must not be retained.
func (r *ActorRegistry) AllLive() []ecs.Entity {
	r.live = r.live[:0]
	for _, e := range r.actors {
		if !r.world.Alive(e) {
			continue
		}
		if !r.vitals.Get(e).Alive {
			continue
		}
		r.live = append(r.live, e)
	}
	return r.live
}
