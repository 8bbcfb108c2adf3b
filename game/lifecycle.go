package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/invasion/telemetry"
)

// RegisterDeath handles an actor killed by something outside the swarm
// controller (combat, hazards). Pooled actors go back to the pool for reuse;
// other actors stay in the world but leave the registry. Returns false for
// actors that were not live.
func (g *Game) RegisterDeath(e ecs.Entity) bool {
	if !g.world.Alive(e) || !g.registry.IsLive(e) {
		return false
	}

	if !g.swarm.Release(e) {
		g.registry.Remove(e)
		g.vitalsMap.Get(e).Alive = false
		g.resetAI(e)
	}
	g.endLifetime(telemetry.NewDeathEvent(g.tick, e.ID()))

	slog.Debug("actor died", "tick", g.tick, "actor", g.actorMap.Get(e).Name, "id", e.ID())
	return true
}

// Actors returns every actor created so far, live or not, in creation order.
func (g *Game) Actors() []ecs.Entity {
	return g.actors
}

// ActorByName returns the first actor with the given name.
func (g *Game) ActorByName(name string) (ecs.Entity, bool) {
	for _, e := range g.actors {
		if g.actorMap.Get(e).Name == name {
			return e, true
		}
	}
	return ecs.Entity{}, false
}
