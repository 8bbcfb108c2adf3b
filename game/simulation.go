package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/systems"
	"github.com/pthm-cable/invasion/telemetry"
)

// simulationStep runs a single tick of the level.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()
	dt := g.cfg.Sim.DT
	player := g.PlayerPos()

	// 1. Intensity triggers and script
	g.perfCollector.StartPhase(telemetry.PhaseIntensity)
	intensity := g.director.Update(g.tick, dt, player)

	// 2. Sensors signal triggers for the next tick
	g.perfCollector.StartPhase(telemetry.PhaseSensors)
	for _, s := range g.sensors {
		s.Update(player)
	}

	// 3. Good-path flags toward the player's aim point
	g.perfCollector.StartPhase(telemetry.PhaseNavGraph)
	g.lastPasses = g.graph.Relax(g.selector.AimPoint(g.player))

	// 4. Intents from start-of-tick state
	g.perfCollector.StartPhase(telemetry.PhaseBrains)
	g.updateIntents()

	// 5. Integrate movement
	g.perfCollector.StartPhase(telemetry.PhaseMovement)
	g.movement.Update(dt)

	// 6. Spawn, kill and cull swarmlings around the moved player
	g.perfCollector.StartPhase(telemetry.PhaseSwarm)
	if g.swarmOn {
		g.updateSwarm(g.PlayerPos(), intensity)
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordTick(telemetry.TickSample{
		Intensity:   intensity,
		Live:        g.pool.LiveCount(),
		Pursuing:    g.pursuing,
		RelaxPasses: g.lastPasses,
	})
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// inputFor returns the input source driving e.
func (g *Game) inputFor(e ecs.Entity) systems.InputSource {
	if e == g.player {
		return g.playerInput
	}
	return g.brains
}

// updateIntents computes every live actor's intent and stores it as Motion.
func (g *Game) updateIntents() {
	g.pursuing = 0
	for _, e := range g.registry.AllLive() {
		in := g.inputFor(e).Intent(e)
		motion := g.motionMap.Get(e)
		motion.X, motion.Y = in.Move.X, in.Move.Y

		if in.HasTarget {
			g.pursuing++
		}
		id := e.ID()
		if in.Acquired {
			g.collector.Record(telemetry.NewTargetAcquiredEvent(g.tick, id))
			g.lifetimeTracker.RecordTargetAcquired(id)
		}
		if in.NavMiss {
			g.collector.Record(telemetry.NewNavMissEvent(g.tick, id))
			g.lifetimeTracker.RecordNavMiss(id)
		}
	}
}

// updateSwarm plans and applies one population step and reports it.
func (g *Game) updateSwarm(player r2.Vec, intensity float64) {
	plan := g.swarm.Plan(player, intensity)
	g.desired = plan.Desired

	for _, i := range plan.Culls {
		g.endLifetime(telemetry.NewCullEvent(g.tick, g.pool.Slot(i).Entity.ID(), i))
	}
	if plan.Kill >= 0 {
		g.endLifetime(telemetry.NewKillEvent(g.tick, g.pool.Slot(plan.Kill).Entity.ID(), plan.Kill))
	}

	res := g.swarm.Apply(plan)
	if res.Spawned == 0 {
		return
	}

	slot := plan.SpawnSlot
	if res.Grown > 0 {
		slot = g.pool.Len() - 1
	}
	id := g.pool.Slot(slot).Entity.ID()
	g.collector.Record(telemetry.NewSpawnEvent(g.tick, id, slot, res.Reused > 0))
	g.lifetimeTracker.Register(id, g.tick, slot)
}

func (g *Game) endLifetime(ev telemetry.Event) {
	g.collector.Record(ev)
	g.lifetimeTracker.Remove(ev.EntityID, g.tick, g.cfg.Sim.DT)
}
