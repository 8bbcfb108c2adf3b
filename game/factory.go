package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
	"github.com/pthm-cable/invasion/levels"
	"github.com/pthm-cable/invasion/systems"
)

// buildLevel creates the obstruction space, nav graph, actors, pool,
// triggers and sensors from the level file.
func (g *Game) buildLevel(script *systems.IntensityScript) error {
	lvl := g.level

	g.space = systems.NewObstructionSpace(g.cfg.Vision.IgnoreLayer)
	for i, o := range lvl.Obstructions {
		if err := g.space.AddBox(o.Min.Vec(), o.Max.Vec(), o.Layer); err != nil {
			return fmt.Errorf("game: obstruction %d: %w", i, err)
		}
	}

	g.graph = systems.NewNavGraph(g.space)
	for _, n := range lvl.NavPoints {
		g.graph.AddNode(n.Name, n.Position.Vec(), n.Swarm)
	}
	// Nodes were added in level order, so the loop index is the node index.
	for from, n := range lvl.NavPoints {
		for _, next := range n.Next {
			to, ok := g.graph.Lookup(next)
			if !ok {
				return fmt.Errorf("game: nav point %q next %q: %w", n.Name, next, levels.ErrUnknownNavPoint)
			}
			g.graph.Link(from, to)
		}
	}
	if lvl.AutoLink {
		g.graph.AutoLink()
	}

	g.registry = systems.NewActorRegistry(g.world)
	g.selector = systems.NewTargetSelector(g.world, g.registry, g.space)
	g.brains = systems.NewBrainInput(g.world, g.selector, g.graph, g.cfg.Brain)
	g.movement = systems.NewMovementSystem(g.world)
	g.pool = systems.NewSwarmPool()
	g.swarm = systems.NewSwarmController(g.pool, g.graph, g.registry, g, g.cfg.Swarm)

	// Player first so it is the first candidate in every scan.
	g.player = g.createPlayer(lvl.Player)
	waypoints := make([]r2.Vec, len(lvl.Player.Path.Waypoints))
	for i, p := range lvl.Player.Path.Waypoints {
		waypoints[i] = p.Vec()
	}
	g.playerInput = systems.NewPathInput(g.world, waypoints, lvl.Player.Path.Arrive, lvl.Player.Path.Loop)

	placed := []ecs.Entity{g.player}
	for _, spec := range lvl.Actors {
		e, err := g.createActor(spec)
		if err != nil {
			return err
		}
		placed = append(placed, e)
	}
	g.registry.RegisterAll(placed)

	for i := 0; i < lvl.Swarm.Prewarm; i++ {
		e := g.Instantiate(lvl.Player.Position.Vec())
		g.Deactivate(e)
		g.pool.Add(e, false)
	}

	triggers := make([]*systems.IntensityTrigger, len(lvl.Triggers))
	byName := make(map[string]*systems.IntensityTrigger, len(lvl.Triggers))
	for i, t := range lvl.Triggers {
		triggers[i] = newTrigger(t)
		byName[t.Name] = triggers[i]
	}
	initial := g.cfg.Intensity.Initial
	if lvl.Intensity != nil {
		initial = *lvl.Intensity
	}
	g.director = systems.NewIntensityDirector(initial, triggers)

	for _, s := range lvl.Sensors {
		sensor := systems.NewSensor(s.ID, region(s.Region))
		sensor.TriggersOnce = s.TriggersOnce
		sensor.ClosesWhenPlayerLeaves = s.ClosesWhenPlayerLeaves
		for _, r := range s.Receivers {
			t, ok := byName[r]
			if !ok {
				return fmt.Errorf("game: sensor %q receiver %q: %w", s.ID, r, levels.ErrUnknownTrigger)
			}
			sensor.Connect(t)
		}
		g.sensors = append(g.sensors, sensor)
	}

	if script == nil && lvl.Script != "" {
		src, err := levels.LoadScript(lvl.Script)
		if err != nil {
			return fmt.Errorf("game: load script %s: %w", lvl.Script, err)
		}
		if script, err = systems.NewIntensityScript(lvl.Script, src); err != nil {
			return fmt.Errorf("game: %w", err)
		}
	}
	if script != nil {
		g.director.SetScript(script)
	}

	return nil
}

func region(b levels.Box) systems.Region {
	return systems.Region{Min: b.Min.Vec(), Max: b.Max.Vec()}
}

func newTrigger(t levels.TriggerSpec) *systems.IntensityTrigger {
	return &systems.IntensityTrigger{
		Name:                     t.Name,
		Region:                   region(t.Region),
		TriggersOnce:             t.TriggersOnce,
		Amount:                   t.Amount,
		Interval:                 t.Interval,
		OnlyWhilePlayerIn:        t.OnlyWhilePlayerIn,
		DestroyAfterPlayerLeaves: t.DestroyAfterPlayerLeaves,
		LastsForDuration:         t.LastsForDuration,
		DurationFromExit:         t.DurationFromExit,
		DestroyAfterDuration:     t.DestroyAfterDuration,
		Duration:                 t.Duration,
		MultipleSignals:          t.MultipleSignals,
	}
}

// createPlayer creates the player entity.
func (g *Game) createPlayer(spec *levels.PlayerSpec) ecs.Entity {
	speed := spec.Speed
	if speed <= 0 {
		speed = g.cfg.Swarm.Speed
	}
	stats := components.Stats{
		Faction:      components.FactionPlayer,
		SightRange:   g.cfg.Vision.SightRange,
		SightDegrees: g.cfg.Vision.SightDegrees,
		AimOffsetX:   spec.AimOffset.X,
		AimOffsetY:   spec.AimOffset.Y,
		Speed:        speed,
	}
	return g.spawnActor(spec.Name, spec.Position.Vec(), true, stats, components.Brain{NavNode: -1}, false)
}

// createActor creates a level-placed actor. Swarm actors join the pool alive.
func (g *Game) createActor(spec levels.ActorSpec) (ecs.Entity, error) {
	faction, err := components.ParseFaction(spec.Faction)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("game: actor %q: %w: %v", spec.Name, levels.ErrUnknownFaction, err)
	}

	stats := components.Stats{
		Faction:      faction,
		SightRange:   g.cfg.Vision.SightRange,
		SightDegrees: g.cfg.Vision.SightDegrees,
		AimOffsetX:   spec.AimOffset.X,
		AimOffsetY:   spec.AimOffset.Y,
		Speed:        spec.Speed,
	}
	if spec.Swarm {
		stats = components.SwarmlingStats(g.cfg.Swarm)
		stats.Faction = faction
		stats.AimOffsetX, stats.AimOffsetY = spec.AimOffset.X, spec.AimOffset.Y
	}
	if spec.SightRange != nil {
		stats.SightRange = *spec.SightRange
	}
	if spec.Degrees != nil {
		stats.SightDegrees = *spec.Degrees
	}

	brain := components.Brain{FollowsNavPoints: spec.FollowsNavPoints, NavNode: -1}
	e := g.spawnActor(spec.Name, spec.Position.Vec(), !spec.FacingLeft, stats, brain, spec.Swarm)
	if spec.Swarm {
		g.actorMap.Get(e).Slot = g.pool.Add(e, true)
	}
	return e, nil
}

func (g *Game) spawnActor(name string, at r2.Vec, facingRight bool, stats components.Stats, brain components.Brain, swarm bool) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	facing := components.Facing{Right: facingRight}
	vitals := components.Vitals{Alive: true}
	actor := components.Actor{Name: name, Swarm: swarm, Slot: -1}
	motion := components.Motion{}

	e := g.actorMapper.NewEntity(&pos, &facing, &stats, &vitals, &actor, &brain, &motion)
	g.actors = append(g.actors, e)
	return e
}

// Position implements systems.SwarmActors.
func (g *Game) Position(e ecs.Entity) r2.Vec {
	return g.posMap.Get(e).Vec()
}

// Instantiate implements systems.SwarmActors. The controller adds the new
// actor to the pool right after, so its slot is the current pool length.
func (g *Game) Instantiate(at r2.Vec) ecs.Entity {
	brain := components.Brain{FollowsNavPoints: true, NavNode: -1}
	e := g.spawnActor("swarmling", at, true, components.SwarmlingStats(g.cfg.Swarm), brain, true)
	g.actorMap.Get(e).Slot = g.pool.Len()
	return e
}

// Activate implements systems.SwarmActors. Reused actors pick up the
// current swarm config but keep their faction and aim offset.
func (g *Game) Activate(e ecs.Entity, at r2.Vec) {
	g.posMap.Get(e).Set(at)
	g.vitalsMap.Get(e).Alive = true

	stats := g.statsMap.Get(e)
	fresh := components.SwarmlingStats(g.cfg.Swarm)
	fresh.Faction = stats.Faction
	fresh.AimOffsetX, fresh.AimOffsetY = stats.AimOffsetX, stats.AimOffsetY
	*stats = fresh

	g.resetAI(e)
}

// Deactivate implements systems.SwarmActors.
func (g *Game) Deactivate(e ecs.Entity) {
	g.vitalsMap.Get(e).Alive = false
	g.resetAI(e)
}

func (g *Game) resetAI(e ecs.Entity) {
	brain := g.brainMap.Get(e)
	brain.ClearTarget()
	brain.NavNode = -1
	*g.motionMap.Get(e) = components.Motion{}
}
