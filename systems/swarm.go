package systems

import (
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/config"
)

// SwarmSlot is one pooled actor and its alive tag.
type SwarmSlot struct {
	Entity ecs.Entity
	Alive  bool
}

// SwarmPool is an arena of reusable swarmlings addressed by slot index.
// It is the only place a dead swarmling can be brought back.
type SwarmPool struct {
	slots []SwarmSlot
	index map[ecs.Entity]int
}

// NewSwarmPool creates an empty pool.
func NewSwarmPool() *SwarmPool {
	return &SwarmPool{index: make(map[ecs.Entity]int)}
}

// Add appends an actor to the pool and returns its slot.
func (p *SwarmPool) Add(e ecs.Entity, alive bool) int {
	if i, ok := p.index[e]; ok {
		p.slots[i].Alive = alive
		return i
	}
	p.slots = append(p.slots, SwarmSlot{Entity: e, Alive: alive})
	p.index[e] = len(p.slots) - 1
	return len(p.slots) - 1
}

// Len returns the number of slots.
func (p *SwarmPool) Len() int { return len(p.slots) }

// Slot returns the slot at index i.
func (p *SwarmPool) Slot(i int) SwarmSlot { return p.slots[i] }

// IndexOf returns the slot holding e.
func (p *SwarmPool) IndexOf(e ecs.Entity) (int, bool) {
	i, ok := p.index[e]
	return i, ok
}

// LiveCount returns the number of live slots.
func (p *SwarmPool) LiveCount() int {
	n := 0
	for _, s := range p.slots {
		if s.Alive {
			n++
		}
	}
	return n
}

// FirstDead returns the first dead slot in pool order.
func (p *SwarmPool) FirstDead() (int, bool) {
	for i, s := range p.slots {
		if !s.Alive {
			return i, true
		}
	}
	return -1, false
}

func (p *SwarmPool) setAlive(i int, alive bool) {
	p.slots[i].Alive = alive
}

// SwarmActors creates, moves and toggles pooled actors in the host world.
type SwarmActors interface {
	Position(e ecs.Entity) r2.Vec
	Instantiate(at r2.Vec) ecs.Entity
	Activate(e ecs.Entity, at r2.Vec)
	Deactivate(e ecs.Entity)
}

// SwarmPlan is the set of mutations decided by one Plan call.
type SwarmPlan struct {
	Desired int
	Live    int // live count before any removal

	Culls []int // slots left behind by the player
	Kill  int   // slot to kill, -1 for none

	Spawn     bool
	SpawnSlot int // dead slot to reuse, -1 to grow the pool
	SpawnNode int
	SpawnAt   r2.Vec
}

// SwarmResult counts what Apply did.
type SwarmResult struct {
	Spawned int
	Reused  int
	Grown   int
	Killed  int
	Culled  int
}

// SwarmController keeps the live swarmling count near the intensity target.
type SwarmController struct {
	pool     *SwarmPool
	graph    *NavGraph
	registry *ActorRegistry
	actors   SwarmActors
	params   config.SwarmConfig

	plan SwarmPlan
}

// NewSwarmController wires the controller to its collaborators.
func NewSwarmController(pool *SwarmPool, graph *NavGraph, registry *ActorRegistry, actors SwarmActors, params config.SwarmConfig) *SwarmController {
	return &SwarmController{
		pool:     pool,
		graph:    graph,
		registry: registry,
		actors:   actors,
		params:   params,
	}
}

// SetParams replaces the tuning parameters.
func (c *SwarmController) SetParams(p config.SwarmConfig) {
	c.params = p
}

// Params returns the current tuning parameters.
func (c *SwarmController) Params() config.SwarmConfig {
	return c.params
}

// Pool returns the controlled pool.
func (c *SwarmController) Pool() *SwarmPool {
	return c.pool
}

// Plan decides this tick's spawns and removals without mutating anything.
//
// Culls are decided first. The spawn or single kill is then chosen against
// the live count left after culling, and a spawn reuses the first slot in pool
// order that is dead or about to be culled. The returned plan is reused by
// the next call.
func (c *SwarmController) Plan(player r2.Vec, intensity float64) *SwarmPlan {
	p := &c.plan
	p.Desired = c.params.Desired(intensity)
	p.Live = 0
	p.Culls = p.Culls[:0]
	p.Kill = -1
	p.Spawn = false
	p.SpawnSlot = -1
	p.SpawnNode = -1
	p.SpawnAt = r2.Vec{}

	band := c.params.MinDistanceToSpawn
	for i, s := range c.pool.slots {
		if !s.Alive {
			continue
		}
		p.Live++
		if c.actors.Position(s.Entity).Y > player.Y+band {
			p.Culls = append(p.Culls, i)
		}
	}

	live := p.Live - len(p.Culls)
	switch {
	case live < p.Desired:
		node, ok := c.graph.FindSpawnNode(player, band, c.params.MaxDistanceToSpawn)
		if !ok {
			return p
		}
		p.Spawn = true
		p.SpawnNode = node
		p.SpawnAt = c.graph.Node(node).Pos
		for i, s := range c.pool.slots {
			if !s.Alive || slices.Contains(p.Culls, i) {
				p.SpawnSlot = i
				break
			}
		}
	case live > p.Desired:
		for i, s := range c.pool.slots {
			if !s.Alive || slices.Contains(p.Culls, i) {
				continue
			}
			if math.Abs(c.actors.Position(s.Entity).Y-player.Y) < band {
				continue
			}
			p.Kill = i
			break
		}
	}
	return p
}

// Apply executes a plan. It is the only writer of the pool.
func (c *SwarmController) Apply(p *SwarmPlan) SwarmResult {
	var res SwarmResult
	for _, i := range p.Culls {
		if c.killSlot(i) {
			res.Culled++
		}
	}
	if p.Kill >= 0 && c.killSlot(p.Kill) {
		res.Killed++
	}
	if !p.Spawn {
		return res
	}

	if p.SpawnSlot >= 0 && !c.pool.slots[p.SpawnSlot].Alive {
		// Culled slots are dead by now and can be reused in the same tick.
		e := c.pool.slots[p.SpawnSlot].Entity
		c.actors.Activate(e, p.SpawnAt)
		c.pool.setAlive(p.SpawnSlot, true)
		c.registry.Register(e)
		res.Reused++
	} else {
		e := c.actors.Instantiate(p.SpawnAt)
		c.pool.Add(e, true)
		c.registry.Register(e)
		res.Grown++
	}
	res.Spawned++
	return res
}

// Update plans and applies in one call.
func (c *SwarmController) Update(player r2.Vec, intensity float64) SwarmResult {
	return c.Apply(c.Plan(player, intensity))
}

// Release marks a pooled actor dead after it died outside the controller.
// Returns false if e is not pooled.
func (c *SwarmController) Release(e ecs.Entity) bool {
	i, ok := c.pool.IndexOf(e)
	if !ok {
		return false
	}
	c.killSlot(i)
	return true
}

func (c *SwarmController) killSlot(i int) bool {
	s := c.pool.slots[i]
	if !s.Alive {
		return false
	}
	c.actors.Deactivate(s.Entity)
	c.pool.setAlive(i, false)
	c.registry.Remove(s.Entity)
	return true
}
