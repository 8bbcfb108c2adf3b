package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
	"github.com/pthm-cable/invasion/config"
)

// BrainInput is the AI InputSource. It pursues visible hostiles and
// otherwise walks the nav graph toward the player.
type BrainInput struct {
	selector *TargetSelector
	graph    *NavGraph
	params   config.BrainConfig

	posMap    *ecs.Map1[components.Position]
	facingMap *ecs.Map1[components.Facing]
	actorMap  *ecs.Map1[components.Actor]
	brainMap  *ecs.Map1[components.Brain]
}

// NewBrainInput creates the AI input source.
func NewBrainInput(w *ecs.World, selector *TargetSelector, graph *NavGraph, params config.BrainConfig) *BrainInput {
	return &BrainInput{
		selector:  selector,
		graph:     graph,
		params:    params,
		posMap:    ecs.NewMap1[components.Position](w),
		facingMap: ecs.NewMap1[components.Facing](w),
		actorMap:  ecs.NewMap1[components.Actor](w),
		brainMap:  ecs.NewMap1[components.Brain](w),
	}
}

// SetParams replaces the tuning parameters.
func (b *BrainInput) SetParams(p config.BrainConfig) {
	b.params = p
}

// Intent computes the move for one actor. Only the actor's own Brain
// component is written.
func (b *BrainInput) Intent(e ecs.Entity) Intent {
	brain := b.brainMap.Get(e)
	pos := b.posMap.Get(e).Vec()
	facingRight := b.facingMap.Get(e).Right
	in := Intent{NavNode: brain.NavNode}

	if brain.HasTarget {
		if b.selector.CanSee(e, brain.Target, facingRight) {
			return b.pursue(in, brain.Target, pos)
		}
		// Dead or deregistered targets are forgotten; hidden ones are kept.
		if !b.selector.registry.IsLive(brain.Target) {
			brain.ClearTarget()
		}
	}

	if target, ok := b.selector.SelectTarget(e, facingRight); ok {
		brain.HasTarget = true
		brain.Target = target
		in.Acquired = true
		return b.pursue(in, target, pos)
	}

	if !brain.FollowsNavPoints {
		return in
	}

	limit := b.params.NavPointProximityLimit
	if brain.NavNode < 0 || brain.NavNode >= b.graph.Len() ||
		r2.Norm(r2.Sub(b.graph.Node(brain.NavNode).Pos, pos)) < limit {
		node, ok := b.graph.FindReachableNode(ReachQuery{
			From:           pos,
			ProximityLimit: limit,
			SwarmOnly:      b.actorMap.Get(e).Swarm,
		})
		brain.NavNode = node
		in.NavMiss = !ok
	}
	in.NavNode = brain.NavNode
	if brain.NavNode >= 0 {
		in.Move = ClampAxes(r2.Sub(b.graph.Node(brain.NavNode).Pos, pos), b.params.InputSpeed)
	}
	return in
}

func (b *BrainInput) pursue(in Intent, target ecs.Entity, pos r2.Vec) Intent {
	in.Target = target
	in.HasTarget = true
	in.Move = ClampAxes(r2.Sub(b.selector.AimPoint(target), pos), b.params.InputSpeed)
	return in
}
