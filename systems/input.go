package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
)

// Intent is what an actor wants to do this tick.
type Intent struct {
	Move r2.Vec

	Target    ecs.Entity
	HasTarget bool // pursuing a visible target
	Acquired  bool // target was selected this tick
	NavNode   int  // nav node being walked to, -1 for none
	NavMiss   bool // wanted a nav node and found none
}

// InputSource supplies per-tick intents for an actor.
type InputSource interface {
	Intent(e ecs.Entity) Intent
}

// ClampAxes limits each component of v to [-limit, limit].
func ClampAxes(v r2.Vec, limit float64) r2.Vec {
	return r2.Vec{X: clampf(v.X, -limit, limit), Y: clampf(v.Y, -limit, limit)}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PathInput walks an actor along a fixed list of waypoints.
// It drives the player in headless runs.
type PathInput struct {
	posMap    *ecs.Map1[components.Position]
	waypoints []r2.Vec
	arrive    float64
	loop      bool
	next      int
}

// NewPathInput creates a waypoint follower. arrive is the radius at which a
// waypoint counts as reached.
func NewPathInput(w *ecs.World, waypoints []r2.Vec, arrive float64, loop bool) *PathInput {
	return &PathInput{
		posMap:    ecs.NewMap1[components.Position](w),
		waypoints: waypoints,
		arrive:    arrive,
		loop:      loop,
	}
}

// Intent moves toward the current waypoint, advancing past reached ones.
func (p *PathInput) Intent(e ecs.Entity) Intent {
	in := Intent{NavNode: -1}
	if p.Done() {
		return in
	}
	pos := p.posMap.Get(e).Vec()
	for !p.Done() && r2.Norm(r2.Sub(p.waypoints[p.next], pos)) <= p.arrive {
		p.next++
		if p.loop && p.next == len(p.waypoints) {
			p.next = 0
			break
		}
	}
	if p.Done() {
		return in
	}
	in.Move = r2.Sub(p.waypoints[p.next], pos)
	return in
}

// Done reports whether a non-looping path has been completed.
func (p *PathInput) Done() bool {
	return p.next >= len(p.waypoints)
}

// Waypoint returns the index of the waypoint being walked to.
func (p *PathInput) Waypoint() int {
	return p.next
}
