package systems

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r2"
)

// NodeState is the per-tick reachability state of a nav node.
type NodeState uint8

const (
	NodeDead    NodeState = iota // no route to the player
	NodeDirect                   // sees the player
	NodeRelayed                  // a next node leads to the player
)

func (s NodeState) String() string {
	switch s {
	case NodeDirect:
		return "direct"
	case NodeRelayed:
		return "relayed"
	default:
		return "dead"
	}
}

// NavNode is a fixed waypoint.
type NavNode struct {
	Name  string
	Pos   r2.Vec
	Swarm bool // part of the swarmling-only subgraph
	State NodeState
}

// IsGoodPath reports whether following this node eventually reaches player visibility.
func (n NavNode) IsGoodPath() bool {
	return n.State != NodeDead
}

// ReachQuery describes a wayfinding request.
type ReachQuery struct {
	From           r2.Vec
	ProximityLimit float64 // nodes closer than this are skipped
	SwarmOnly      bool
}

// NavGraph stores nav nodes and their directed next-edges.
// Node indices are registration order and double as gonum node IDs.
type NavGraph struct {
	space Obstructions
	nodes []NavNode
	next  [][]int
	names map[string]int
	edges *simple.DirectedGraph

	good       []bool // previous pass, reused by Relax
	lastPasses int
}

// NewNavGraph creates an empty graph whose visibility checks use space.
func NewNavGraph(space Obstructions) *NavGraph {
	return &NavGraph{
		space: space,
		names: make(map[string]int),
		edges: simple.NewDirectedGraph(),
	}
}

// AddNode appends a node and returns its index.
func (g *NavGraph) AddNode(name string, pos r2.Vec, swarm bool) int {
	id := len(g.nodes)
	g.nodes = append(g.nodes, NavNode{Name: name, Pos: pos, Swarm: swarm})
	g.next = append(g.next, nil)
	g.edges.AddNode(simple.Node(id))
	if name != "" {
		g.names[name] = id
	}
	return id
}

// Link adds the edge from -> to. Self loops, duplicates and unknown indices are ignored.
func (g *NavGraph) Link(from, to int) bool {
	if from == to || !g.valid(from) || !g.valid(to) {
		return false
	}
	if g.edges.HasEdgeFromTo(int64(from), int64(to)) {
		return false
	}
	g.edges.SetEdge(g.edges.NewEdge(simple.Node(from), simple.Node(to)))
	g.next[from] = append(g.next[from], to)
	return true
}

// AutoLink links every node to each visible node strictly above it.
// Returns the number of edges added.
func (g *NavGraph) AutoLink() int {
	added := 0
	for i := range g.nodes {
		for j := range g.nodes {
			if g.nodes[j].Pos.Y <= g.nodes[i].Pos.Y {
				continue
			}
			if !Visible(g.space, g.nodes[i].Pos, g.nodes[j].Pos) {
				continue
			}
			if g.Link(i, j) {
				added++
			}
		}
	}
	return added
}

// Lookup returns the index of a named node.
func (g *NavGraph) Lookup(name string) (int, bool) {
	id, ok := g.names[name]
	return id, ok
}

// Len returns the number of nodes.
func (g *NavGraph) Len() int { return len(g.nodes) }

// Node returns the node at index i.
func (g *NavGraph) Node(i int) NavNode { return g.nodes[i] }

// Next returns the next-node indices of i in link order.
func (g *NavGraph) Next(i int) []int { return g.next[i] }

// EdgeCount returns the number of directed edges.
func (g *NavGraph) EdgeCount() int { return g.edges.Edges().Len() }

// LastPasses returns the pass count of the most recent Relax.
func (g *NavGraph) LastPasses() int { return g.lastPasses }

func (g *NavGraph) valid(i int) bool { return i >= 0 && i < len(g.nodes) }

// Relax recomputes every node's state against the player point.
//
// Pass one marks nodes that see the player as direct. Each later pass reads
// only the previous pass and marks a node relayed when any next node was good.
// Iteration stops after a pass that changes nothing, or after N passes for N
// nodes. Returns the number of passes run.
func (g *NavGraph) Relax(player r2.Vec) int {
	return g.relax(player, len(g.nodes))
}

// relax runs at most limit passes.
func (g *NavGraph) relax(player r2.Vec, limit int) int {
	n := len(g.nodes)
	if n == 0 || limit < 1 {
		g.lastPasses = 0
		return 0
	}
	if cap(g.good) < n {
		g.good = make([]bool, n)
	}
	g.good = g.good[:n]

	for i := range g.nodes {
		if Visible(g.space, g.nodes[i].Pos, player) {
			g.nodes[i].State = NodeDirect
		} else {
			g.nodes[i].State = NodeDead
		}
	}

	passes := 1
	for passes < limit {
		for i := range g.nodes {
			g.good[i] = g.nodes[i].IsGoodPath()
		}
		changed := false
		for i := range g.nodes {
			if g.good[i] {
				continue
			}
			for _, j := range g.next[i] {
				if g.good[j] {
					g.nodes[i].State = NodeRelayed
					changed = true
					break
				}
			}
		}
		passes++
		if !changed {
			break
		}
	}

	g.lastPasses = passes
	return passes
}

// FindReachableNode returns a node strictly above q.From, at least
// q.ProximityLimit away and visible from it. The first such node in
// registration order is the fallback; the first one that is also a good path
// wins outright.
func (g *NavGraph) FindReachableNode(q ReachQuery) (int, bool) {
	fallback := -1
	for i, node := range g.nodes {
		if q.SwarmOnly && !node.Swarm {
			continue
		}
		if node.Pos.Y <= q.From.Y {
			continue
		}
		if r2.Norm(r2.Sub(node.Pos, q.From)) < q.ProximityLimit {
			continue
		}
		if !Visible(g.space, q.From, node.Pos) {
			continue
		}
		if node.IsGoodPath() {
			return i, true
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback, fallback >= 0
}

// IsGoodToSpawn reports whether a node at pos is not above the player and
// lies within [minDist, maxDist] of it.
func IsGoodToSpawn(pos, player r2.Vec, minDist, maxDist float64) bool {
	if pos.Y > player.Y {
		return false
	}
	d := r2.Norm(r2.Sub(pos, player))
	return d >= minDist && d <= maxDist
}

// FindSpawnNode returns the first swarm node that is good to spawn at.
func (g *NavGraph) FindSpawnNode(player r2.Vec, minDist, maxDist float64) (int, bool) {
	for i, node := range g.nodes {
		if !node.Swarm {
			continue
		}
		if IsGoodToSpawn(node.Pos, player, minDist, maxDist) {
			return i, true
		}
	}
	return -1, false
}

// Cycles returns each group of nodes that can reach one another through next-edges.
func (g *NavGraph) Cycles() [][]int {
	var out [][]int
	for _, scc := range topo.TarjanSCC(g.edges) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]int, len(scc))
		for k, n := range scc {
			ids[k] = int(n.ID())
		}
		out = append(out, ids)
	}
	return out
}

// Cyclic reports whether the next-edges contain a cycle.
func (g *NavGraph) Cyclic() bool {
	return len(g.Cycles()) > 0
}
