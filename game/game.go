// Package game wires a level, the swarm AI systems and telemetry into a
// headless tick loop.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/invasion/components"
	"github.com/pthm-cable/invasion/config"
	"github.com/pthm-cable/invasion/levels"
	"github.com/pthm-cable/invasion/systems"
	"github.com/pthm-cable/invasion/telemetry"
)

// ErrNoLevel is returned by NewGame when Options.Level is nil.
var ErrNoLevel = errors.New("game: no level")

// Options configures a new game.
type Options struct {
	Level  *levels.Level
	Config *config.Config // nil uses config.Cfg()

	Script *systems.IntensityScript // overrides the level script when set

	LogStats       bool
	StatsWindowSec float64 // 0 uses the config window
	SnapshotDir    string
	OutputDir      string

	// StatsCallback is called with each flushed window. Used by the optimizer.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete level state.
type Game struct {
	cfg   *config.Config
	level *levels.Level
	world *ecs.World

	// Entity mapper for actor creation
	actorMapper *ecs.Map7[
		components.Position,
		components.Facing,
		components.Stats,
		components.Vitals,
		components.Actor,
		components.Brain,
		components.Motion,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	facingMap *ecs.Map1[components.Facing]
	statsMap  *ecs.Map1[components.Stats]
	vitalsMap *ecs.Map1[components.Vitals]
	actorMap  *ecs.Map1[components.Actor]
	brainMap  *ecs.Map1[components.Brain]
	motionMap *ecs.Map1[components.Motion]

	// Systems
	space    *systems.ObstructionSpace
	registry *systems.ActorRegistry
	graph    *systems.NavGraph
	selector *systems.TargetSelector
	brains   *systems.BrainInput
	movement *systems.MovementSystem
	pool     *systems.SwarmPool
	swarm    *systems.SwarmController
	director *systems.IntensityDirector
	sensors  []*systems.Sensor
	phases   *systems.SystemRegistry

	// Player
	player      ecs.Entity
	playerInput *systems.PathInput

	// Every actor ever created, in creation order
	actors []ecs.Entity

	// State
	tick        int32
	desired     int
	lastPasses  int
	pursuing    int
	swarmOn     bool
	pendingCfgs []*config.Config

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
}

// NewGame builds a game from a parsed level.
func NewGame(opts Options) (*Game, error) {
	if opts.Level == nil {
		return nil, ErrNoLevel
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:   cfg,
		level: opts.Level,
		world: world,
		actorMapper: ecs.NewMap7[
			components.Position,
			components.Facing,
			components.Stats,
			components.Vitals,
			components.Actor,
			components.Brain,
			components.Motion,
		](world),
		posMap:    ecs.NewMap1[components.Position](world),
		facingMap: ecs.NewMap1[components.Facing](world),
		statsMap:  ecs.NewMap1[components.Stats](world),
		vitalsMap: ecs.NewMap1[components.Vitals](world),
		actorMap:  ecs.NewMap1[components.Actor](world),
		brainMap:  ecs.NewMap1[components.Brain](world),
		motionMap: ecs.NewMap1[components.Motion](world),
		phases:    systems.NewSystemRegistry(),
		swarmOn:   opts.Level.Swarm.Enabled,

		lifetimeTracker: telemetry.NewLifetimeTracker(),
		logStats:        opts.LogStats,
		snapshotDir:     opts.SnapshotDir,
	}

	if err := g.buildLevel(opts.Script); err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Sim.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	g.statsCallback = opts.StatsCallback

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("game: write config: %w", err)
	}

	// Swarmlings placed in the level start their lifetimes now.
	for i := 0; i < g.pool.Len(); i++ {
		if s := g.pool.Slot(i); s.Alive {
			g.lifetimeTracker.Register(s.Entity.ID(), 0, i)
		}
	}

	slog.Info("level loaded",
		"level", g.level.Name,
		"actors", g.registry.Len(),
		"nav_points", g.graph.Len(),
		"nav_edges", g.graph.EdgeCount(),
		"obstructions", g.space.Len(),
		"triggers", len(g.director.Triggers()),
		"sensors", len(g.sensors),
		"pool", g.pool.Len(),
		"swarm", g.swarmOn,
	)
	if cycles := g.graph.Cycles(); len(cycles) > 0 {
		slog.Info("nav graph has cycles", "level", g.level.Name, "cycles", len(cycles))
	}

	return g, nil
}

// Update runs a single tick. Pending config reloads are applied first.
func (g *Game) Update() {
	g.applyPendingConfig()
	g.simulationStep()
}

// QueueConfig schedules cfg to replace the running config before the next tick.
func (g *Game) QueueConfig(cfg *config.Config) {
	if cfg != nil {
		g.pendingCfgs = append(g.pendingCfgs, cfg)
	}
}

func (g *Game) applyPendingConfig() {
	if len(g.pendingCfgs) == 0 {
		return
	}
	cfg := g.pendingCfgs[len(g.pendingCfgs)-1]
	g.pendingCfgs = g.pendingCfgs[:0]
	g.ApplyConfig(cfg)
}

// ApplyConfig swaps in hot-reloadable parameters. Obstruction layers and the
// stats window keep their load-time values.
func (g *Game) ApplyConfig(cfg *config.Config) {
	g.cfg = cfg
	g.swarm.SetParams(cfg.Swarm)
	g.brains.SetParams(cfg.Brain)
	slog.Info("config applied", "tick", g.tick,
		"minimum_count", cfg.Swarm.MinimumCount,
		"count_multiplier", cfg.Swarm.CountMultiplier,
	)
}

// Unload flushes and closes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Intensity returns the current global intensity.
func (g *Game) Intensity() float64 {
	return g.director.Intensity()
}

// Desired returns the swarm population targeted on the last tick.
func (g *Game) Desired() int {
	return g.desired
}

// LiveSwarmlings returns the number of live pooled actors.
func (g *Game) LiveSwarmlings() int {
	return g.pool.LiveCount()
}

// Player returns the player entity.
func (g *Game) Player() ecs.Entity {
	return g.player
}

// PlayerPos returns the player position.
func (g *Game) PlayerPos() r2.Vec {
	return g.posMap.Get(g.player).Vec()
}

// PathDone reports whether the player finished a non-looping path.
func (g *Game) PathDone() bool {
	return g.playerInput.Done()
}

// Registry returns the live-actor registry.
func (g *Game) Registry() *systems.ActorRegistry {
	return g.registry
}

// Graph returns the nav graph.
func (g *Game) Graph() *systems.NavGraph {
	return g.graph
}

// Pool returns the swarmling pool.
func (g *Game) Pool() *systems.SwarmPool {
	return g.pool
}

// Config returns the running config.
func (g *Game) Config() *config.Config {
	return g.cfg
}
