package game

import (
	"log/slog"

	"github.com/pthm-cable/invasion/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.levelState())
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Save snapshot on bookmark
		g.saveSnapshot(&bm)
	}
}

// levelState samples the values reported at window end.
func (g *Game) levelState() telemetry.LevelState {
	good := 0
	for i := 0; i < g.graph.Len(); i++ {
		if g.graph.Node(i).IsGoodPath() {
			good++
		}
	}
	return telemetry.LevelState{
		Intensity:      g.director.Intensity(),
		ActiveTriggers: g.director.ActiveTriggers(),
		Desired:        g.desired,
		Live:           g.pool.LiveCount(),
		PoolSize:       g.pool.Len(),
		Registered:     g.registry.Len(),
		GoodNodes:      good,
	}
}

// saveSnapshot writes a snapshot to the snapshot dir, or to the output dir
// when no snapshot dir is set. Does nothing when neither is configured.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	if g.snapshotDir == "" && g.outputManager.Dir() == "" {
		return
	}
	snapshot := g.CreateSnapshot(bookmark)

	var path string
	var err error
	if g.snapshotDir != "" {
		path, err = telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	} else {
		path, err = g.outputManager.WriteSnapshot(snapshot)
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// CreateSnapshot builds a snapshot from the current state.
func (g *Game) CreateSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	player := g.PlayerPos()
	snapshot := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Level:     g.level.Name,
		Tick:      g.tick,
		Intensity: g.director.Intensity(),
		Desired:   g.desired,
		PlayerX:   player.X,
		PlayerY:   player.Y,
		Bookmark:  bookmark,
	}

	for i := 0; i < g.graph.Len(); i++ {
		n := g.graph.Node(i)
		snapshot.NavNodes = append(snapshot.NavNodes, telemetry.NavNodeState{
			Name:  n.Name,
			X:     n.Pos.X,
			Y:     n.Pos.Y,
			Swarm: n.Swarm,
			State: n.State.String(),
		})
	}

	for _, e := range g.actors {
		pos := g.posMap.Get(e)
		actor := g.actorMap.Get(e)
		brain := g.brainMap.Get(e)

		state := telemetry.ActorState{
			ID:      e.ID(),
			Name:    actor.Name,
			Faction: g.statsMap.Get(e).Faction.String(),
			Swarm:   actor.Swarm,
			Slot:    actor.Slot,
			Alive:   g.registry.IsLive(e),
			X:       pos.X,
			Y:       pos.Y,
			Right:   g.facingMap.Get(e).Right,
			NavNode: brain.NavNode,
		}
		if brain.HasTarget {
			state.Target = brain.Target.ID()
		}
		if ls := g.lifetimeTracker.Get(e.ID()); ls != nil {
			g.lifetimeTracker.UpdateSurvivalTime(e.ID(), g.tick, g.cfg.Sim.DT)
			state.Lifetime = ls.ToJSON()
		}
		snapshot.Actors = append(snapshot.Actors, state)
	}

	for _, t := range g.director.Triggers() {
		snapshot.Triggers = append(snapshot.Triggers, telemetry.TriggerState{
			Name:      t.Name,
			Active:    t.Active(),
			Destroyed: t.Destroyed(),
		})
	}

	return snapshot
}
