package telemetry

// LifetimeStats tracks per-swarmling statistics over one activation.
type LifetimeStats struct {
	SpawnTick       int32
	Slot            int
	SurvivalTimeSec float64

	TargetsAcquired int
	NavMisses       int
	Respawns        int // activations of this pool slot before this one
}

// LifetimeTracker manages per-entity lifetime statistics.
type LifetimeTracker struct {
	stats    map[uint32]*LifetimeStats
	respawns map[int]int
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats:    make(map[uint32]*LifetimeStats),
		respawns: make(map[int]int),
	}
}

// Register starts a lifetime for an activated swarmling in the given pool slot.
func (lt *LifetimeTracker) Register(entityID uint32, spawnTick int32, slot int) {
	lt.stats[entityID] = &LifetimeStats{
		SpawnTick: spawnTick,
		Slot:      slot,
		Respawns:  lt.respawns[slot],
	}
	lt.respawns[slot]++
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove ends an entity's lifetime and returns its final stats.
func (lt *LifetimeTracker) Remove(entityID uint32, currentTick int32, dt float64) *LifetimeStats {
	s := lt.stats[entityID]
	if s == nil {
		return nil
	}
	s.SurvivalTimeSec = float64(currentTick-s.SpawnTick) * dt
	delete(lt.stats, entityID)
	return s
}

// RecordTargetAcquired increments the target count.
func (lt *LifetimeTracker) RecordTargetAcquired(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.TargetsAcquired++
	}
}

// RecordNavMiss increments the nav miss count.
func (lt *LifetimeTracker) RecordNavMiss(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.NavMisses++
	}
}

// UpdateSurvivalTime updates the survival time based on current tick.
func (lt *LifetimeTracker) UpdateSurvivalTime(entityID uint32, currentTick int32, dt float64) {
	if s := lt.stats[entityID]; s != nil {
		s.SurvivalTimeSec = float64(currentTick-s.SpawnTick) * dt
	}
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
