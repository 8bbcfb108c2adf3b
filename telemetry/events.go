// Package telemetry provides swarm population tracking, bookmarking, and snapshots.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventKill
	EventCull
	EventDeath
	EventTargetAcquired
	EventNavMiss
)

var eventNames = [...]string{"spawn", "kill", "cull", "death", "target_acquired", "nav_miss"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32

	// Optional fields depending on event type
	Slot   int  // pool slot for spawn/kill/cull, -1 otherwise
	Reused bool // spawn reused a dead slot instead of growing the pool
}

// NewSpawnEvent creates a swarmling spawn event.
func NewSpawnEvent(tick int32, entityID uint32, slot int, reused bool) Event {
	return Event{Type: EventSpawn, Tick: tick, EntityID: entityID, Slot: slot, Reused: reused}
}

// NewKillEvent creates an event for a swarmling removed to lower the population.
func NewKillEvent(tick int32, entityID uint32, slot int) Event {
	return Event{Type: EventKill, Tick: tick, EntityID: entityID, Slot: slot}
}

// NewCullEvent creates an event for a swarmling left behind by the player.
func NewCullEvent(tick int32, entityID uint32, slot int) Event {
	return Event{Type: EventCull, Tick: tick, EntityID: entityID, Slot: slot}
}

// NewDeathEvent creates an event for an actor killed outside the swarm controller.
func NewDeathEvent(tick int32, entityID uint32) Event {
	return Event{Type: EventDeath, Tick: tick, EntityID: entityID, Slot: -1}
}

// NewTargetAcquiredEvent creates an event for a brain selecting a new target.
func NewTargetAcquiredEvent(tick int32, entityID uint32) Event {
	return Event{Type: EventTargetAcquired, Tick: tick, EntityID: entityID, Slot: -1}
}

// NewNavMissEvent creates an event for a brain that found no reachable nav node.
func NewNavMissEvent(tick int32, entityID uint32) Event {
	return Event{Type: EventNavMiss, Tick: tick, EntityID: entityID, Slot: -1}
}
