package systems

import "github.com/pthm-cable/invasion/telemetry"

// SystemInfo describes a simulation system.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "ai")
}

// SystemRegistry holds metadata about all systems.
// This keeps phase naming in one place for perf logs and CSV columns.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems in tick order.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: telemetry.PhaseIntensity, Name: "Intensity", Description: "Runs intensity triggers and script", Category: "director"})
	r.Register(SystemInfo{ID: telemetry.PhaseSensors, Name: "Sensors", Description: "Sends region signals", Category: "director"})

	r.Register(SystemInfo{ID: telemetry.PhaseNavGraph, Name: "Nav Graph", Description: "Relaxes good-path flags toward the player", Category: "ai"})
	r.Register(SystemInfo{ID: telemetry.PhaseBrains, Name: "Brains", Description: "Selects targets and nav points", Category: "ai"})

	r.Register(SystemInfo{ID: telemetry.PhaseMovement, Name: "Movement", Description: "Integrates move intents", Category: "core"})
	r.Register(SystemInfo{ID: telemetry.PhaseSwarm, Name: "Swarm", Description: "Spawns, kills and culls swarmlings", Category: "core"})

	r.Register(SystemInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Collects window stats", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	if _, ok := r.byID[info.ID]; !ok {
		r.systems = append(r.systems, info)
	}
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
