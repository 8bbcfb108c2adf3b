package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the level state at one tick for later inspection.
type Snapshot struct {
	Version int    `json:"version"`
	Level   string `json:"level"`

	Tick      int32   `json:"tick"`
	Intensity float64 `json:"intensity"`
	Desired   int     `json:"desired"`

	PlayerX float64 `json:"player_x"`
	PlayerY float64 `json:"player_y"`

	NavNodes []NavNodeState `json:"nav_nodes"`
	Actors   []ActorState   `json:"actors"`
	Triggers []TriggerState `json:"triggers,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// NavNodeState holds one nav point's relaxed state.
type NavNodeState struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Swarm bool    `json:"swarm,omitempty"`
	State string  `json:"state"`
}

// ActorState holds one actor's state.
type ActorState struct {
	ID      uint32  `json:"id"`
	Name    string  `json:"name"`
	Faction string  `json:"faction"`
	Swarm   bool    `json:"swarm,omitempty"`
	Slot    int     `json:"slot"`
	Alive   bool    `json:"alive"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Right   bool    `json:"facing_right"`

	Target  uint32 `json:"target,omitempty"`
	NavNode int    `json:"nav_node"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// TriggerState holds one intensity trigger's progress.
type TriggerState struct {
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Destroyed bool   `json:"destroyed"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	SpawnTick       int32   `json:"spawn_tick"`
	Slot            int     `json:"slot"`
	SurvivalTimeSec float64 `json:"survival_time_sec"`
	TargetsAcquired int     `json:"targets_acquired"`
	NavMisses       int     `json:"nav_misses"`
	Respawns        int     `json:"respawns"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		SpawnTick:       ls.SpawnTick,
		Slot:            ls.Slot,
		SurvivalTimeSec: ls.SurvivalTimeSec,
		TargetsAcquired: ls.TargetsAcquired,
		NavMisses:       ls.NavMisses,
		Respawns:        ls.Respawns,
	}
}

// FromJSON converts the JSON form back to LifetimeStats.
func (lsj *LifetimeStatsJSON) FromJSON() *LifetimeStats {
	if lsj == nil {
		return nil
	}
	return &LifetimeStats{
		SpawnTick:       lsj.SpawnTick,
		Slot:            lsj.Slot,
		SurvivalTimeSec: lsj.SurvivalTimeSec,
		TargetsAcquired: lsj.TargetsAcquired,
		NavMisses:       lsj.NavMisses,
		Respawns:        lsj.Respawns,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
