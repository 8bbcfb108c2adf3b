package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		Level:     "corridor",
		Tick:      1000,
		Intensity: 0.6,
		Desired:   9,
		PlayerX:   2,
		PlayerY:   14,
		NavNodes: []NavNodeState{
			{Name: "shaft_low", X: 0, Y: 0, State: "relayed"},
			{Name: "shaft_high", X: 0, Y: 10, Swarm: true, State: "direct"},
		},
		Actors: []ActorState{
			{
				ID:      5,
				Name:    "swarmling",
				Faction: "alien",
				Swarm:   true,
				Slot:    2,
				Alive:   true,
				X:       1,
				Y:       3,
				Right:   true,
				NavNode: 1,
				Lifetime: (&LifetimeStats{
					SpawnTick:       400,
					Slot:            2,
					SurvivalTimeSec: 10,
					NavMisses:       1,
				}).ToJSON(),
			},
		},
		Triggers: []TriggerState{{Name: "lobby", Active: true}},
		Bookmark: &Bookmark{
			Type:        BookmarkSwarmSurge,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Tick != snapshot.Tick || loaded.Level != snapshot.Level {
		t.Errorf("header mismatch: got %d/%s, want %d/%s", loaded.Tick, loaded.Level, snapshot.Tick, snapshot.Level)
	}
	if len(loaded.NavNodes) != 2 || loaded.NavNodes[1].State != "direct" {
		t.Errorf("nav nodes not restored: %+v", loaded.NavNodes)
	}
	if len(loaded.Actors) != 1 {
		t.Fatalf("Actors count = %d, want 1", len(loaded.Actors))
	}
	life := loaded.Actors[0].Lifetime.FromJSON()
	if life == nil || life.SpawnTick != 400 || life.NavMisses != 1 {
		t.Errorf("lifetime not restored: %+v", life)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkSwarmSurge {
		t.Errorf("Bookmark not restored: %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkSpawnStarved,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_5000_spawn_starved.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 0, "tick": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version mismatch error")
	}
}
