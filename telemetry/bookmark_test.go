package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_SwarmSurge(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 60), Spawns: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, Spawns: 6})
	if !hasBookmark(bookmarks, BookmarkSwarmSurge) {
		t.Error("expected swarm_surge bookmark")
	}
}

func TestBookmarkDetector_PlayerSpotted(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		if got := bd.Check(WindowStats{WindowEndTick: int32(i * 60)}); hasBookmark(got, BookmarkPlayerSpotted) {
			t.Fatalf("window %d: unexpected player_spotted", i)
		}
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 180, TargetsAcquired: 2}), BookmarkPlayerSpotted) {
		t.Error("expected player_spotted after quiet history")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 240, TargetsAcquired: 1}), BookmarkPlayerSpotted) {
		t.Error("player_spotted should not repeat while targets are recent")
	}
}

func TestBookmarkDetector_SpawnStarvedFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 6; i++ {
		got := bd.Check(WindowStats{WindowEndTick: int32(i * 60), Desired: 5, Live: 2})
		if hasBookmark(got, BookmarkSpawnStarved) {
			fired++
			if i != 2 {
				t.Errorf("spawn_starved fired at window %d, want 2", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("spawn_starved fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_IntensityPeak(t *testing.T) {
	bd := NewBookmarkDetector(10)

	steps := []struct {
		intensity float64
		want      bool
	}{
		{0.5, false},
		{0.8, true},
		{0.8, false},
		{0.7, false},
		{0.9, true},
	}
	for i, s := range steps {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i * 60), Intensity: s.intensity}), BookmarkIntensityPeak)
		if got != s.want {
			t.Errorf("window %d intensity %v: peak = %v, want %v", i, s.intensity, got, s.want)
		}
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 8; i++ {
		got := bd.Check(WindowStats{WindowEndTick: int32(i * 60), Desired: 4, Live: 4})
		if hasBookmark(got, BookmarkStablePopulation) {
			fired++
			if i != 4 {
				t.Errorf("stable_population fired at window %d, want 4", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stable_population fired %d times, want 1", fired)
	}
}
