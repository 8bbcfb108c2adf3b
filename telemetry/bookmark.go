package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSwarmSurge       BookmarkType = "swarm_surge"
	BookmarkSpawnStarved     BookmarkType = "spawn_starved"
	BookmarkIntensityPeak    BookmarkType = "intensity_peak"
	BookmarkPlayerSpotted    BookmarkType = "player_spotted"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	starvedWindows     int     // consecutive windows below desired with growth stalled
	peakIntensity      float64 // highest intensity already bookmarked
	stableWindowsCount int     // consecutive windows with live == desired
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Swarm surge: window spawns > 2x rolling average
		if b := bd.checkSwarmSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Player spotted: first targets after quiet history
		if b := bd.checkPlayerSpotted(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Spawn starved: population under target and no spawns for 3 windows
	if b := bd.checkSpawnStarved(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Intensity peak: new high above 0.75
	if b := bd.checkIntensityPeak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Stable population: live matched desired for 5 windows
	if b := bd.checkStablePopulation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSwarmSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Spawns
	}
	avg := float64(total) / float64(len(history))

	if stats.Spawns >= 3 && float64(stats.Spawns) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkSwarmSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d spawns is %.1fx average (%.2f)", stats.Spawns, float64(stats.Spawns)/max(avg, 1e-9), avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPlayerSpotted(stats WindowStats) *Bookmark {
	if stats.TargetsAcquired == 0 {
		return nil
	}
	for _, h := range bd.getHistory() {
		if h.TargetsAcquired > 0 {
			return nil
		}
	}
	return &Bookmark{
		Type:        BookmarkPlayerSpotted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d targets acquired after a quiet stretch", stats.TargetsAcquired),
	}
}

func (bd *BookmarkDetector) checkSpawnStarved(stats WindowStats) *Bookmark {
	if stats.Live >= stats.Desired || stats.Spawns > 0 {
		bd.starvedWindows = 0
		return nil
	}

	bd.starvedWindows++
	if bd.starvedWindows == 3 { // trigger exactly once per starved stretch
		return &Bookmark{
			Type:        BookmarkSpawnStarved,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No spawn node for 3 windows with %d of %d live", stats.Live, stats.Desired),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkIntensityPeak(stats WindowStats) *Bookmark {
	if stats.Intensity < 0.75 || stats.Intensity <= bd.peakIntensity {
		return nil
	}
	bd.peakIntensity = stats.Intensity
	return &Bookmark{
		Type:        BookmarkIntensityPeak,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Intensity reached %.2f with %d live", stats.Intensity, stats.Live),
	}
}

func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Desired == 0 || stats.Live != stats.Desired || stats.Spawns > 0 || stats.Kills > 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	bd.stableWindowsCount++
	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Swarm held at %d over 5 windows", stats.Live),
		}
	}

	return nil
}
