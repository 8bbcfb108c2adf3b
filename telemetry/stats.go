package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Director state at window end
	Intensity      float64 `csv:"intensity"`
	IntensityMean  float64 `csv:"intensity_mean"`
	ActiveTriggers int     `csv:"active_triggers"`

	// Population at window end
	Desired    int `csv:"desired"`
	Live       int `csv:"live"`
	PoolSize   int `csv:"pool_size"`
	Registered int `csv:"registered"`

	// Live count distribution over the window
	LiveMean float64 `csv:"live_mean"`
	LiveP10  float64 `csv:"live_p10"`
	LiveP50  float64 `csv:"live_p50"`
	LiveP90  float64 `csv:"live_p90"`

	// Swarm events during window
	Spawns  int `csv:"spawns"`
	Reuses  int `csv:"reuses"`
	Growths int `csv:"growths"`
	Kills   int `csv:"kills"`
	Culls   int `csv:"culls"`
	Deaths  int `csv:"deaths"`

	// Brains
	TargetsAcquired int     `csv:"targets_acquired"`
	NavMisses       int     `csv:"nav_misses"`
	PursuingMean    float64 `csv:"pursuing_mean"` // actors chasing a visible target per tick

	// Nav graph
	GoodNodes       int     `csv:"good_nodes"`
	RelaxPassesMean float64 `csv:"relax_passes_mean"`
	RelaxPassesMax  int     `csv:"relax_passes_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSampleStats calculates mean and percentiles of per-tick samples.
func ComputeSampleStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("intensity", s.Intensity),
		slog.Int("desired", s.Desired),
		slog.Int("live", s.Live),
		slog.Int("pool_size", s.PoolSize),
		slog.Float64("live_mean", s.LiveMean),
		slog.Int("spawns", s.Spawns),
		slog.Int("kills", s.Kills),
		slog.Int("culls", s.Culls),
		slog.Int("deaths", s.Deaths),
		slog.Int("targets_acquired", s.TargetsAcquired),
		slog.Int("nav_misses", s.NavMisses),
		slog.Int("good_nodes", s.GoodNodes),
		slog.Float64("relax_passes_mean", s.RelaxPassesMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"intensity", s.Intensity,
		"intensity_mean", s.IntensityMean,
		"active_triggers", s.ActiveTriggers,
		"desired", s.Desired,
		"live", s.Live,
		"pool_size", s.PoolSize,
		"registered", s.Registered,
		"live_mean", s.LiveMean,
		"live_p10", s.LiveP10,
		"live_p50", s.LiveP50,
		"live_p90", s.LiveP90,
		"spawns", s.Spawns,
		"reuses", s.Reuses,
		"growths", s.Growths,
		"kills", s.Kills,
		"culls", s.Culls,
		"deaths", s.Deaths,
		"targets_acquired", s.TargetsAcquired,
		"nav_misses", s.NavMisses,
		"pursuing_mean", s.PursuingMean,
		"good_nodes", s.GoodNodes,
		"relax_passes_mean", s.RelaxPassesMean,
		"relax_passes_max", s.RelaxPassesMax,
	)
}
