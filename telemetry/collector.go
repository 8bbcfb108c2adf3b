package telemetry

import "math"

// TickSample is the per-tick state sampled by the collector.
type TickSample struct {
	Intensity   float64
	Live        int
	Pursuing    int
	RelaxPasses int
}

// LevelState is the level state sampled at window end.
type LevelState struct {
	Intensity      float64
	ActiveTriggers int
	Desired        int
	Live           int
	PoolSize       int
	Registered     int
	GoodNodes      int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns          int
	reuses          int
	growths         int
	kills           int
	culls           int
	deaths          int
	targetsAcquired int
	navMisses       int

	// Per-tick samples for current window
	intensity []float64
	live      []float64
	pursuing  []float64
	passes    []float64
	maxPasses int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts a single event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		c.spawns++
		if ev.Reused {
			c.reuses++
		} else {
			c.growths++
		}
	case EventKill:
		c.kills++
	case EventCull:
		c.culls++
	case EventDeath:
		c.deaths++
	case EventTargetAcquired:
		c.targetsAcquired++
	case EventNavMiss:
		c.navMisses++
	}
}

// RecordTick adds one tick's sample to the window.
func (c *Collector) RecordTick(s TickSample) {
	c.intensity = append(c.intensity, s.Intensity)
	c.live = append(c.live, float64(s.Live))
	c.pursuing = append(c.pursuing, float64(s.Pursuing))
	c.passes = append(c.passes, float64(s.RelaxPasses))
	if s.RelaxPasses > c.maxPasses {
		c.maxPasses = s.RelaxPasses
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, state LevelState) WindowStats {
	liveMean, liveP10, liveP50, liveP90 := ComputeSampleStats(c.live)
	intensityMean, _, _, _ := ComputeSampleStats(c.intensity)
	pursuingMean, _, _, _ := ComputeSampleStats(c.pursuing)
	passesMean, _, _, _ := ComputeSampleStats(c.passes)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Intensity:      state.Intensity,
		IntensityMean:  intensityMean,
		ActiveTriggers: state.ActiveTriggers,

		Desired:    state.Desired,
		Live:       state.Live,
		PoolSize:   state.PoolSize,
		Registered: state.Registered,

		LiveMean: liveMean,
		LiveP10:  liveP10,
		LiveP50:  liveP50,
		LiveP90:  liveP90,

		Spawns:  c.spawns,
		Reuses:  c.reuses,
		Growths: c.growths,
		Kills:   c.kills,
		Culls:   c.culls,
		Deaths:  c.deaths,

		TargetsAcquired: c.targetsAcquired,
		NavMisses:       c.navMisses,
		PursuingMean:    pursuingMean,

		GoodNodes:       state.GoodNodes,
		RelaxPassesMean: passesMean,
		RelaxPassesMax:  c.maxPasses,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.reuses = 0
	c.growths = 0
	c.kills = 0
	c.culls = 0
	c.deaths = 0
	c.targetsAcquired = 0
	c.navMisses = 0
	c.intensity = c.intensity[:0]
	c.live = c.live[:0]
	c.pursuing = c.pursuing[:0]
	c.passes = c.passes[:0]
	c.maxPasses = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
