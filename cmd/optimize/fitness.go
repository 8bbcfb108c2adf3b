package main

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/invasion/config"
	"github.com/pthm-cable/invasion/game"
	"github.com/pthm-cable/invasion/levels"
	"github.com/pthm-cable/invasion/systems"
	"github.com/pthm-cable/invasion/telemetry"
)

// Scenario is one run per evaluation: a level, optionally with its
// intensity pinned by a script.
type Scenario struct {
	Name   string
	Level  string
	Script string // tengo source, empty uses the level's own triggers
}

// FixedIntensity returns a scenario that holds intensity at v.
func FixedIntensity(level string, v float64) Scenario {
	return Scenario{
		Name:   fmt.Sprintf("%s@%.2f", level, v),
		Level:  level,
		Script: fmt.Sprintf("intensity = %g", v),
	}
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	scenarios   []Scenario
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, scenarios []Scenario, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		scenarios:   scenarios,
		baseConfig:  baseCfg,
		statsWindow: 1.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	ticks       int32
	pathDone    bool
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Scenarios run in parallel; a scenario that fails to build scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]*runResult, len(fe.scenarios))
	var eg errgroup.Group
	for i, sc := range fe.scenarios {
		eg.Go(func() error {
			r, err := fe.runSimulation(cfg.Clone(), sc)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		fmt.Printf("evaluation failed: %v\n", err)
		return math.Inf(1)
	}

	var totalFitness, totalQuality float64
	for _, r := range results {
		q := computeQuality(r.windowStats)
		totalFitness += computeFitness(r, q)
		totalQuality += q
	}

	n := float64(len(results))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until the player path ends
// or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, sc Scenario) (*runResult, error) {
	lvl, err := levels.LoadLevel(sc.Level)
	if err != nil {
		return nil, err
	}

	var script *systems.IntensityScript
	if sc.Script != "" {
		if script, err = systems.NewIntensityScript(sc.Name, []byte(sc.Script)); err != nil {
			return nil, err
		}
	}

	result := &runResult{}
	g, err := game.NewGame(game.Options{
		Level:          lvl,
		Config:         cfg,
		Script:         script,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.Update()
		if g.PathDone() {
			result.pathDone = true
			break
		}
	}
	result.ticks = g.Tick()
	return result, nil
}

// Quality component weights.
const (
	qualityWeightTracking   = 0.45
	qualityWeightStarvation = 0.25
	qualityWeightChurn      = 0.15
	qualityWeightPursuit    = 0.15

	qualityWarmupWindows = 2 // skip first N windows while the pool fills
)

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(quality) plus a penalty when the player never reached the
// end of the path, which means swarmlings blocked progress entirely.
func computeFitness(r *runResult, quality float64) float64 {
	fitness := -quality
	if !r.pathDone {
		fitness += 0.5
	}
	return fitness
}

// computeQuality computes swarm quality in [0, 1] from window stats.
//
// Tracking rewards a live population close to the desired count. Starvation
// penalizes windows short of desired that spawned nothing, meaning no nav
// point qualified. Churn penalizes kills and culls relative to the desired
// count. Pursuit rewards swarmlings actually chasing a target.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	tracking := make([]float64, 0, len(valid))
	churn := make([]float64, 0, len(valid))
	pursuit := make([]float64, 0, len(valid))
	starved := 0

	for _, w := range valid {
		desired := math.Max(float64(w.Desired), 1)
		relErr := math.Abs(w.LiveMean-float64(w.Desired)) / desired
		tracking = append(tracking, math.Exp(-relErr*relErr/0.1))

		churn = append(churn, float64(w.Kills+w.Culls)/desired)

		if w.LiveMean > 0 {
			pursuit = append(pursuit, clamp01(w.PursuingMean/w.LiveMean))
		} else {
			pursuit = append(pursuit, 0)
		}

		if w.Live < w.Desired && w.Spawns == 0 {
			starved++
		}
	}

	trackingScore := stat.Mean(tracking, nil)
	starvationScore := 1 - float64(starved)/float64(len(valid))
	churnScore := math.Exp(-stat.Mean(churn, nil))
	pursuitScore := stat.Mean(pursuit, nil)

	quality := qualityWeightTracking*trackingScore +
		qualityWeightStarvation*starvationScore +
		qualityWeightChurn*churnScore +
		qualityWeightPursuit*pursuitScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
