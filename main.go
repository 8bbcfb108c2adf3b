package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/invasion/config"
	"github.com/pthm-cable/invasion/game"
	"github.com/pthm-cable/invasion/levels"
	"github.com/pthm-cable/invasion/systems"
)

type options struct {
	configPath  string
	level       string
	script      string
	logStats    bool
	statsWindow float64
	snapshotDir string
	outputDir   string
	maxTicks    int
	watch       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.StringVar(&opts.level, "level", "shaft", "Level name or path to a level YAML file")
	flag.StringVar(&opts.script, "script", "", "Intensity script (.tengo) overriding the level script")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output stats via slog")
	flag.Float64Var(&opts.statsWindow, "stats-window", 0, "Stats window size in seconds (0 = use config)")
	flag.StringVar(&opts.snapshotDir, "snapshot-dir", "", "Directory for snapshot files")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.IntVar(&opts.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = run until the player path ends)")
	flag.BoolVar(&opts.watch, "watch", false, "Reload -config when the file changes")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	lvl, err := levels.LoadLevel(opts.level)
	if err != nil {
		return err
	}

	var script *systems.IntensityScript
	if opts.script != "" {
		if script, err = systems.LoadIntensityScript(opts.script); err != nil {
			return fmt.Errorf("loading script: %w", err)
		}
	}

	g, err := game.NewGame(game.Options{
		Level:          lvl,
		Config:         cfg,
		Script:         script,
		LogStats:       opts.logStats,
		StatsWindowSec: opts.statsWindow,
		SnapshotDir:    opts.snapshotDir,
		OutputDir:      opts.outputDir,
	})
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting simulation",
		"level", lvl.Name,
		"max_ticks", opts.maxTicks,
		"watch", opts.watch && opts.configPath != "",
	)

	ctx, stop := context.WithCancel(ctx)
	reloads := make(chan *config.Config, 1)
	eg, ectx := errgroup.WithContext(ctx)

	if opts.watch {
		eg.Go(func() error {
			return config.Watch(ectx, opts.configPath, func(next *config.Config) {
				select {
				case reloads <- next:
				case <-ectx.Done():
				}
			})
		})
	}

	eg.Go(func() error {
		defer stop()
		for {
			select {
			case <-ectx.Done():
				slog.Info("simulation interrupted", "tick", g.Tick())
				return nil
			case next := <-reloads:
				config.Set(next)
				g.QueueConfig(next)
			default:
			}

			g.Update()

			if opts.maxTicks > 0 && int(g.Tick()) >= opts.maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return nil
			}
			if g.PathDone() {
				slog.Info("player path finished", "tick", g.Tick())
				return nil
			}
		}
	})

	return eg.Wait()
}
