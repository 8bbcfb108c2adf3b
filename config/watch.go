package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is how long the file must stay quiet before it is reloaded.
// Editors often emit a truncate and one or more writes for one save.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads the config file at path once writes to it settle and passes
// the result to onReload. It blocks until ctx is cancelled. Parse failures
// are logged and skipped, as are empty files, so a half-written file never
// replaces a good config.
func Watch(ctx context.Context, path string, onReload func(*Config)) error {
	if path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	// Stopped until the first event; every event pushes the reload back.
	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			if cfg, ok := reload(path); ok {
				onReload(cfg)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}

// reload loads path, refusing empty or unparsable files.
func reload(path string) (*Config, bool) {
	info, err := os.Stat(path)
	if err != nil {
		slog.Warn("config reload failed", "path", path, "error", err)
		return nil, false
	}
	if info.Size() == 0 {
		slog.Warn("config reload skipped: empty file", "path", path)
		return nil, false
	}
	cfg, err := Load(path)
	if err != nil {
		slog.Warn("config reload failed", "path", path, "error", err)
		return nil, false
	}
	slog.Info("config reloaded", "path", path)
	return cfg, true
}
