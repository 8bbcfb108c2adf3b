package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsAfterWritesSettle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("swarm:\n  minimum_count: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config) { reloads <- cfg })
	}()
	// Let the watcher register the directory.
	time.Sleep(100 * time.Millisecond)

	// Truncate and then write, as editors do for one save.
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := os.WriteFile(path, []byte("swarm:\n  minimum_count: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloads:
		if cfg.Swarm.MinimumCount != 9 {
			t.Errorf("reloaded minimum_count = %v, want 9", cfg.Swarm.MinimumCount)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after write")
	}

	select {
	case cfg := <-reloads:
		t.Errorf("extra reload with minimum_count %v", cfg.Swarm.MinimumCount)
	case <-time.After(3 * reloadDebounce):
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

func TestReloadSkipsEmptyAndInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{"empty", "", false},
		{"invalid yaml", "swarm: [", false},
		{"valid", "swarm:\n  minimum_count: 2\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, ok := reload(path)
			if ok != tt.ok {
				t.Fatalf("reload ok = %v, want %v", ok, tt.ok)
			}
			if ok && cfg.Swarm.MinimumCount != 2 {
				t.Errorf("minimum_count = %v, want 2", cfg.Swarm.MinimumCount)
			}
		})
	}

	if _, ok := reload(filepath.Join(dir, "missing.yaml")); ok {
		t.Error("reload of a missing file should fail")
	}
}

func TestWatchEmptyPath(t *testing.T) {
	if err := Watch(context.Background(), "", nil); err != nil {
		t.Errorf("Watch(\"\") = %v, want nil", err)
	}
}
