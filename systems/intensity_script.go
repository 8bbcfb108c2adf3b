package systems

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"gonum.org/v1/gonum/spatial/r2"
)

// ScriptInputs are the globals an intensity script can read.
type ScriptInputs struct {
	Tick      int32
	Elapsed   float64 // seconds since level start
	Player    r2.Vec
	Intensity float64
}

// IntensityScript is a compiled tengo program that rewrites the global
// `intensity` once per tick. Scripts read tick, elapsed, player_x and
// player_y, and may import the tengo stdlib.
type IntensityScript struct {
	name     string
	compiled *tengo.Compiled
}

// LoadIntensityScript compiles the script file at path.
func LoadIntensityScript(path string) (*IntensityScript, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intensity script: %w", err)
	}
	return NewIntensityScript(filepath.Base(path), src)
}

// NewIntensityScript compiles src.
func NewIntensityScript(name string, src []byte) (*IntensityScript, error) {
	script := tengo.NewScript(src)
	globals := []struct {
		name  string
		value any
	}{
		{"tick", 0},
		{"elapsed", 0.0},
		{"player_x", 0.0},
		{"player_y", 0.0},
		{"intensity", 0.0},
	}
	for _, g := range globals {
		if err := script.Add(g.name, g.value); err != nil {
			return nil, fmt.Errorf("compiling intensity script %s: add %s: %w", name, g.name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling intensity script %s: %w", name, err)
	}
	return &IntensityScript{name: name, compiled: compiled}, nil
}

// Name returns the script name used in logs.
func (s *IntensityScript) Name() string { return s.name }

// Eval runs the script once and returns the value left in `intensity`.
// The result is not clamped. On any failure, including a runtime panic in
// the VM or a non-numeric result, the input intensity is returned with the
// error.
func (s *IntensityScript) Eval(in ScriptInputs) (v float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = in.Intensity, fmt.Errorf("running intensity script %s: %v", s.name, r)
		}
	}()

	vars := []struct {
		name  string
		value any
	}{
		{"tick", int(in.Tick)},
		{"elapsed", in.Elapsed},
		{"player_x", in.Player.X},
		{"player_y", in.Player.Y},
		{"intensity", in.Intensity},
	}
	for _, g := range vars {
		if err := s.compiled.Set(g.name, g.value); err != nil {
			return in.Intensity, fmt.Errorf("setting %s: %w", g.name, err)
		}
	}
	if err := s.compiled.Run(); err != nil {
		return in.Intensity, fmt.Errorf("running intensity script %s: %w", s.name, err)
	}
	out := s.compiled.Get("intensity")
	switch o := out.Object().(type) {
	case *tengo.Int:
		return float64(o.Value), nil
	case *tengo.Float:
		return o.Value, nil
	}
	return in.Intensity, fmt.Errorf("intensity script %s: intensity is %s, want int or float", s.name, out.ValueType())
}
