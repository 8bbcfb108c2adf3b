package systems

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestIntensityScriptEval(t *testing.T) {
	src := []byte(`
intensity = elapsed / 10.0 + player_y * 0.0
if intensity > 1.0 {
	intensity = 1.0
}
if tick > 100 {
	intensity = 2.0
}
`)
	s, err := NewIntensityScript("ramp", src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	tests := []struct {
		name string
		in   ScriptInputs
		want float64
	}{
		{"start", ScriptInputs{Tick: 0, Elapsed: 0}, 0},
		{"half way", ScriptInputs{Tick: 30, Elapsed: 5, Player: r2.Vec{Y: 3}}, 0.5},
		{"late", ScriptInputs{Tick: 101, Elapsed: 20}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Eval(tt.in)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntensityScriptKeepsInputWhenUntouched(t *testing.T) {
	s, err := NewIntensityScript("noop", []byte(`x := tick + 1`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Eval(ScriptInputs{Tick: 3, Intensity: 0.4})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.4 {
		t.Errorf("Eval = %v, want input intensity 0.4", got)
	}
}

func TestIntensityScriptCompileError(t *testing.T) {
	if _, err := NewIntensityScript("bad", []byte(`intensity = (`)); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestDirectorKeepsValueOnScriptError(t *testing.T) {
	s, err := NewIntensityScript("boom", []byte(`
if tick > 0 {
	intensity = 1 / (tick - tick)
} else {
	intensity = 0.7
}
`))
	if err != nil {
		t.Fatal(err)
	}
	d := NewIntensityDirector(0, nil)
	d.SetScript(s)

	if got := d.Update(0, 0.1, r2.Vec{}); got != 0.7 {
		t.Fatalf("tick 0 intensity = %v, want 0.7", got)
	}
	if got := d.Update(1, 0.1, r2.Vec{}); got != 0.7 {
		t.Errorf("failing script replaced intensity with %v", got)
	}
}

func TestIntensityScriptErrorsKeepInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"divide by zero", `intensity = 1 / (tick - tick)`},
		{"string result", `intensity = "high"`},
		{"undefined result", `intensity = undefined`},
		{"runtime error", `intensity = [1, 2][5] + 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewIntensityScript(tt.name, []byte(tt.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := s.Eval(ScriptInputs{Tick: 3, Intensity: 0.4})
			if err == nil {
				t.Fatalf("Eval = %v, want an error", got)
			}
			if got != 0.4 {
				t.Errorf("Eval = %v, want input intensity 0.4", got)
			}

			// The script stays usable after a failure.
			if _, err := s.Eval(ScriptInputs{Tick: 4, Intensity: 0.4}); err == nil {
				t.Error("second Eval should fail the same way")
			}
		})
	}
}

func TestIntensityScriptIntResult(t *testing.T) {
	s, err := NewIntensityScript("int", []byte(`intensity = 1`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Eval(ScriptInputs{Intensity: 0.4})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Eval = %v, want 1", got)
	}
}

func TestLoadIntensityScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calm.tengo")
	if err := os.WriteFile(path, []byte(`intensity = 0.25`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadIntensityScript(path)
	if err != nil {
		t.Fatalf("LoadIntensityScript: %v", err)
	}
	if s.Name() != "calm.tengo" {
		t.Errorf("Name = %q", s.Name())
	}
	if _, err := LoadIntensityScript(filepath.Join(t.TempDir(), "missing.tengo")); err == nil {
		t.Error("expected error for missing file")
	}
}
