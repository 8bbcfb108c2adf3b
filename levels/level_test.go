package levels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedShaft(t *testing.T) {
	lvl, err := LoadLevel("shaft")
	if err != nil {
		t.Fatalf("LoadLevel(shaft): %v", err)
	}
	if lvl.Name != "shaft" {
		t.Errorf("Name = %q, want shaft", lvl.Name)
	}
	if lvl.Player == nil || len(lvl.Player.Path.Waypoints) == 0 {
		t.Fatal("shaft has no player path")
	}
	if len(lvl.NavPoints) == 0 || len(lvl.Obstructions) == 0 {
		t.Errorf("nav points/obstructions = %d/%d, want both non-empty", len(lvl.NavPoints), len(lvl.Obstructions))
	}
	if !lvl.Swarm.Enabled {
		t.Error("shaft should enable the swarm")
	}
}

func TestLoadAcceptsPrefixAndExtension(t *testing.T) {
	for _, name := range []string{"shaft", "shaft.yaml", "levels/shaft.yaml"} {
		if _, err := Load(name); err != nil {
			t.Errorf("Load(%q): %v", name, err)
		}
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"pulse", "scripts/pulse.tengo", "levels/scripts/pulse.tengo"} {
		if _, err := LoadScript(name); err != nil {
			t.Errorf("LoadScript(%q): %v", name, err)
		}
	}
}

func TestLoadLevelFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	data := []byte("player:\n  position: {x: 1, y: 2}\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	lvl, err := LoadLevel(path)
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if lvl.Player.Name != "player" {
		t.Errorf("default player name = %q", lvl.Player.Name)
	}
	if lvl.Player.Position.Vec().Y != 2 {
		t.Errorf("player y = %v, want 2", lvl.Player.Position.Y)
	}
}

func TestParseAllowsUnnamedNavPoints(t *testing.T) {
	data := []byte("player: {}\nnav_points:\n  - {name: top}\n  - {next: [top]}\n  - {next: [top]}\n")
	lvl, err := Parse("unnamed", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lvl.NavPoints) != 3 {
		t.Errorf("nav points = %d, want 3", len(lvl.NavPoints))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "no player",
			yaml: "name: empty\n",
			want: ErrNoPlayer,
		},
		{
			name: "unknown faction",
			yaml: "player: {}\nactors:\n  - {name: bob, faction: pirates}\n",
			want: ErrUnknownFaction,
		},
		{
			name: "unknown next",
			yaml: "player: {}\nnav_points:\n  - {name: a, next: [b]}\n",
			want: ErrUnknownNavPoint,
		},
		{
			name: "next names an unnamed point",
			yaml: "player: {}\nnav_points:\n  - {position: {x: 0, y: 0}}\n  - {name: a, next: [\"\"]}\n",
			want: ErrUnknownNavPoint,
		},
		{
			name: "duplicate nav point",
			yaml: "player: {}\nnav_points:\n  - {name: a}\n  - {name: a}\n",
			want: ErrDuplicateName,
		},
		{
			name: "unknown receiver",
			yaml: "player: {}\nsensors:\n  - {id: door, receivers: [alarm]}\n",
			want: ErrUnknownTrigger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name, []byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("bad", []byte("player: [")); err == nil {
		t.Error("expected unmarshal error")
	}
}
