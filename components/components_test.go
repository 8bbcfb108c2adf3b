package components

import "testing"

func TestParseFaction(t *testing.T) {
	tests := []struct {
		in      string
		want    Faction
		wantErr bool
	}{
		{"", FactionNone, false},
		{"player", FactionPlayer, false},
		{"Alien", FactionAlien, false},
		{" security ", FactionSecurity, false},
		{"pirates", FactionNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFaction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFaction(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFaction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFactionStringRoundTrip(t *testing.T) {
	for f := FactionNone; f <= FactionSecurity; f++ {
		back, err := ParseFaction(f.String())
		if err != nil || back != f {
			t.Errorf("round trip of %v gave %v, %v", f, back, err)
		}
	}
}
