package ui

import "testing"

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	for i, name := range names {
		if got, want := NextTheme(name), names[(i+1)%len(names)]; got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NextTheme("Dracula"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, names[0])
	}
}

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme fallback = %q, want Nightfox", got)
	}
}

func TestStatusColor(t *testing.T) {
	th := GetTheme("Slate")
	if got := th.StatusColor(" Dead "); got != th.StatusColors["dead"] {
		t.Fatalf("StatusColor(Dead) = %q, want %q", got, th.StatusColors["dead"])
	}
	if got := th.StatusColor("zombie"); got != th.Muted {
		t.Fatalf("StatusColor fallback = %q, want %q", got, th.Muted)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"Rick", 10, "Rick"},
		{"Birdperson", 7, "Bird..."},
		{"★ Morty", 3, "★ M"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
