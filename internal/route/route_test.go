package route

import (
	"testing"

	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/rickmorty"
)

func list(ids ...string) []rickmorty.Character {
	out := make([]rickmorty.Character, 0, len(ids))
	for _, id := range ids {
		out = append(out, rickmorty.Character{ID: id})
	}
	return out
}

func TestHomeTarget(t *testing.T) {
	tests := []struct {
		name  string
		chars []rickmorty.Character
		favs  favorites.Set
		want  string
		ok    bool
	}{
		{"no favorites falls back to 1", list("3", "1", "2"), nil, "/character/1", true},
		{"first favorite in list order", list("1", "2", "5"), favorites.NewSet("5", "1"), "/character/1", true},
		{"favorite not listed falls back", list("1", "2"), favorites.NewSet("99"), "/character/1", true},
		{"favorite beats fallback", list("7", "1"), favorites.NewSet("7"), "/character/7", true},
		{"nothing to show", list("2", "3"), nil, "", false},
		{"empty list", nil, favorites.NewSet("1"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HomeTarget(tt.chars, tt.favs)
			if ok != tt.ok || got.Path() != tt.want {
				t.Fatalf("HomeTarget = %q, %v; want %q, %v", got.Path(), ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRedirector_FiresOnce(t *testing.T) {
	var r Redirector
	got, ok := r.Resolve(list("1"), nil)
	if !ok || got.ID != "1" {
		t.Fatalf("first Resolve = %#v, %v", got, ok)
	}
	if _, ok := r.Resolve(list("1", "2"), favorites.NewSet("2")); ok {
		t.Fatalf("second Resolve redirected again")
	}
}

func TestParseAndPath(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		id   string
	}{
		{"/", KindHome, ""},
		{"", KindHome, ""},
		{"/character/42", KindCharacter, "42"},
		{"/character/not-a-number", KindCharacter, "not-a-number"},
		{"/character/", KindUnknown, ""},
		{"/character/1/extra", KindUnknown, ""},
		{"/episodes", KindUnknown, ""},
	}
	for _, tt := range tests {
		got := Parse(tt.in)
		if got.Kind != tt.kind || got.ID != tt.id {
			t.Fatalf("Parse(%q) = %#v, want kind %v id %q", tt.in, got, tt.kind, tt.id)
		}
		if tt.kind != KindUnknown && Parse(got.Path()) != got {
			t.Fatalf("Parse(Path()) round trip failed for %q", tt.in)
		}
	}
	if Home.Path() != "/" || (Route{}).Path() != "" {
		t.Fatalf("Path rendering broken")
	}
}
