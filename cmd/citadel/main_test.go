package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/citadel/internal/config"
	"github.com/five82/citadel/internal/rickmorty"
)

var cast = []map[string]any{
	{"id": "1", "name": "Rick Sanchez", "species": "Human", "status": "Alive", "gender": "Male", "origin": map[string]any{"name": "Earth (C-137)"}},
	{"id": "2", "name": "Morty Smith", "species": "Human", "status": "Alive", "gender": "Male", "origin": map[string]any{"name": "unknown"}},
	{"id": "3", "name": "Birdperson", "species": "Alien", "status": "Dead", "gender": "Male", "origin": nil},
}

func fakeGraphQL(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		var data map[string]any
		switch {
		case strings.Contains(req.Query, "characters("):
			data = map[string]any{"characters": map[string]any{
				"info":    map[string]any{"pages": 1, "next": nil},
				"results": cast,
			}}
		default:
			var found any
			for _, c := range cast {
				if c["id"] == req.Variables["id"] {
					found = c
				}
			}
			data = map[string]any{"character": found}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setup isolates HOME and points citadel at a fake API and a temp file store.
func setup(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvEndpoint, fakeGraphQL(t).URL)
	t.Setenv(config.EnvBackend, "file")
	t.Setenv(config.EnvPath, filepath.Join(home, "store.json"))
	t.Setenv(config.EnvRedisURL, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvMaxPages, "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("citadel %v: %v\n%s", args, err, out)
	}
	return out
}

func TestListGroupsAndFilters(t *testing.T) {
	setup(t)

	mustExecute(t, "fav", "add", "3")
	out := mustExecute(t, "list")
	starred := strings.Index(out, "Starred")
	others := strings.Index(out, "Characters")
	if starred < 0 || others < starred {
		t.Fatalf("list output missing groups:\n%s", out)
	}
	if !strings.Contains(out[starred:others], "Birdperson") {
		t.Fatalf("Birdperson not under Starred:\n%s", out)
	}
	if strings.Index(out, "Morty Smith") > strings.Index(out, "Rick Sanchez") {
		t.Fatalf("others not sorted A-Z:\n%s", out)
	}

	out = mustExecute(t, "list", "--scope", "others", "--species", "Human", "--search", "RICK")
	if !strings.Contains(out, "Rick Sanchez") || strings.Contains(out, "Morty") || strings.Contains(out, "Birdperson") {
		t.Fatalf("filtered list wrong:\n%s", out)
	}

	if _, err := execute(t, "list", "--sort", "sideways"); err == nil {
		t.Fatalf("bad --sort accepted")
	}
}

func TestFavToggleAndHome(t *testing.T) {
	setup(t)

	if out := mustExecute(t, "home"); strings.TrimSpace(out) != "/character/1" {
		t.Fatalf("home without favorites = %q, want /character/1", out)
	}

	mustExecute(t, "fav", "toggle", "3")
	mustExecute(t, "fav", "toggle", "2")
	if out := mustExecute(t, "fav", "ls"); out != "3\n2\n" {
		t.Fatalf("fav ls = %q, want insertion order", out)
	}
	if out := mustExecute(t, "home"); strings.TrimSpace(out) != "/character/2" {
		t.Fatalf("home = %q, want first favorite in list order", out)
	}

	mustExecute(t, "fav", "toggle", "2")
	mustExecute(t, "fav", "rm", "3")
	if out := mustExecute(t, "fav", "ls"); strings.TrimSpace(out) != "No favorites." {
		t.Fatalf("fav ls = %q, want none", out)
	}
}

func TestCommentsAndShow(t *testing.T) {
	setup(t)

	mustExecute(t, "comment", "add", "1", "wubba", "lubba")
	mustExecute(t, "comment", "add", "1", "   ")
	mustExecute(t, "comment", "add", "1", "dub dub")
	out := mustExecute(t, "comment", "rm", "1", "7")
	if !strings.Contains(out, "Comments (2)") {
		t.Fatalf("out-of-range rm changed the log:\n%s", out)
	}

	out = mustExecute(t, "show", "1")
	for _, want := range []string{"Rick Sanchez", "Origin:  Earth (C-137)", "0. wubba lubba", "1. dub dub"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}

	out = mustExecute(t, "show", "3")
	if !strings.Contains(out, "Origin:  unknown") || !strings.Contains(out, "No comments yet.") {
		t.Fatalf("show fallback output wrong:\n%s", out)
	}

	if _, err := execute(t, "show", "42"); !errors.Is(err, rickmorty.ErrNotFound) {
		t.Fatalf("show 42 error = %v, want ErrNotFound", err)
	}
}

func TestRootRejectsUnknownRoute(t *testing.T) {
	setup(t)
	if _, err := execute(t, "--route", "/episodes/1"); err == nil || !strings.Contains(err.Error(), "unknown route") {
		t.Fatalf("error = %v, want unknown route", err)
	}
}

func TestLogsPrintsWarnings(t *testing.T) {
	setup(t)
	t.Setenv(config.EnvEndpoint, "http://127.0.0.1:1/graphql")

	if _, err := execute(t, "list"); err == nil {
		t.Fatalf("list against a closed port succeeded")
	}
	out := mustExecute(t, "logs", "--level", "warn")
	if !strings.Contains(out, "character list fetch failed") {
		t.Fatalf("logs output missing fetch failure:\n%s", out)
	}
}
