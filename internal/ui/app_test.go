package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/five82/citadel/internal/comments"
	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/kv"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/route"
	"github.com/five82/citadel/internal/state"
)

type fakeSource struct {
	characters []rickmorty.Character
	listErr    error
	detailErr  error
}

func (f *fakeSource) FetchCharacters(context.Context) ([]rickmorty.Character, error) {
	return f.characters, f.listErr
}

func (f *fakeSource) FetchCharacter(_ context.Context, id string) (*rickmorty.Character, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	for _, c := range f.characters {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, rickmorty.ErrNotFound
}

type harness struct {
	source *fakeSource
	store  *kv.Memory
	list   *state.Store
	favs   *favorites.Manager
	notes  *comments.Manager
}

func newHarness(t *testing.T, chars ...rickmorty.Character) *harness {
	t.Helper()
	store := kv.NewMemory()
	t.Cleanup(func() { _ = store.Close() })
	return &harness{
		source: &fakeSource{characters: chars},
		store:  store,
		list:   &state.Store{},
		favs:   favorites.NewManager(store, nil),
		notes:  comments.NewManager(store, nil),
	}
}

func (h *harness) model(t *testing.T) Model {
	t.Helper()
	m := New(Options{
		Context:   context.Background(),
		Source:    h.source,
		List:      h.list,
		Reload:    h.reload,
		Favorites: h.favs,
		Comments:  h.notes,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	t.Cleanup(m.bridge.close)
	return send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func (h *harness) reload(ctx context.Context) error {
	h.list.BeginLoad()
	chars, err := h.source.FetchCharacters(ctx)
	h.list.Update(chars, err)
	return err
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func sendCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	return send(t, m, cmd())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func loaded(t *testing.T, h *harness, m Model) (Model, tea.Cmd) {
	t.Helper()
	err := h.reload(context.Background())
	return sendCmd(t, m, listLoadedMsg{err: err})
}

func rowIDs(m Model) []string {
	var ids []string
	for _, c := range m.rows() {
		ids = append(ids, c.ID)
	}
	return ids
}

var cast = []rickmorty.Character{
	{ID: "1", Name: "Rick Sanchez", Species: "Human", Status: "Alive"},
	{ID: "2", Name: "Morty Smith", Species: "Human", Status: "Alive"},
	{ID: "3", Name: "Birdperson", Species: "Alien", Status: "Dead"},
}

func TestHomeShowsLoadingThenRedirectsToFirstFavoriteOnce(t *testing.T) {
	h := newHarness(t, cast...)
	ctx := context.Background()
	if _, err := h.favs.Add(ctx, "3"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := h.favs.Add(ctx, "2"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	m := h.model(t)

	if !strings.Contains(m.View(), "Loading...") {
		t.Fatalf("home view before load should show Loading...")
	}

	m, cmd := loaded(t, h, m)
	// List order decides: 2 comes before 3 in the fetched list.
	if m.route != route.Character("2") {
		t.Fatalf("route = %+v, want /character/2", m.route)
	}
	m = run(t, m, cmd)
	if got := m.detail.Current(); got.Status != state.DetailLoaded || got.Character.Name != "Morty Smith" {
		t.Fatalf("detail = %+v, want loaded Morty", got)
	}

	m = send(t, m, key("H"))
	m, cmd = loaded(t, h, m)
	if m.route != route.Home || cmd != nil {
		t.Fatalf("second load redirected again: route=%+v", m.route)
	}
}

func TestHomeRedirectFallsBackToFirstCharacterID(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)
	m, _ = loaded(t, h, m)
	if m.route != route.Character(route.FallbackID) {
		t.Fatalf("route = %+v, want fallback", m.route)
	}
}

func TestHomeWithoutTargetStaysHome(t *testing.T) {
	h := newHarness(t, rickmorty.Character{ID: "9", Name: "Squanchy"})
	m := h.model(t)
	m, cmd := loaded(t, h, m)
	if m.route != route.Home || cmd != nil {
		t.Fatalf("route = %+v, want home without redirect", m.route)
	}
	if !strings.Contains(m.View(), "Squanchy") {
		t.Fatalf("home list should render the loaded character")
	}
}

func TestHomeShowsListError(t *testing.T) {
	h := newHarness(t)
	h.source.listErr = errors.New("connection refused")
	m := h.model(t)
	m, cmd := loaded(t, h, m)
	if cmd != nil || m.route != route.Home {
		t.Fatalf("failed load must not redirect")
	}
	if !strings.Contains(m.View(), "Error: connection refused") {
		t.Fatalf("view missing error message:\n%s", m.View())
	}
}

func TestStaleDetailResponseIsDropped(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)

	first := m.open("1")
	second := m.open("2")

	m = run(t, m, first)
	if got := m.detail.Current(); got.ID != "2" || got.Status != state.DetailLoading {
		t.Fatalf("stale response changed detail: %+v", got)
	}
	m = run(t, m, second)
	if got := m.detail.Current(); got.Status != state.DetailLoaded || got.Character.ID != "2" {
		t.Fatalf("detail = %+v, want loaded 2", got)
	}
}

func TestDetailNotFoundAndError(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)

	cmd := m.open("999")
	m = run(t, m, cmd)
	if !strings.Contains(m.View(), "Character not found.") {
		t.Fatalf("view missing not-found message:\n%s", m.View())
	}

	h.source.detailErr = errors.New("upstream exploded")
	cmd = m.open("1")
	m = run(t, m, cmd)
	if !strings.Contains(m.View(), "Error: upstream exploded") {
		t.Fatalf("view missing error message:\n%s", m.View())
	}
}

func TestStarToggleUpdatesGroups(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)
	m.route = route.Character("x") // keep the redirect out of the way
	m, _ = loaded(t, h, m)

	if diff := cmp.Diff([]string{"3", "2", "1"}, rowIDs(m)); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	m = send(t, m, key("j")) // Morty
	m, cmd := sendCmd(t, m, key("space"))
	m = run(t, m, cmd)

	if !m.favorites.Contains("2") {
		t.Fatalf("favorites = %v, want 2 starred", m.favorites)
	}
	if diff := cmp.Diff([]string{"2", "3", "1"}, rowIDs(m)); diff != "" {
		t.Fatalf("rows after star mismatch (-want +got):\n%s", diff)
	}
	if !h.favs.IsFavorite(context.Background(), "2") {
		t.Fatalf("star was not persisted")
	}
}

func TestFilterKeysAndSearch(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)
	m.route = route.Character("x")
	m, _ = loaded(t, h, m)

	m = send(t, m, key("s")) // Human
	if diff := cmp.Diff([]string{"2", "1"}, rowIDs(m)); diff != "" {
		t.Fatalf("species rows mismatch (-want +got):\n%s", diff)
	}
	m = send(t, m, key("o")) // Z-A
	if diff := cmp.Diff([]string{"1", "2"}, rowIDs(m)); diff != "" {
		t.Fatalf("sorted rows mismatch (-want +got):\n%s", diff)
	}

	m = send(t, m, key("/"))
	m = typeText(t, m, "mor")
	if diff := cmp.Diff([]string{"2"}, rowIDs(m)); diff != "" {
		t.Fatalf("search rows mismatch (-want +got):\n%s", diff)
	}
	m = send(t, m, key("esc"))
	if m.filter.Search != "" || len(rowIDs(m)) != 2 {
		t.Fatalf("esc should clear search, rows=%v", rowIDs(m))
	}

	m = send(t, m, key("f")) // Starred
	if len(rowIDs(m)) != 0 {
		t.Fatalf("starred scope rows = %v, want none", rowIDs(m))
	}
}

func TestCommentsAddBlankAndDelete(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)
	cmd := m.open("1")
	m = run(t, m, cmd)

	if !strings.Contains(m.View(), "No comments yet.") {
		t.Fatalf("view missing empty comments text:\n%s", m.View())
	}

	m = send(t, m, key("c"))
	m = typeText(t, m, "   ")
	m, cmd = sendCmd(t, m, key("enter"))
	m = run(t, m, cmd)
	if len(m.thread) != 0 {
		t.Fatalf("blank comment stored: %v", m.thread)
	}

	for _, text := range []string{"wubba", "lubba"} {
		m = send(t, m, key("c"))
		m = typeText(t, m, text)
		m, cmd = sendCmd(t, m, key("enter"))
		m = run(t, m, cmd)
	}
	if diff := cmp.Diff([]string{"wubba", "lubba"}, m.thread); diff != "" {
		t.Fatalf("thread mismatch (-want +got):\n%s", diff)
	}

	m = send(t, m, key("]"))
	m, cmd = sendCmd(t, m, key("x"))
	m = run(t, m, cmd)
	if diff := cmp.Diff([]string{"wubba"}, h.notes.Load(context.Background(), "1")); diff != "" {
		t.Fatalf("stored thread mismatch (-want +got):\n%s", diff)
	}
	if m.commentCursor != 0 {
		t.Fatalf("commentCursor = %d, want clamped to 0", m.commentCursor)
	}
}

func TestRemoteChangesReachModel(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)
	cmd := m.open("1")
	m = run(t, m, cmd)

	other := h.store.Peer()
	defer other.Close()
	ctx := context.Background()
	if _, err := favorites.NewManager(other, nil).Toggle(ctx, "3"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	m, next := sendCmd(t, m, m.bridge.next(ctx)())
	if !m.favorites.Contains("3") || next == nil {
		t.Fatalf("remote favorite not applied: %v", m.favorites)
	}

	if _, err := comments.NewManager(other, nil).Add(ctx, "1", "from another tab"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	m = send(t, m, m.bridge.next(ctx)())
	if diff := cmp.Diff([]string{"from another tab"}, m.thread); diff != "" {
		t.Fatalf("thread mismatch (-want +got):\n%s", diff)
	}
}

func TestReloadKeyRefetchesOpenCharacter(t *testing.T) {
	h := newHarness(t, cast...)
	m := h.model(t)
	cmd := m.open("1")
	m = run(t, m, cmd)

	m, cmd = sendCmd(t, m, key("r"))
	if cmd == nil {
		t.Fatalf("reload returned no command")
	}
	if got := m.detail.Current().Status; got != state.DetailLoading {
		t.Fatalf("status = %v, want loading", got)
	}
}

func TestThemeKeyPersistsPrefs(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)
	start := m.theme.Name
	m = send(t, m, key("T"))
	if m.theme.Name != NextTheme(start) {
		t.Fatalf("theme = %q, want %q", m.theme.Name, NextTheme(start))
	}
}
