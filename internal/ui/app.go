package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/citadel/internal/comments"
	"github.com/five82/citadel/internal/favorites"
	"github.com/five82/citadel/internal/prefs"
	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/route"
	"github.com/five82/citadel/internal/state"
	"github.com/five82/citadel/internal/view"
)

type pane int

const (
	paneList pane = iota
	paneDetail
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputComment
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Source    rickmorty.CharacterSource
	List      *state.Store
	Reload    func(context.Context) error
	Favorites *favorites.Manager
	Comments  *comments.Manager
	Logger    *zap.Logger
	Route     route.Route // zero value starts at home
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	source    rickmorty.CharacterSource
	list      *state.Store
	reload    func(context.Context) error
	favs      *favorites.Manager
	comments  *comments.Manager
	logger    *zap.Logger
	prefsPath string
	bridge    *bridge

	theme    Theme
	width    int
	height   int
	ready    bool
	focused  pane
	showHelp bool
	notice   string

	snapshot  state.Snapshot
	favorites favorites.Set
	filter    view.State
	cursor    int

	route         route.Route
	redirect      *route.Redirector
	detail        *state.DetailTracker
	thread        []string
	commentCursor int
	initial       *state.Ticket

	detailViewport viewport.Model
	mode           inputMode
	input          textinput.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.CharLimit = 500

	m := Model{
		ctx:       ctx,
		source:    opts.Source,
		list:      opts.List,
		reload:    opts.Reload,
		favs:      opts.Favorites,
		comments:  opts.Comments,
		logger:    logger.Named("ui"),
		prefsPath: prefsPath,
		bridge:    newBridge(),
		theme:     GetTheme(themeName),
		filter:    view.DefaultState(),
		route:     route.Home,
		redirect:  &route.Redirector{},
		detail:    &state.DetailTracker{},
		thread:    []string{},
		input:     input,
	}
	if m.list != nil {
		m.snapshot = m.list.Snapshot()
	}
	if m.favs != nil {
		m.favorites = m.favs.Load(ctx)
	}
	m.bridge.watchFavorites(m.favs)

	if opts.Route.Kind == route.KindCharacter {
		ticket := m.enter(opts.Route.ID)
		m.initial = &ticket
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		reloadCmd(m.ctx, m.reload),
		m.bridge.next(m.ctx),
	}
	if m.initial != nil {
		cmds = append(cmds, fetchDetailCmd(m.ctx, m.source, *m.initial))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeDetail()
		return m, nil

	case listLoadedMsg:
		return m.handleListLoaded(msg)

	case detailMsg:
		if !m.detail.Resolve(msg.ticket, msg.character, msg.err) {
			m.logger.Debug("dropped stale detail response", zap.String("id", msg.ticket.ID))
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("character fetch failed", zap.String("id", msg.ticket.ID), zap.Error(msg.err))
		}
		m.syncDetail()
		return m, nil

	case favoritesSavedMsg:
		if msg.err != nil {
			m.fail("save favorites", msg.err)
			return m, nil
		}
		m.setFavorites(msg.set)
		return m, nil

	case favoritesChangedMsg:
		m.setFavorites(msg.set)
		return m, m.bridge.next(m.ctx)

	case commentsSavedMsg:
		if msg.err != nil {
			m.fail("save comments", msg.err)
			return m, nil
		}
		m.setThread(msg.id, msg.items)
		return m, nil

	case commentsChangedMsg:
		m.setThread(msg.id, msg.items)
		return m, m.bridge.next(m.ctx)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	if m.list != nil {
		m.snapshot = m.list.Snapshot()
	}
	m.clampCursor()
	if msg.err == nil && m.route.Kind == route.KindHome && m.favs != nil {
		// Favorites are read fresh so a write from another context counts.
		m.favorites = m.favs.Load(m.ctx)
		if target, ok := m.redirect.Resolve(m.snapshot.Characters, m.favorites); ok {
			m.logger.Debug("home redirect", zap.String("path", target.Path()))
			cmd := m.open(target.ID)
			return m, cmd
		}
	}
	m.syncDetail()
	return m, nil
}

// enter switches to the detail route for id and begins resolving it.
func (m *Model) enter(id string) state.Ticket {
	m.route = route.Character(id)
	m.notice = ""
	ticket := m.detail.Begin(id)
	m.thread = []string{}
	if m.comments != nil {
		m.thread = m.comments.Load(m.ctx, id)
	}
	m.commentCursor = 0
	m.bridge.watchComments(m.comments, id)
	m.syncDetail()
	return ticket
}

func (m *Model) open(id string) tea.Cmd {
	ticket := m.enter(id)
	return fetchDetailCmd(m.ctx, m.source, ticket)
}

func (m *Model) goHome() {
	m.route = route.Home
	m.bridge.watchComments(nil, "")
	m.thread = []string{}
	m.commentCursor = 0
	m.syncDetail()
}

func (m *Model) setFavorites(set favorites.Set) {
	m.favorites = set
	m.clampCursor()
	m.syncDetail()
}

func (m *Model) setThread(id string, items []string) {
	if m.route.Kind != route.KindCharacter || m.route.ID != id {
		return
	}
	if items == nil {
		items = []string{}
	}
	m.thread = items
	m.commentCursor = min(m.commentCursor, max(len(items)-1, 0))
	m.syncDetail()
}

func (m *Model) fail(action string, err error) {
	m.logger.Warn(action+" failed", zap.Error(err))
	m.notice = "Error: " + err.Error()
}

// sidebar returns the sidebar rows in display order: starred, then others.
func (m Model) sidebar() view.Result {
	return view.Select(m.snapshot.Characters, m.favorites, m.filter, view.SidebarOptions)
}

func (m Model) rows() []rickmorty.Character {
	res := m.sidebar()
	return append(res.Starred, res.Others...)
}

func (m Model) selected() (rickmorty.Character, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return rickmorty.Character{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	switch {
	case n == 0:
		m.cursor = 0
	case m.cursor >= n:
		m.cursor = n - 1
	case m.cursor < 0:
		m.cursor = 0
	}
}

// layout returns the sidebar width, detail width and content height.
func (m Model) layout() (int, int, int) {
	contentHeight := max(m.height-2, 3)
	listWidth := m.width * 40 / 100
	if m.width >= 160 {
		listWidth = m.width * 30 / 100
	}
	return listWidth, m.width - listWidth, contentHeight
}

func (m *Model) resizeDetail() {
	if !m.ready {
		return
	}
	_, detailWidth, contentHeight := m.layout()
	m.detailViewport.Width = max(detailWidth-4, 0)
	height := contentHeight - 2
	if m.mode == inputComment {
		height--
	}
	m.detailViewport.Height = max(height, 1)
	m.syncDetail()
}

// syncDetail refreshes the detail viewport content.
func (m *Model) syncDetail() {
	if !m.ready {
		return
	}
	m.detailViewport.SetContent(m.renderDetailBody(m.detailViewport.Width))
}

func (m Model) renderContent() string {
	listWidth, detailWidth, contentHeight := m.layout()
	list := m.renderTitledBox(m.sidebarTitle(), m.renderSidebar(listWidth-2, contentHeight-2),
		listWidth, contentHeight, m.focused == paneList)

	body := m.detailViewport.View()
	if m.mode == inputComment {
		body += "\n" + m.input.View()
	}
	detail := m.renderTitledBox(m.detailTitle(), lipgloss.NewStyle().PaddingLeft(1).Render(body),
		detailWidth, contentHeight, m.focused == paneDetail)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.bridge.close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
