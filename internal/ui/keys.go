package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/citadel/internal/prefs"
	"github.com/five82/citadel/internal/route"
	"github.com/five82/citadel/internal/view"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
			m.logger.Warn("save prefs failed", zap.Error(err))
		}
		return m, nil

	case "tab", "shift+tab":
		if m.focused == paneList {
			m.focused = paneDetail
		} else {
			m.focused = paneList
		}
		return m, nil

	case "/":
		m.focused = paneList
		m.mode = inputSearch
		m.input.Prompt = "/ "
		m.input.Placeholder = "search by name"
		m.input.SetValue(m.filter.Search)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case "esc":
		if m.filter.Search != "" {
			m.filter.Search = ""
			m.clampCursor()
		}
		return m, nil

	case "f":
		m.filter.Scope = view.NextScope(m.filter.Scope)
		m.filterChanged()
		return m, nil

	case "s":
		m.filter.Species = view.NextSpecies(m.filter.Species)
		m.filterChanged()
		return m, nil

	case "o":
		m.filter.Sort = view.ToggleSort(m.filter.Sort)
		m.filterChanged()
		return m, nil

	case "H":
		m.goHome()
		return m, nil

	case "r":
		return m.reloadAll()

	case " ", "*":
		return m, toggleFavoriteCmd(m.ctx, m.favs, m.starTarget())

	case "enter":
		if m.focused != paneList {
			return m, nil
		}
		if c, ok := m.selected(); ok {
			cmd := m.open(c.ID)
			return m, cmd
		}
		return m, nil

	case "c":
		if m.route.Kind != route.KindCharacter {
			return m, nil
		}
		m.mode = inputComment
		m.input.Prompt = "> "
		m.input.Placeholder = "write a comment"
		m.input.SetValue("")
		m.resizeDetail()
		cmd := m.input.Focus()
		return m, cmd

	case "x":
		if m.route.Kind != route.KindCharacter || len(m.thread) == 0 {
			return m, nil
		}
		return m, removeCommentCmd(m.ctx, m.comments, m.route.ID, m.commentCursor)

	case "[":
		if m.commentCursor > 0 {
			m.commentCursor--
			m.syncDetail()
		}
		return m, nil

	case "]":
		if m.commentCursor < len(m.thread)-1 {
			m.commentCursor++
			m.syncDetail()
		}
		return m, nil
	}

	if m.focused == paneDetail {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m.handleListKey(msg)
}

// handleListKey moves the sidebar selection.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.rows())
	if count == 0 {
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = count - 1
	}
	return m, nil
}

// handleInputKey routes keys to the active text input.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.mode == inputSearch {
			m.filter.Search = ""
			m.clampCursor()
		}
		m.endInput()
		return m, nil

	case "enter":
		if m.mode == inputComment {
			text := m.input.Value()
			m.endInput()
			return m, addCommentCmd(m.ctx, m.comments, m.route.ID, text)
		}
		m.endInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputSearch {
		m.filter.Search = m.input.Value()
		m.clampCursor()
	}
	return m, cmd
}

func (m *Model) endInput() {
	wasComment := m.mode == inputComment
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
	if wasComment {
		m.resizeDetail()
	}
}

func (m *Model) filterChanged() {
	m.clampCursor()
	if m.route.Kind == route.KindHome {
		m.syncDetail()
	}
}

// starTarget is the character a star toggle applies to: the open detail
// when the detail pane has focus, else the sidebar selection.
func (m Model) starTarget() string {
	if m.focused == paneDetail && m.route.Kind == route.KindCharacter {
		return m.route.ID
	}
	if c, ok := m.selected(); ok {
		return c.ID
	}
	return ""
}

// reloadAll refetches the list and, on a detail route, the open character.
func (m Model) reloadAll() (tea.Model, tea.Cmd) {
	m.snapshot.Loading = true
	m.notice = ""
	cmds := []tea.Cmd{reloadCmd(m.ctx, m.reload)}
	if m.route.Kind == route.KindCharacter {
		ticket := m.detail.Begin(m.route.ID)
		m.syncDetail()
		cmds = append(cmds, fetchDetailCmd(m.ctx, m.source, ticket))
	}
	return m, tea.Batch(cmds...)
}
