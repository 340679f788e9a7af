package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/citadel/internal/rickmorty"
)

const starMark = "★"

// renderSidebar renders the search line and the Starred / Characters groups,
// scrolled so the selection stays visible.
func (m Model) renderSidebar(width, height int) string {
	styles := m.theme.Styles()
	snap := m.snapshot

	var header []string
	switch {
	case m.mode == inputSearch:
		header = append(header, m.input.View())
	case strings.TrimSpace(m.filter.Search) != "":
		header = append(header, styles.AccentText.Render(truncate("/ "+m.filter.Search, width)))
	}

	if len(snap.Characters) == 0 {
		switch {
		case snap.Pending() || snap.Loading:
			header = append(header, styles.MutedText.Render("Loading..."))
		case snap.LastError != nil:
			header = append(header, styles.DangerText.Render(truncate("Error: "+snap.LastError.Error(), width)))
		}
		return strings.Join(header, "\n")
	}

	res := m.sidebar()
	var (
		lines      []string
		cursorLine int
		row        int
	)
	group := func(title string, items []rickmorty.Character) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, styles.AccentText.Bold(true).Render(title))
		for _, c := range items {
			if row == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderRow(c, width, row == m.cursor))
			row++
		}
	}
	group(starMark+" Starred", res.Starred)
	group("Characters", res.Others)
	if len(lines) == 0 {
		lines = append(lines, styles.MutedText.Render("No matches"))
	}

	visible := max(height-len(header), 1)
	start := 0
	if cursorLine >= visible {
		start = cursorLine - visible + 1
	}
	end := min(start+visible, len(lines))
	return strings.Join(append(header, lines[start:end]...), "\n")
}

func (m Model) renderRow(c rickmorty.Character, width int, selected bool) string {
	marker := " "
	if m.favorites.Contains(c.ID) {
		marker = starMark
	}
	text := truncate(marker+" "+c.DisplayName()+" · "+c.DisplaySpecies(), width)
	if selected {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.SelectionBg)).
			Foreground(lipgloss.Color(m.theme.SelectionText)).
			Width(width).
			Render(text)
	}
	if marker == starMark {
		return m.theme.Styles().WarningText.Render(text)
	}
	return m.theme.Styles().Text.Render(text)
}
