package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/citadel/internal/route"
	"github.com/five82/citadel/internal/state"
	"github.com/five82/citadel/internal/view"
)

// renderDetailBody renders the right pane for the current route.
func (m Model) renderDetailBody(width int) string {
	if m.route.Kind != route.KindCharacter {
		return m.renderHome(width)
	}
	styles := m.theme.Styles()

	d := m.detail.Current()
	switch d.Status {
	case state.DetailLoaded:
	case state.DetailFailed:
		return styles.DangerText.Render(d.Message())
	case state.DetailLoading, state.DetailIdle:
		return styles.MutedText.Render("Loading...")
	default:
		return styles.WarningText.Render(d.Message())
	}

	c := d.Character
	var b strings.Builder

	name := c.DisplayName()
	if m.favorites.Contains(c.ID) {
		name = starMark + " " + name
	}
	b.WriteString(styles.AccentText.Bold(true).Render(name))
	b.WriteString("\n\n")

	field := func(label, value string, style lipgloss.Style) {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%-9s", label)))
		b.WriteString(style.Render(truncate(value, max(width-9, 1))))
		b.WriteString("\n")
	}
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(c.Status)))
	field("Status", c.DisplayStatus(), statusStyle)
	field("Species", c.DisplaySpecies(), styles.Text)
	field("Gender", c.DisplayGender(), styles.Text)
	field("Origin", c.DisplayOrigin(), styles.Text)
	if c.Image != "" {
		field("Image", c.Image, styles.FaintText)
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Comments (%d)", len(m.thread))))
	b.WriteString("\n")
	if len(m.thread) == 0 {
		b.WriteString(styles.MutedText.Render("No comments yet."))
		return b.String()
	}
	for i, text := range m.thread {
		prefix := "  "
		style := styles.Text
		if i == m.commentCursor {
			prefix = "> "
			style = styles.AccentText
		}
		line := fmt.Sprintf("%s%d. %s", prefix, i+1, text)
		b.WriteString(style.Width(max(width, 1)).Render(line))
		if i < len(m.thread)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderHome renders the home list, which applies scope, species and sort
// but not the sidebar search.
func (m Model) renderHome(width int) string {
	styles := m.theme.Styles()
	snap := m.snapshot
	switch {
	case snap.Pending() || (snap.Loading && !snap.Loaded):
		return styles.MutedText.Render("Loading...")
	case snap.LastError != nil && !snap.Loaded:
		return styles.DangerText.Render("Error: " + snap.LastError.Error())
	}

	res := view.Select(snap.Characters, m.favorites, m.filter, view.HomeOptions)
	if len(res.Items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(res.Items))
	for _, c := range res.Items {
		marker := " "
		if m.favorites.Contains(c.ID) {
			marker = starMark
		}
		lines = append(lines, styles.Text.Render(truncate(fmt.Sprintf("%s %s · %s · %s", marker, c.DisplayName(), c.DisplaySpecies(), c.DisplayStatus()), width)))
	}
	return strings.Join(lines, "\n")
}
