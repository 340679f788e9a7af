package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "List",
		items: []helpItem{
			{"j/k", "Move up/down"},
			{"g/G", "Top/bottom"},
			{"enter", "Open character"},
			{"space/*", "Star or unstar"},
			{"/", "Search by name"},
			{"esc", "Clear search"},
			{"f", "Cycle All/Starred/Others"},
			{"s", "Cycle species"},
			{"o", "Toggle A-Z/Z-A"},
		},
	},
	{
		title: "Character",
		items: []helpItem{
			{"c", "Write comment"},
			{"x", "Delete selected comment"},
			{"[/]", "Select comment"},
			{"H", "Home"},
		},
	},
	{
		title: "General",
		items: []helpItem{
			{"tab", "Switch pane"},
			{"r", "Reload"},
			{"T", "Cycle theme"},
			{"?", "Toggle help"},
			{"q/ctrl+c", "Quit"},
		},
	},
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning)).Width(12)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	for i, section := range helpSections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(helpSections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
