package ui

import (
	"fmt"
	"strings"

	"github.com/five82/citadel/internal/route"
)

// renderHeader renders the logo and list status line.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("CITADEL", styles.Logo)}
	snap := m.snapshot
	switch {
	case snap.Pending() || snap.Loading:
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	case snap.LastError != nil && !snap.Loaded:
		parts = append(parts, bg.Render("Error: "+snap.LastError.Error(), styles.DangerText))
	}
	if snap.Loaded {
		parts = append(parts, bg.Render(fmt.Sprintf("%d characters", len(snap.Characters)), styles.MutedText))
		parts = append(parts, bg.Render(fmt.Sprintf("%d starred", len(m.favorites)), styles.WarningText))
		if snap.LastError != nil {
			parts = append(parts, bg.Render("reload failed", styles.DangerText))
		}
	}
	if m.route.Kind == route.KindCharacter {
		parts = append(parts, bg.Render(m.route.Path(), styles.FaintText))
	}
	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, bg.Sep(" · ")))
}

// renderCommandBar renders key hints. Filter keys show their current value.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"f", m.filter.Scope.String()},
		{"s", m.filter.Species},
		{"o", m.filter.Sort.String()},
		{"space", "Star"},
		{"enter", "Open"},
	}
	if m.route.Kind == route.KindCharacter {
		commands = append(commands, cmd{"c", "Comment"}, cmd{"x", "Delete"}, cmd{"[/]", "Select"})
	}
	commands = append(commands, cmd{"r", "Reload"}, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func (m Model) sidebarTitle() string {
	return fmt.Sprintf("Characters · %s · %s · %s", m.filter.Scope, m.filter.Species, m.filter.Sort)
}

func (m Model) detailTitle() string {
	if m.route.Kind != route.KindCharacter {
		return "Home"
	}
	d := m.detail.Current()
	if d.Character.ID != "" {
		return d.Character.DisplayName()
	}
	return "Character " + m.route.ID
}
