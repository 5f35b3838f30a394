package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the navigation bar:
//
//	PADDOCK  │  Apex Racing  │  Dashboard  Calendar  Races  Drivers
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("PADDOCK")
	sep := headerSepStyle.Render(" │ ")

	team := m.opts.TeamName
	if team == "" {
		team = "Team Name"
	}

	var nav []string
	for i, name := range sectionNames {
		style := navItemStyle
		if Section(i) == m.section {
			style = navActiveStyle
		}
		nav = append(nav, m.mark(navZoneID(Section(i)), style.Render(name)))
	}

	content := brand + sep + headerMetaStyle.Render(team) + sep + strings.Join(nav, "")
	return headerBarStyle.Width(m.width).Render(content)
}

// newHelp returns the footer help styled with the dashboard palette.
func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = hintKeyStyle
	h.Styles.ShortDesc = hintDescStyle
	h.Styles.ShortSeparator = hintSepStyle
	h.Styles.FullKey = hintKeyStyle
	h.Styles.FullDesc = hintDescStyle
	h.Styles.FullSeparator = hintSepStyle
	return h
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left string
	if m.statusMsg != "" {
		style := statusStyle
		if m.err != nil {
			style = statusErrStyle
		}
		left = style.Render(m.statusMsg)
	}

	right := m.help.View(m.keys)
	if m.help.ShowAll {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Background(colorBgSurface).Width(m.width).Render(left),
			lipgloss.NewStyle().Padding(0, 1).Render(right))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}
