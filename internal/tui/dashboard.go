package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pointsheet/paddock/internal/standings"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

// renderDashboard lays out the two top cards, the tab strip and the
// active tab's pane.
func renderDashboard(m *Model, width, height int) string {
	cards := renderCards(m, width)
	strip := renderTabStrip(m, width)
	paneHeight := height - lipgloss.Height(cards) - lipgloss.Height(strip)

	var pane string
	switch m.tabs.ActiveLabel() {
	case TabStandings:
		pane = renderStandings(m, width, paneHeight)
	default:
		pane = renderEventList(m, m.activePane(), width, paneHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, strip, pane)
}

// renderCards renders "Last Race" and "On Going Series" side by side,
// stacking them on narrow terminals.
func renderCards(m *Model, width int) string {
	last := renderLastRaceCard(m)
	series := renderSeriesCard(m)

	if width < 70 {
		w := width - 2
		return lipgloss.JoinVertical(lipgloss.Left,
			cardStyle.Width(w).Render(last),
			cardStyle.Width(w).Render(series))
	}

	leftW := width*55/100 - 2
	rightW := width - leftW - 4
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Width(leftW).Height(4).Render(last),
		cardStyle.Width(rightW).Height(4).Render(series))
}

func renderLastRaceCard(m *Model) string {
	title := cardTitleStyle.Render("Last Race")
	lr := m.lastRace
	if lr == nil {
		msg := "No results yet."
		if m.opts.DriverID == "" {
			msg = "Set team.driver_id to see your results."
		}
		return title + "\n" + cardMetaStyle.Render(msg)
	}

	pos := positionStyle(lr.Result.Position).Render(ordinal(lr.Result.Position))
	figure := pos + cardMetaStyle.Render(fmt.Sprintf(" / %d", lr.FieldSize)) +
		"   " + cardFigureStyle.Render(fmt.Sprintf("%d pts", standings.TotalPoints(&lr.Result)))

	meta := cardMetaStyle.Render(fmt.Sprintf("%s · %s · %s",
		lr.Event, lr.Track, timeutil.FormatEventDate(lr.StartsAt, m.opts.DateFormat)))
	lap := cardMetaStyle.Render("Best lap " + timeutil.FormatLap(lr.Result.BestLapMs))

	return strings.Join([]string{title, figure, meta, lap}, "\n")
}

func renderSeriesCard(m *Model) string {
	title := cardTitleStyle.Render("On Going Series")
	figure := cardFigureStyle.Render(fmt.Sprintf("%d / %d", m.seriesJoined, m.seriesTotal))
	meta := cardMetaStyle.Render("series you are signed on to")
	return strings.Join([]string{title, figure, meta}, "\n")
}

// renderTabStrip renders one clickable control per tab in construction
// order, highlighting the active one.
func renderTabStrip(m *Model, width int) string {
	var parts []string
	for _, c := range m.tabs.Controls() {
		title := c.Title
		if n := m.tabCount(c.Label); n >= 0 {
			title = fmt.Sprintf("%s (%d)", title, n)
		}
		style := tabStyle
		if c.Active {
			style = tabActiveStyle
		}
		parts = append(parts, m.mark(tabZoneID(c.Label), style.Render(title)))
	}

	strip := lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
	rule := tabRuleStyle.Render(strings.Repeat("─", maxInt(width, 0)))
	return lipgloss.JoinVertical(lipgloss.Left, "", strip, rule)
}

// tabCount returns the number of events behind an event tab, or -1 for
// tabs without a count.
func (m *Model) tabCount(label string) int {
	if !m.loaded || label == TabStandings {
		return -1
	}
	for _, t := range m.tabs.Tabs() {
		if t.Label == label {
			return len(t.Content.events)
		}
	}
	return -1
}
