package tui

import (
	"fmt"
	"strings"

	"github.com/pointsheet/paddock/pkg/timeutil"
)

// renderStandings renders the series picker and the championship table.
func renderStandings(m *Model, width, height int) string {
	if len(m.series) == 0 {
		p, _ := m.tabs.Content()
		return emptyStateStyle.Render(p.empty)
	}

	s := m.series[m.seriesIdx]
	picker := fmt.Sprintf("◀ %s ▶", s.Title)
	meta := seriesStatusLabel(s.Status)
	if m.table != nil && m.table.Series != nil && m.table.Series.SeriesID == s.SeriesID {
		meta += fmt.Sprintf(" · %d races", m.table.Races)
	}
	lines := []string{
		pickerStyle.Render(picker) + "  " + dimStyle.Render(meta) +
			dimStyle.Render(fmt.Sprintf("   %d/%d", m.seriesIdx+1, len(m.series))),
		"",
	}

	t := m.table
	if t == nil || t.Series == nil || t.Series.SeriesID != s.SeriesID {
		lines = append(lines, emptyStateStyle.Render("Loading standings..."))
		return strings.Join(lines, "\n")
	}
	if len(t.Rows) == 0 {
		lines = append(lines, emptyStateStyle.Render("No results in this series yet."))
		return strings.Join(lines, "\n")
	}

	nameW := clamp(width-44, 10, 28)
	lines = append(lines, tableHeaderStyle.Render(fmt.Sprintf("%-4s %-*s %5s %4s %4s %6s %10s",
		"Pos", nameW, "Driver", "Pts", "W", "Pod", "Starts", "Best lap")))

	rows := height - len(lines) - 1
	for i, r := range t.Rows {
		if rows > 0 && i >= rows {
			lines = append(lines, dimStyle.Render(fmt.Sprintf(" +%d more", len(t.Rows)-i)))
			break
		}
		pos := positionStyle(r.Position).Render(fmt.Sprintf("%-4s", ordinal(r.Position)))
		rest := fmt.Sprintf(" %-*s %5d %4d %4d %6d %10s",
			nameW, truncate(r.Driver, nameW), r.Points, r.Wins, r.Podiums, r.Starts,
			timeutil.FormatLap(r.BestLapMs))
		style := tableRowStyle
		if r.DriverID == m.opts.DriverID {
			style = tableOwnRowStyle
		}
		lines = append(lines, pos+style.Render(rest))
	}
	return strings.Join(lines, "\n")
}
