package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

// renderCalendar lists league events from the last month onwards.
func renderCalendar(m *Model, width, height int) string {
	title := panelTitleStyle.Render("Calendar") +
		dimStyle.Render(fmt.Sprintf("  %d events", len(m.calendar)))

	if len(m.calendar) == 0 {
		return panelStyle.Width(width).Render(title + "\n" + emptyStateStyle.Render("No events scheduled."))
	}

	lines := []string{title, ""}
	start, end := window(m.calendarSel, len(m.calendar), height-4)
	seriesTitle := m.seriesTitles()

	for i := start; i < end; i++ {
		ev := m.calendar[i]
		series := "standalone"
		if ev.SeriesID != nil {
			series = seriesTitle[*ev.SeriesID]
		}
		content := fmt.Sprintf("%-22s %s  %-24s %-20s %s",
			timeutil.FormatEventDate(ev.StartsAt, m.opts.DateFormat),
			statusTag(ev.Status),
			truncate(ev.Title, 24),
			truncate(ev.Track, 20),
			dimStyle.Render(series))

		style := eventItemStyle
		if i == m.calendarSel {
			style = eventSelectedStyle
		}
		lines = append(lines, style.Width(width-4).Render(content))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderRaces lists every series with its status and dates.
func renderRaces(m *Model, width, height int) string {
	title := panelTitleStyle.Render("Series") +
		dimStyle.Render(fmt.Sprintf("  %d total", len(m.series)))

	if len(m.series) == 0 {
		return panelStyle.Width(width).Render(title + "\n" + emptyStateStyle.Render("No series yet."))
	}

	lines := []string{title, "", tableHeaderStyle.Render(fmt.Sprintf("%-30s %-12s %-12s %-12s",
		"Series", "Status", "From", "To"))}
	for i, s := range m.series {
		if i >= height-4 {
			break
		}
		lines = append(lines, tableRowStyle.Render(fmt.Sprintf("%-30s %-12s %-12s %-12s",
			truncate(s.Title, 30), seriesStatusLabel(s.Status),
			timeutil.FormatEventDate(s.StartsAt, "2 Jan 2006"),
			timeutil.FormatEventDate(s.EndsAt, "2 Jan 2006"))))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderDrivers lists drivers grouped into team rosters.
func renderDrivers(m *Model, width, height int) string {
	title := panelTitleStyle.Render("Drivers") +
		dimStyle.Render(fmt.Sprintf("  %d total", len(m.drivers)))

	if len(m.drivers) == 0 {
		return panelStyle.Width(width).Render(title + "\n" + emptyStateStyle.Render("No drivers yet."))
	}

	var rows []string
	for _, g := range teamRoster(m.drivers) {
		name := g.name
		if name == "" {
			name = "Independent"
		}
		rows = append(rows, detailSectionStyle.Render(name)+
			dimStyle.Render(fmt.Sprintf("  %d", len(g.drivers))))
		for _, d := range g.drivers {
			style := tableRowStyle
			if d.DriverID == m.opts.DriverID {
				style = tableOwnRowStyle
			}
			rows = append(rows, style.Render("  "+truncate(d.Name, 28)))
		}
	}

	lines := []string{title, ""}
	for i, r := range rows {
		if i >= height-3 {
			lines = append(lines, dimStyle.Render(fmt.Sprintf(" +%d more", len(rows)-i)))
			break
		}
		lines = append(lines, r)
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

type teamGroup struct {
	name    string
	drivers []*database.Driver
}

// teamRoster groups drivers by team. Named teams come first in name
// order; drivers without a team close the list. Member order is kept.
func teamRoster(drivers []*database.Driver) []teamGroup {
	idx := make(map[string]int)
	var groups []teamGroup
	for _, d := range drivers {
		i, ok := idx[d.Team]
		if !ok {
			i = len(groups)
			idx[d.Team] = i
			groups = append(groups, teamGroup{name: d.Team})
		}
		groups[i].drivers = append(groups[i].drivers, d)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		if (groups[a].name == "") != (groups[b].name == "") {
			return groups[b].name == ""
		}
		return groups[a].name < groups[b].name
	})
	return groups
}

// seriesTitles maps series ids to titles for the calendar.
func (m *Model) seriesTitles() map[string]string {
	out := make(map[string]string, len(m.series))
	for _, s := range m.series {
		out[s.SeriesID] = s.Title
	}
	return out
}
