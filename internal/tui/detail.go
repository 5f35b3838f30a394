package tui

import (
	"fmt"
	"strings"

	"github.com/pointsheet/paddock/pkg/timeutil"
)

// renderEventDetail renders the selected event with its schedule and
// markdown rules.
func renderEventDetail(m *Model, width, height int) string {
	lines := detailLines(m)

	contentHeight := height - 2
	if m.detailScroll > 0 {
		off := clamp(m.detailScroll, 0, maxInt(len(lines)-contentHeight, 0))
		lines = lines[off:]
	}
	if len(lines) > contentHeight && contentHeight > 0 {
		lines = lines[:contentHeight]
	}

	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

// detailLines builds the unscrolled content of the detail panel.
func detailLines(m *Model) []string {
	ev := m.detail
	title := panelTitleStyle.Render(ev.Title) + "  " + statusTag(ev.Status)

	var lines []string
	lines = append(lines, title, "")

	// ── Metadata ──

	lines = append(lines, detailRow("Track", ev.Track))
	if ev.Host != "" {
		lines = append(lines, detailRow("Host", ev.Host))
	}
	lines = append(lines, detailRow("Starts", timeutil.FormatEventDate(ev.StartsAt, m.opts.DateFormat)+
		"  "+dimStyle.Render(timeutil.RelativeTime(ev.StartsAt, m.opts.Now()))))
	lines = append(lines, detailRow("Duration", timeutil.FormatDuration(ev.Duration())))
	lines = append(lines, detailRow("Participants", slots(ev)))

	// ── Schedule ──

	if len(ev.Schedule) > 0 {
		lines = append(lines, "", detailSectionStyle.Render("Schedule"))
		for _, sc := range ev.Schedule {
			var parts []string
			if sc.Laps > 0 {
				parts = append(parts, fmt.Sprintf("%d laps", sc.Laps))
			}
			if sc.Duration != "" {
				parts = append(parts, sc.Duration)
			}
			lines = append(lines, detailRow(sc.Type, strings.Join(parts, " · ")))
		}
	}

	// ── Rules ──

	if m.detailRules != "" {
		lines = append(lines, "", detailSectionStyle.Render("Rules"))
		lines = append(lines, strings.Split(strings.TrimRight(m.detailRules, "\n"), "\n")...)
	}
	return lines
}

// maxDetailScroll is the largest offset that still fills the panel.
func (m Model) maxDetailScroll() int {
	if m.detail == nil {
		return 0
	}
	return maxInt(len(detailLines(&m))-(m.bodyHeight()-2), 0)
}

// ── helpers ──

func detailRow(label, value string) string {
	return detailLabelStyle.Render(label) + detailValueStyle.Render(value)
}
