package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pointsheet/paddock/internal/database"
	"github.com/pointsheet/paddock/pkg/timeutil"
)

// renderEventList renders the event cards of an upcoming or available pane.
// Each card takes two lines:
//
//	● open  Round 2                          Sat 11 Jan 20:00 UTC
//	        Road America · 2h · 1 / 20 · in 6d
func renderEventList(m *Model, pane *tabPane, width, height int) string {
	if pane == nil {
		return ""
	}
	if !m.loaded {
		return emptyStateStyle.Render("Loading events...")
	}
	if len(pane.events) == 0 {
		return emptyStateStyle.Render(pane.empty)
	}

	perCard := 3
	start, end := window(pane.selected, len(pane.events), maxInt(height/perCard, 1))

	var cards []string
	for i := start; i < end; i++ {
		ev := pane.events[i]
		card := renderEventCard(m, ev, width-2)
		style := eventItemStyle
		if i == pane.selected {
			style = eventSelectedStyle
		}
		cards = append(cards, m.mark(eventZoneID(ev.EventID), style.Width(width-2).Render(card)))
	}

	if len(pane.events) > end-start {
		cards = append(cards, dimStyle.Render(
			fmt.Sprintf(" %d/%d", pane.selected+1, len(pane.events))))
	}
	return strings.Join(cards, "\n")
}

func renderEventCard(m *Model, ev *database.Event, width int) string {
	date := timeutil.FormatEventDate(ev.StartsAt, m.opts.DateFormat)
	head := statusTag(ev.Status) + "  " + ev.Title
	gap := width - lipgloss.Width(head) - lipgloss.Width(date) - 2
	if gap < 1 {
		gap = 1
	}
	line1 := head + strings.Repeat(" ", gap) + dimStyle.Render(date)

	details := []string{ev.Track}
	if d := ev.Duration(); d > 0 {
		details = append(details, timeutil.FormatDuration(d))
	}
	details = append(details, slots(ev), timeutil.RelativeTime(ev.StartsAt, m.opts.Now()))
	line2 := "        " + dimStyle.Render(truncate(strings.Join(details, " · "), width-10))

	return line1 + "\n" + line2
}
