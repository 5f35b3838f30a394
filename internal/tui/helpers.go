package tui

import (
	"fmt"

	"github.com/pointsheet/paddock/internal/database"
)

// ────────────────────────────────────────────────────────────
// Status rendering
// ────────────────────────────────────────────────────────────

// statusTag returns a short colored flag for an event status.
func statusTag(status string) string {
	switch status {
	case database.EventOpen:
		return statusOpenStyle.Render("● open")
	case database.EventInProgress:
		return statusRunningStyle.Render("◐ live")
	case database.EventClosed:
		return statusClosedStyle.Render("○ closed")
	default:
		return dimStyle.Render(status)
	}
}

// seriesStatusLabel turns a series status into display text.
func seriesStatusLabel(status string) string {
	switch status {
	case database.SeriesNotStarted:
		return "not started"
	case database.SeriesStarted:
		return "running"
	case database.SeriesClosed:
		return "finished"
	default:
		return status
	}
}

// slots renders "12 / 20", or just the count for uncapped events.
func slots(ev *database.Event) string {
	if ev.MaxParticipants <= 0 {
		return fmt.Sprintf("%d drivers", ev.Participants)
	}
	return fmt.Sprintf("%d / %d", ev.Participants, ev.MaxParticipants)
}

// ordinal renders 1 as "P1".
func ordinal(pos int) string {
	if pos <= 0 {
		return "-"
	}
	return fmt.Sprintf("P%d", pos)
}

// ────────────────────────────────────────────────────────────
// String helpers
// ────────────────────────────────────────────────────────────

// truncate cuts a string to maxLen and appends "..." if truncated.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// clamp restricts val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// maxInt returns the larger of a and b.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// window returns the [start, end) range of n items that keeps sel visible
// in height rows.
func window(sel, n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	start := 0
	if sel >= height {
		start = sel - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}
	return start, end
}
