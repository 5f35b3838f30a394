// Package timeutil provides time formatting utilities for paddock.
//
// Event times are stored as Unix seconds and handled as UTC time.Time
// values. Lap times are integer milliseconds. This package turns both into
// the short strings shown on dashboard cards and in CLI output.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultEventLayout is used when no date format is configured.
// Example: "Sat 4 Jan 20:00 UTC"
const DefaultEventLayout = "Mon 2 Jan 15:04 MST"

// FormatEventDate formats an event start time for a card. An empty layout
// falls back to DefaultEventLayout.
func FormatEventDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "TBA"
	}
	if layout == "" {
		layout = DefaultEventLayout
	}
	return t.Format(layout)
}

// FormatLap formats a lap time in milliseconds.
// Examples: "1:21.333", "59.870", "-" for zero.
func FormatLap(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	if minutes == 0 {
		return fmt.Sprintf("%d.%03d", seconds, millis)
	}
	return fmt.Sprintf("%d:%02d.%03d", minutes, seconds, millis)
}

// ParseLap is the inverse of FormatLap. It accepts "m:ss.mmm", "ss.mmm"
// and "-" or an empty string for no lap.
func ParseLap(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}

	var minutes int64
	if i := strings.IndexByte(s, ':'); i >= 0 {
		m, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil || !digits(s[:i]) {
			return 0, fmt.Errorf("invalid lap minutes in %q", s)
		}
		minutes = m
		s = s[i+1:]
	}

	secs, frac, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil || !digits(secs) || (minutes > 0 && sec > 59) {
		return 0, fmt.Errorf("invalid lap seconds in %q", s)
	}

	var millis int64
	if frac != "" {
		if !digits(frac) {
			return 0, fmt.Errorf("invalid lap fraction in %q", s)
		}
		if len(frac) > 3 {
			return 0, fmt.Errorf("lap %q has more than millisecond precision", s)
		}
		frac += strings.Repeat("0", 3-len(frac))
		millis, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lap fraction in %q", s)
		}
	}
	return minutes*60000 + sec*1000 + millis, nil
}

// digits reports whether s is a non-empty run of ASCII digits.
func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatDuration formats an event length.
// Examples: "45m", "1h 30m", "2h", "-" for zero.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// RelativeTime returns a short relative description of t as seen from now.
// Examples: "just now", "in 3d", "2h ago".
func RelativeTime(t, now time.Time) string {
	diff := t.Sub(now)
	future := diff > 0
	if !future {
		diff = -diff
	}

	var span string
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		span = fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		span = fmt.Sprintf("%dh", int(diff.Hours()))
	default:
		span = fmt.Sprintf("%dd", int(diff.Hours()/24))
	}

	if future {
		return "in " + span
	}
	return span + " ago"
}
