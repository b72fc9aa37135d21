package ui

import (
	"strconv"
	"strings"
	"time"
)

// parseTime handles the backend's ISO-8601 timestamps, with and without
// timezone offsets.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatClock renders a message timestamp as HH:MM.
func formatClock(s string) string {
	t, ok := parseTime(s)
	if !ok {
		return s
	}
	return t.Format("15:04")
}

// formatDay renders a calendar-date separator label.
func formatDay(t time.Time) string {
	return t.Format("Mon 2 Jan 2006")
}

// dayOf truncates a timestamp string to its calendar date; used for
// grouping consecutive messages under one separator.
func dayOf(s string) string {
	t, ok := parseTime(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

// guestStatus classifies a stay relative to now: "current", "future", or
// "past", plus a short detail line.
func guestStatus(checkIn, checkOut string, now time.Time) (status, detail string) {
	in, okIn := parseTime(checkIn)
	out, okOut := parseTime(checkOut)
	if !okIn || !okOut {
		return "", ""
	}
	switch {
	case now.Before(in):
		days := int(in.Sub(now).Hours() / 24)
		if days == 0 {
			return "future", "arrives today"
		}
		return "future", "arrives in " + strconv.Itoa(days) + "d"
	case now.After(out):
		return "past", "checked out"
	default:
		days := int(out.Sub(now).Hours() / 24)
		if days == 0 {
			return "current", "checks out today"
		}
		return "current", "checks out in " + strconv.Itoa(days) + "d"
	}
}

// truncate shortens s to max runes with an ellipsis. max values below one
// yield an empty string.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}
