package transactions

import (
	"strings"
	"time"

	"finboard/internal/core"
)

// dateLayouts are the date forms the API and the fallback data use.
var dateLayouts = []struct {
	layout string
	clock  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
	{"January 2, 2006", false},
	{"Jan 2, 2006", false},
	{"01/02/2006", false},
	{"1/2/2006", false},
}

var clockLayouts = []string{
	"03:04 PM",
	"3:04 PM",
	"03:04PM",
	"3:04PM",
	"15:04:05",
	"15:04",
}

// ParseDate parses a transaction date. hasClock reports whether the value
// carried a time of day.
func ParseDate(s string) (t time.Time, hasClock bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, false
	}
	for _, l := range dateLayouts {
		if parsed, err := time.Parse(l.layout, s); err == nil {
			return parsed, l.clock, true
		}
	}
	return time.Time{}, false, false
}

// parseClock returns the offset from midnight for a time-of-day string.
func parseClock(s string) (time.Duration, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return time.Duration(parsed.Hour())*time.Hour +
				time.Duration(parsed.Minute())*time.Minute +
				time.Duration(parsed.Second())*time.Second, true
		}
	}
	return 0, false
}

// Timestamp combines a transaction's date and time of day into one instant
// for ordering. When Time is missing or unparseable only the date counts;
// an unparseable date yields the zero time.
func Timestamp(t core.Transaction) time.Time {
	date, hasClock, ok := ParseDate(t.Date)
	if !ok {
		return time.Time{}
	}
	if hasClock {
		return date
	}
	if offset, ok := parseClock(t.Time); ok {
		return date.Add(offset)
	}
	return date
}

// formatClock renders a time of day the way the fallback data does.
func formatClock(t time.Time) string {
	return t.Format("03:04 PM")
}
