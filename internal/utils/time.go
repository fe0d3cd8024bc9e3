package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseISODateTime parses an ISO-8601 timestamp (RFC 3339) as sent by
// booking clients, e.g. "2026-09-01T18:00:00Z".
func ParseISODateTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

// ParseDate parses YYYY-MM-DD as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}

// DayBounds returns the [start, end) window of the UTC day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// FormatDateTime formats time to ISO-8601 UTC for responses and logs.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
