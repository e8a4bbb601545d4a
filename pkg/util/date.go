package util

import (
	"strconv"
	"time"
)

// DateLayout is the calendar date format used by data providers.
const DateLayout = "2006-01-02"

// ParseTime accepts RFC3339, a calendar date, unix seconds or unix milliseconds.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		// Anything past year 2286 in seconds is treated as milliseconds.
		if ts >= 1e10 {
			return time.UnixMilli(ts).UTC(), true
		}
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ISODate formats t as YYYY-MM-DD in UTC.
func ISODate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DateRange returns ISO dates for t and t+days, both in UTC.
func DateRange(t time.Time, days int) (string, string) {
	return ISODate(t), ISODate(t.AddDate(0, 0, days))
}
