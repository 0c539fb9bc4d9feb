// Package temporal holds the date/occurrence/reminder computations shared by
// every screen of the app. All functions are pure: "now" is always passed in,
// never read from the clock, so callers decide the reference instant and tests
// can pin it.
package temporal

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format birthdates are stored in.
const DateLayout = "2006-01-02"

// ParseDate turns a date-ish string into a calendar date. Empty or
// unparseable input reports ok=false; it never errors so malformed stored
// values degrade to "Date not set" instead of breaking a sort or a render.
func ParseDate(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	if parsed, err := time.ParseInLocation(DateLayout, trimmed, time.Local); err == nil {
		return parsed, true
	}
	// Some rows carry full timestamps in the birthdate column.
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed.Local(), true
	}
	return time.Time{}, false
}

// ParseInstant turns a timestamp-ish string into an instant. A bare date is
// accepted and anchored at local midnight.
func ParseInstant(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed, true
	}
	// datetime-local form inputs omit the zone
	if parsed, err := time.ParseInLocation("2006-01-02T15:04", trimmed, time.Local); err == nil {
		return parsed, true
	}
	if parsed, err := time.ParseInLocation(DateLayout, trimmed, time.Local); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// StartOfDay returns local midnight for the day containing t. It is the
// single anchor used by both the occurrence sort key and the countdown label,
// so the two can never disagree about what "today" means.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
