package temporal

import (
	"fmt"
	"math"
	"time"
)

// MaxOccurrenceKey is the sort key assigned to missing or unparseable
// birthdates so they order after every valid one. Returning a sentinel keeps
// the ordering total even with bad data.
const MaxOccurrenceKey int64 = math.MaxInt64

// NextOccurrenceKey maps a birthdate to the epoch millis of its next annual
// occurrence at or after the day containing now. The year component of the
// birthdate is ignored; only month and day recur.
func NextOccurrenceKey(birthdate string, now time.Time) int64 {
	parsed, ok := ParseDate(birthdate)
	if !ok {
		return MaxOccurrenceKey
	}

	today := StartOfDay(now)
	next := time.Date(today.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = next.AddDate(1, 0, 0)
	}
	return next.UnixMilli()
}

// CountdownLabel renders the number of calendar days until the next
// occurrence of a birthdate: "Today", "Tomorrow", or "In N days". Invalid
// input yields the empty string. Both ends of the difference use midnight
// anchors so the label is immune to time of day.
func CountdownLabel(birthdate string, now time.Time) string {
	parsed, ok := ParseDate(birthdate)
	if !ok {
		return ""
	}

	today := StartOfDay(now)
	next := time.Date(today.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = next.AddDate(1, 0, 0)
	}

	// Round instead of truncating: a DST transition inside the span makes the
	// difference a few minutes off a whole day.
	days := int(math.Round(next.Sub(today).Hours() / 24))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}
