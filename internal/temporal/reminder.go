package temporal

import (
	"fmt"
	"time"
)

// DueLabel is the fixed text shown once now has reached the reminder instant.
const DueLabel = "due"

// ReminderLabel reports the countdown text for an event reminder, or "" when
// no reminder applies. A reminder applies only before the event starts: once
// now is at or past the start the label disappears, whatever the lead time.
func ReminderLabel(startsAt *time.Time, minutesBefore int, now time.Time) string {
	if startsAt == nil || minutesBefore <= 0 {
		return ""
	}
	start := *startsAt
	if !now.Before(start) {
		return ""
	}

	reminderAt := start.Add(-time.Duration(minutesBefore) * time.Minute)
	if !now.Before(reminderAt) {
		return DueLabel
	}

	remaining := reminderAt.Sub(now)
	// Ceiling: a reminder due in 30.1 minutes reads "31m", never "30m". The
	// label may overstate the wait but never undercounts it.
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	return formatRemaining(minutes)
}

// formatRemaining renders whole minutes into the first matching band, largest
// first. Sub-hour detail is dropped once the remaining time spans days.
func formatRemaining(totalMinutes int) string {
	switch {
	case totalMinutes >= 24*60:
		days := totalMinutes / (24 * 60)
		hours := (totalMinutes % (24 * 60)) / 60
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	case totalMinutes >= 60:
		hours := totalMinutes / 60
		minutes := totalMinutes % 60
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", totalMinutes)
	}
}
