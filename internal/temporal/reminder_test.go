package temporal

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(value string) *time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func TestReminderLabelNoneCases(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "", ReminderLabel(nil, 60, now), "missing start")
	assert.Equal(t, "", ReminderLabel(ts("2024-03-12T09:00:00Z"), 0, now), "zero lead")
	assert.Equal(t, "", ReminderLabel(ts("2024-03-12T09:00:00Z"), -5, now), "negative lead")

	// once the event has started the label disappears, whatever the lead
	assert.Equal(t, "", ReminderLabel(ts("2024-03-10T09:00:00Z"), 600, now))
	assert.Equal(t, "", ReminderLabel(ts("2024-03-09T09:00:00Z"), 600, now))
}

func TestReminderLabelDue(t *testing.T) {
	// start 10:00, lead 90m: reminder instant 08:30, now 09:00 is past it
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, DueLabel, ReminderLabel(ts("2024-03-10T10:00:00Z"), 90, now))

	// exactly at the reminder instant counts as due
	assert.Equal(t, DueLabel, ReminderLabel(ts("2024-03-10T10:00:00Z"), 60, now))
}

func TestReminderLabelBands(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	// remaining 47h to the reminder instant
	assert.Equal(t, "1d 23h", ReminderLabel(ts("2024-03-12T09:00:00Z"), 60, now))

	// exact whole days drop the hour part
	assert.Equal(t, "2d", ReminderLabel(ts("2024-03-12T10:00:00Z"), 60, now))

	// hours band with and without minutes
	assert.Equal(t, "1h 30m", ReminderLabel(ts("2024-03-10T10:45:00Z"), 15, now))
	assert.Equal(t, "2h", ReminderLabel(ts("2024-03-10T11:30:00Z"), 30, now))

	// minutes band
	assert.Equal(t, "45m", ReminderLabel(ts("2024-03-10T10:00:00Z"), 15, now))
}

func TestReminderLabelCeilingRounding(t *testing.T) {
	// reminder instant 30.1 minutes away must read 31m, not 30m
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.Add(30*time.Minute + 6*time.Second + 60*time.Minute)
	assert.Equal(t, "31m", ReminderLabel(&start, 60, now))

	// an exact whole number of minutes is not bumped
	exact := now.Add(90 * time.Minute)
	assert.Equal(t, "30m", ReminderLabel(&exact, 60, now))
}

func TestReminderLabelMonotonicBands(t *testing.T) {
	// As now advances toward the reminder instant the displayed remaining
	// minutes never increase.
	start := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	lead := 60

	previous := int(^uint(0) >> 1)
	for offset := 48 * time.Hour; offset > 0; offset -= 7 * time.Minute {
		now := start.Add(-offset)
		label := ReminderLabel(&start, lead, now)
		if label == "" || label == DueLabel {
			continue
		}
		minutes := parseLabelMinutes(t, label)
		assert.LessOrEqual(t, minutes, previous, "label %q regressed", label)
		previous = minutes
	}
}

func parseLabelMinutes(t *testing.T, label string) int {
	t.Helper()
	var days, hours, minutes int
	for _, part := range strings.Fields(label) {
		value, err := strconv.Atoi(part[:len(part)-1])
		if err != nil {
			t.Fatalf("unparseable label part %q", part)
		}
		switch part[len(part)-1] {
		case 'd':
			days = value
		case 'h':
			hours = value
		case 'm':
			minutes = value
		default:
			t.Fatalf("unknown unit in %q", part)
		}
	}
	return days*24*60 + hours*60 + minutes
}
