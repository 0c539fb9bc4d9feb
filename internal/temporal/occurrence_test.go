package temporal

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOccurrenceKeyNeverBeforeToday(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 30, 0, 0, time.UTC)
	today := StartOfDay(now)

	for _, birthdate := range []string{
		"1990-01-01", "1985-06-14", "1985-06-15", "2000-06-16", "1999-12-31",
	} {
		key := NextOccurrenceKey(birthdate, now)
		occurrence := time.UnixMilli(key).In(time.UTC)
		assert.False(t, occurrence.Before(today), "occurrence %v before today for %s", occurrence, birthdate)

		// at most one year past the raw month/day in now's year
		parsed, ok := ParseDate(birthdate)
		require.True(t, ok)
		thisYear := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		assert.True(t, occurrence.Equal(thisYear) || occurrence.Equal(thisYear.AddDate(1, 0, 0)))
	}
}

func TestNextOccurrenceKeyBirthdayTodayStaysToday(t *testing.T) {
	// Time of day must not push today's birthday into next year.
	now := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	key := NextOccurrenceKey("1985-06-15", now)
	assert.Equal(t, StartOfDay(now).UnixMilli(), key)
}

func TestNextOccurrenceKeyInvalidSortsLast(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	valid := NextOccurrenceKey("2024-12-31", now)
	assert.Equal(t, MaxOccurrenceKey, NextOccurrenceKey("", now))
	assert.Equal(t, MaxOccurrenceKey, NextOccurrenceKey("garbage", now))
	assert.Less(t, valid, MaxOccurrenceKey)
}

func TestNextOccurrenceKeyRoundTripOneYear(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	key := NextOccurrenceKey("1990-08-20", now)
	first := time.UnixMilli(key).In(time.UTC)

	later := now.AddDate(1, 0, 0)
	second := time.UnixMilli(NextOccurrenceKey("1990-08-20", later)).In(time.UTC)

	assert.Equal(t, first.Month(), second.Month())
	assert.Equal(t, first.Day(), second.Day())
	assert.Equal(t, first.Year()+1, second.Year())
}

func TestCountdownLabel(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today", CountdownLabel("1990-06-15", now))
	assert.Equal(t, "Tomorrow", CountdownLabel("1990-06-16", now))
	assert.Equal(t, "In 2 days", CountdownLabel("1990-06-17", now))
	assert.Equal(t, "In 10 days", CountdownLabel("1990-06-25", now))
	assert.Equal(t, "", CountdownLabel("", now))
	assert.Equal(t, "", CountdownLabel("never", now))

	// yesterday's month/day wraps to next year
	assert.Equal(t, "In 364 days", CountdownLabel("1990-06-14", now))
}

func TestCountdownLabelLeapDay(t *testing.T) {
	// Feb 29 birthdate in a non-leap year lands on Mar 1.
	now := time.Date(2023, 2, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Tomorrow", CountdownLabel("2000-02-29", now))
}

func TestOccurrenceSortIsStableOnTies(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	type person struct {
		name      string
		birthdate string
	}
	people := []person{
		{"first", "1990-07-01"},
		{"second", "1984-07-01"}, // same month/day, different year: identical key
		{"third", "1970-06-20"},
		{"missing", ""},
	}

	sort.SliceStable(people, func(i, j int) bool {
		return NextOccurrenceKey(people[i].birthdate, now) < NextOccurrenceKey(people[j].birthdate, now)
	})

	names := make([]string, 0, len(people))
	for _, p := range people {
		names = append(names, p.name)
	}
	assert.Equal(t, []string{"third", "first", "second", "missing"}, names)
}
