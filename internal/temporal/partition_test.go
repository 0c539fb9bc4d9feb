package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// now is Sunday 2024-03-10 09:00 UTC for all partition tests.
var partitionNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestParseView(t *testing.T) {
	view, ok := ParseView("")
	assert.True(t, ok)
	assert.Equal(t, ViewUpcoming, view)

	view, ok = ParseView("Past")
	assert.True(t, ok)
	assert.Equal(t, ViewPast, view)

	_, ok = ParseView("yesterday")
	assert.False(t, ok)
}

func TestInTodayWindow(t *testing.T) {
	// ongoing overlap: started yesterday 23:00, ends today 01:00
	assert.True(t, InTodayWindow(ts("2024-03-09T23:00:00Z"), ts("2024-03-10T01:00:00Z"), partitionNow))

	// point event late today is still today
	assert.True(t, InTodayWindow(ts("2024-03-10T23:59:00Z"), nil, partitionNow))

	// point event yesterday is excluded
	assert.False(t, InTodayWindow(ts("2024-03-09T18:00:00Z"), nil, partitionNow))

	// starting tomorrow is excluded
	assert.False(t, InTodayWindow(ts("2024-03-11T00:00:00Z"), nil, partitionNow))

	// no start means no window membership
	assert.False(t, InTodayWindow(nil, ts("2024-03-10T12:00:00Z"), partitionNow))
}

func TestIsExpired(t *testing.T) {
	// effective end is ends_at when present
	assert.True(t, IsExpired(ts("2024-03-10T06:00:00Z"), ts("2024-03-10T08:00:00Z"), partitionNow))
	assert.False(t, IsExpired(ts("2024-03-10T06:00:00Z"), ts("2024-03-10T10:00:00Z"), partitionNow))

	// else starts_at
	assert.True(t, IsExpired(ts("2024-03-10T08:59:00Z"), nil, partitionNow))
	assert.False(t, IsExpired(ts("2024-03-10T09:01:00Z"), nil, partitionNow))
	assert.False(t, IsExpired(nil, nil, partitionNow))
}

func TestIsExpiredIndependentOfTodayFilter(t *testing.T) {
	// an event inside the today window can still be expired; the flag mutes
	// the row, it never removes it
	start, end := ts("2024-03-10T06:00:00Z"), ts("2024-03-10T08:00:00Z")
	assert.True(t, InTodayWindow(start, end, partitionNow))
	assert.True(t, IsExpired(start, end, partitionNow))
}

func TestMatchesQuery(t *testing.T) {
	assert.True(t, MatchesQuery("Dentist visit", "", ""))
	assert.True(t, MatchesQuery("Dentist visit", "", "DENT"))
	assert.True(t, MatchesQuery("Errands", "pick up the CAKE", "cake"))
	assert.False(t, MatchesQuery("Dentist visit", "", "school"))
}

func TestPartitionToday(t *testing.T) {
	rows := []EventRow{
		{StartsAt: ts("2024-03-09T23:00:00Z"), EndsAt: ts("2024-03-10T01:00:00Z"), Title: "overnight"},
		{StartsAt: ts("2024-03-10T23:59:00Z"), Title: "late point"},
		{StartsAt: ts("2024-03-09T18:00:00Z"), Title: "yesterday point"},
		{StartsAt: ts("2024-03-10T12:00:00Z"), Title: "lunch"},
	}

	order := Partition(rows, ViewToday, "", partitionNow)
	assert.Equal(t, []int{0, 3, 1}, order)
}

func TestPartitionSearchAppliesBeforeTemporalFilter(t *testing.T) {
	rows := []EventRow{
		{StartsAt: ts("2024-03-10T12:00:00Z"), Title: "lunch with mom"},
		{StartsAt: ts("2024-03-10T13:00:00Z"), Title: "call plumber"},
	}

	order := Partition(rows, ViewToday, "plumber", partitionNow)
	assert.Equal(t, []int{1}, order)
}

func TestPartitionUpcomingMissingStartSortsLast(t *testing.T) {
	rows := []EventRow{
		{Title: "no date"},
		{StartsAt: ts("2024-03-12T09:00:00Z"), Title: "later"},
		{StartsAt: ts("2024-03-11T09:00:00Z"), Title: "sooner"},
	}

	order := Partition(rows, ViewUpcoming, "", partitionNow)
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestPartitionPastDescendingMissingStartLast(t *testing.T) {
	rows := []EventRow{
		{StartsAt: ts("2024-03-01T09:00:00Z"), Title: "older"},
		{Title: "no date"},
		{StartsAt: ts("2024-03-08T09:00:00Z"), Title: "newer"},
	}

	// past orders descending; the missing start takes the minimum sentinel so
	// it lands at the end there too
	order := Partition(rows, ViewPast, "", partitionNow)
	assert.Equal(t, []int{2, 0, 1}, order)
}

func TestPartitionAllPreservesReceivedOrder(t *testing.T) {
	rows := []EventRow{
		{StartsAt: ts("2024-03-12T09:00:00Z"), Title: "b"},
		{StartsAt: ts("2024-03-01T09:00:00Z"), Title: "a"},
		{Title: "c"},
	}

	order := Partition(rows, ViewAll, "", partitionNow)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestPartitionStableOnEqualStarts(t *testing.T) {
	same := ts("2024-03-11T09:00:00Z")
	rows := []EventRow{
		{StartsAt: same, Title: "first"},
		{StartsAt: same, Title: "second"},
		{StartsAt: same, Title: "third"},
	}

	order := Partition(rows, ViewUpcoming, "", partitionNow)
	assert.Equal(t, []int{0, 1, 2}, order)
}
