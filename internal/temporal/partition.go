package temporal

import (
	"math"
	"sort"
	"strings"
	"time"
)

// View selects the event-list filtering and ordering policy.
type View string

const (
	ViewUpcoming View = "upcoming"
	ViewToday    View = "today"
	ViewPast     View = "past"
	ViewAll      View = "all"
)

// ParseView maps a query-string value to a View. Empty input defaults to
// upcoming; anything else unknown reports ok=false.
func ParseView(value string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return ViewUpcoming, true
	case ViewUpcoming:
		return ViewUpcoming, true
	case ViewToday:
		return ViewToday, true
	case ViewPast:
		return ViewPast, true
	case ViewAll:
		return ViewAll, true
	default:
		return ViewUpcoming, false
	}
}

// EventRow carries the fields of one event the partitioner reads. Nil times
// mean the value is absent or failed to parse upstream.
type EventRow struct {
	StartsAt    *time.Time
	EndsAt      *time.Time
	Title       string
	Description string
}

// MatchesQuery is the list search predicate: case-insensitive substring match
// over title and description together. An empty query matches everything.
func MatchesQuery(title, description, query string) bool {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return true
	}
	haystack := strings.ToLower(title + " " + description)
	return strings.Contains(haystack, normalized)
}

// InTodayWindow reports whether an event overlaps the half-open window
// [today-midnight, tomorrow-midnight). A ranged event only needs to still be
// active at the window start; a point event must start inside the window.
func InTodayWindow(startsAt, endsAt *time.Time, now time.Time) bool {
	if startsAt == nil {
		return false
	}
	windowStart := StartOfDay(now)
	windowEnd := windowStart.AddDate(0, 0, 1)

	if !startsAt.Before(windowEnd) {
		return false
	}
	if endsAt != nil {
		return !endsAt.Before(windowStart)
	}
	return !startsAt.Before(windowStart)
}

// IsExpired reports whether an event's effective end (ends_at when set, else
// starts_at) is strictly before now. Presentational only: rows stay listed
// and merely render muted. Keep this decoupled from the view filters.
func IsExpired(startsAt, endsAt *time.Time, now time.Time) bool {
	if startsAt == nil {
		return false
	}
	if endsAt != nil {
		return endsAt.Before(now)
	}
	return startsAt.Before(now)
}

// startSortKey converts a start instant to an orderable key. Missing starts
// take the sentinel that places them logically last for the view's direction:
// max for ascending views, min for the descending past view. The sentinel is
// re-derived per view rather than shared.
func startSortKey(startsAt *time.Time, view View) int64 {
	if startsAt == nil {
		if view == ViewPast {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return startsAt.UnixMilli()
}

// Partition returns the indexes of rows the view displays, in display order.
// The text search is applied before any temporal filter. Sorting is stable:
// rows with identical keys keep their received relative order, and the all
// view preserves received order outright.
func Partition(rows []EventRow, view View, query string, now time.Time) []int {
	selected := make([]int, 0, len(rows))
	for i, row := range rows {
		if !MatchesQuery(row.Title, row.Description, query) {
			continue
		}
		if view == ViewToday && !InTodayWindow(row.StartsAt, row.EndsAt, now) {
			continue
		}
		selected = append(selected, i)
	}

	switch view {
	case ViewPast:
		sort.SliceStable(selected, func(a, b int) bool {
			return startSortKey(rows[selected[a]].StartsAt, view) > startSortKey(rows[selected[b]].StartsAt, view)
		})
	case ViewAll:
		// received order
	default:
		sort.SliceStable(selected, func(a, b int) bool {
			return startSortKey(rows[selected[a]].StartsAt, view) < startSortKey(rows[selected[b]].StartsAt, view)
		})
	}
	return selected
}
