// Package daterange maps the dashboard's named ranges (today, this week,
// last month, ...) to concrete [start-of-day, end-of-day] bounds used to
// build session queries. Weeks start on Sunday.
package daterange

import "time"

type Range struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is unbounded (no filter).
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls on a calendar day within the range.
// An unbounded range contains everything.
func (r Range) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	day := startOfDay(t)
	return !day.Before(startOfDay(r.Start)) && !day.After(startOfDay(r.End))
}

const (
	Today     = "today"
	ThisWeek  = "thisWeek"
	LastWeek  = "lastWeek"
	ThisMonth = "thisMonth"
	LastMonth = "lastMonth"
	ThisYear  = "thisYear"
)

// Named resolves a range keyword relative to now. The second return is
// false for unknown keywords.
func Named(keyword string, now time.Time) (Range, bool) {
	today := startOfDay(now)
	dow := int(today.Weekday()) // Sunday == 0

	switch keyword {
	case Today:
		return Range{Start: today, End: endOfDay(today)}, true
	case ThisWeek:
		start := today.AddDate(0, 0, -dow)
		end := today.AddDate(0, 0, 6-dow)
		return Range{Start: start, End: endOfDay(end)}, true
	case LastWeek:
		start := today.AddDate(0, 0, -dow-7)
		end := today.AddDate(0, 0, -dow-1)
		return Range{Start: start, End: endOfDay(end)}, true
	case ThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, -1)
		return Range{Start: start, End: endOfDay(end)}, true
	case LastMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		end := start.AddDate(0, 1, -1)
		return Range{Start: start, End: endOfDay(end)}, true
	case ThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: endOfDay(end)}, true
	default:
		return Range{}, false
	}
}

// Custom normalizes an explicit pair to full-day bounds.
func Custom(start, end time.Time) Range {
	return Range{Start: startOfDay(start), End: endOfDay(end)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
