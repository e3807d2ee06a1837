package domain

import "time"

// Window is an inclusive date range compared at day granularity.
type Window struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the window selects nothing. A caller-supplied
// start after end is served as an empty result, not an error.
func (w Window) Empty() bool {
	return w.Start.After(w.End)
}

// Contains reports whether t falls inside the window, ignoring
// time-of-day on both sides.
func (w Window) Contains(t time.Time) bool {
	day := DateOnly(t)
	return !day.Before(DateOnly(w.Start)) && !day.After(DateOnly(w.End))
}

// DateOnly truncates t to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CurrentMonth is the first through last day of now's month.
func CurrentMonth(now time.Time) Window {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

// LastThreeMonths runs from the start of the month two months back
// through the end of the current month.
func LastThreeMonths(now time.Time) Window {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)
	return Window{Start: start, End: end}
}

// CurrentYear is January 1 through December 31 of now's year.
func CurrentYear(now time.Time) Window {
	now = now.UTC()
	return Window{
		Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// ResolveWindow maps a named range to its window. Custom ranges fall back
// to the current month when either bound is missing.
func ResolveWindow(rangeName string, start, end *time.Time, now time.Time) (Window, error) {
	switch rangeName {
	case "", "month":
		return CurrentMonth(now), nil
	case "quarter":
		return LastThreeMonths(now), nil
	case "year":
		return CurrentYear(now), nil
	case "custom":
		window := CurrentMonth(now)
		if start != nil {
			window.Start = DateOnly(*start)
		}
		if end != nil {
			window.End = DateOnly(*end)
		}
		return window, nil
	default:
		return Window{}, ErrInvalidRange
	}
}
