// Package query resolves calendar view windows: the inclusive start and
// end instants covered by a day, week, or month view around a reference
// date, and navigation between adjacent windows.
package query

import "time"

type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// DateLayout is the wire form of calendar dates throughout the planner.
const DateLayout = "2006-01-02"

// Window returns the inclusive [start, end] range for the view holding
// date. Days run 00:00:00 to 23:59:59.999; weeks are Sunday-anchored;
// months cover the first through last calendar day.
func Window(date time.Time, g Granularity) (time.Time, time.Time) {
	switch g {
	case Week:
		start := startOfDay(date).AddDate(0, 0, -int(date.Weekday()))
		return start, endOfDay(start.AddDate(0, 0, 6))
	case Month:
		start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
		// Day 0 of the next month is the last day of this one.
		last := time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, date.Location())
		return start, endOfDay(last)
	default:
		return startOfDay(date), endOfDay(date)
	}
}

// WindowDates returns the window as "YYYY-MM-DD" strings, the form the
// plan store and mutation cache key on.
func WindowDates(date time.Time, g Granularity) (string, string) {
	start, end := Window(date, g)
	return start.Format(DateLayout), end.Format(DateLayout)
}

// Navigate steps the reference date one window forward (direction > 0)
// or backward (direction < 0): a day, seven days, or one calendar month.
func Navigate(date time.Time, direction int, g Granularity) time.Time {
	step := 1
	if direction < 0 {
		step = -1
	}
	switch g {
	case Week:
		return date.AddDate(0, 0, 7*step)
	case Month:
		return date.AddDate(0, step, 0)
	default:
		return date.AddDate(0, 0, step)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
