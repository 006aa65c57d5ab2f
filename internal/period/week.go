package period

import (
	"fmt"
	"time"
)

// DefaultHistoryWeeks is how far back week navigation may page by default.
const DefaultHistoryWeeks = 12

// Week describes a Monday-anchored seven-day window resolved for read-side pagination.
type Week struct {
	Monday     time.Time
	Sunday     time.Time
	IsCurrent  bool
	PrevMonday time.Time
	NextMonday *time.Time
	Label      string
	DateRange  string
}

// Navigator resolves calendar week boundaries, clamped so a resolved week is never
// in the future and never precedes the configured history depth.
type Navigator struct {
	HistoryWeeks int
}

// NewNavigator returns a Navigator with the given history depth; non-positive values
// fall back to DefaultHistoryWeeks.
func NewNavigator(historyWeeks int) Navigator {
	if historyWeeks <= 0 {
		historyWeeks = DefaultHistoryWeeks
	}
	return Navigator{HistoryWeeks: historyWeeks}
}

// Resolve canonicalizes requested to the Monday of its containing week. A nil request
// resolves to the current week. The result never exceeds the week containing now and
// never precedes the history floor.
func (n Navigator) Resolve(now time.Time, requested *time.Time) Week {
	currentMonday := MondayOf(now)
	floorMonday := currentMonday.AddDate(0, 0, -7*n.HistoryWeeks)

	monday := currentMonday
	if requested != nil {
		monday = MondayOf(*requested)
	}
	if monday.After(currentMonday) {
		monday = currentMonday
	}
	if monday.Before(floorMonday) {
		monday = floorMonday
	}

	sunday := monday.AddDate(0, 0, 6)
	isCurrent := monday.Equal(currentMonday)

	prev := monday.AddDate(0, 0, -7)
	if prev.Before(floorMonday) {
		prev = floorMonday
	}

	var next *time.Time
	if !isCurrent {
		n := monday.AddDate(0, 0, 7)
		next = &n
	}

	return Week{
		Monday:     monday,
		Sunday:     sunday,
		IsCurrent:  isCurrent,
		PrevMonday: prev,
		NextMonday: next,
		Label:      weekLabel(monday, currentMonday),
		DateRange:  fmt.Sprintf("%d/%d ~ %d/%d", monday.Month(), monday.Day(), sunday.Month(), sunday.Day()),
	}
}

func weekLabel(monday, currentMonday time.Time) string {
	switch {
	case monday.Equal(currentMonday):
		return "this week"
	case monday.Equal(currentMonday.AddDate(0, 0, -7)):
		return "last week"
	default:
		return "week of " + monday.Format("Jan 2")
	}
}
