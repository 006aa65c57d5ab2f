package period

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidPeriod indicates an unrecognized keyword or malformed explicit date pair.
var ErrInvalidPeriod = errors.New("invalid period")

// Range describes a resolved reporting period. Start and End are midnight-anchored
// dates in the reference time's location, both inclusive.
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

var shortDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}$`)

// Keywords lists the symbolic periods Resolve accepts.
var Keywords = []string{"thisweek", "lastweek", "thismonth", "lastmonth"}

// Resolve maps a symbolic keyword or an explicit two-short-date pair to a concrete
// range anchored to now. Explicit dates use YY-MM-DD and are expanded into the 2000s;
// they are returned in the order given, without checking start <= end.
func Resolve(now time.Time, input string) (Range, error) {
	args := strings.Fields(strings.ToLower(strings.TrimSpace(input)))

	switch len(args) {
	case 1:
		return resolveKeyword(now, args[0])
	case 2:
		return resolveExplicit(now.Location(), args[0], args[1])
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, input)
	}
}

func resolveKeyword(now time.Time, keyword string) (Range, error) {
	normalized := strings.ReplaceAll(keyword, "-", "")

	switch normalized {
	case "week", "thisweek":
		monday := MondayOf(now)
		return Range{Start: monday, End: monday.AddDate(0, 0, 6), Label: "this week"}, nil
	case "lastweek":
		monday := MondayOf(now).AddDate(0, 0, -7)
		return Range{Start: monday, End: monday.AddDate(0, 0, 6), Label: "last week"}, nil
	case "thismonth":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)
		return Range{Start: first, End: last, Label: strings.ToLower(first.Month().String())}, nil
	case "lastmonth":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		last := first.AddDate(0, 1, -1)
		return Range{Start: first, End: last, Label: strings.ToLower(first.Month().String())}, nil
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, keyword)
	}
}

func resolveExplicit(loc *time.Location, startInput, endInput string) (Range, error) {
	if !shortDatePattern.MatchString(startInput) || !shortDatePattern.MatchString(endInput) {
		return Range{}, fmt.Errorf("%w: expected YY-MM-DD YY-MM-DD", ErrInvalidPeriod)
	}

	start, err := time.ParseInLocation("2006-01-02", "20"+startInput, loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, startInput)
	}
	end, err := time.ParseInLocation("2006-01-02", "20"+endInput, loc)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, endInput)
	}

	return Range{Start: start, End: end, Label: startInput + " ~ " + endInput}, nil
}

// MondayOf returns midnight of the Monday beginning the week containing t.
// Sunday belongs to the week it ends, not the one it would start.
func MondayOf(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -daysFromMonday)
}

// DateKey renders t's calendar date as the YYYY-MM-DD key used by the session log.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Days lists every calendar date in [start, end] inclusive. An inverted range yields nil.
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
