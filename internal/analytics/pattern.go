package analytics

import (
	"time"

	"github.com/Shimsuyeon/focus-fairy/internal/session"
)

// LookbackDays is the fixed window pattern analysis operates over.
const LookbackDays = 30

// weeklyAvgDivisor approximates the number of weeks in the lookback. The original
// system divided by a flat 4 rather than 30/7; that behavior is kept.
const weeklyAvgDivisor = 4

// TimeSlot buckets a session by its local start hour.
type TimeSlot int

const (
	SlotMorning   TimeSlot = iota // 06:00-12:00
	SlotAfternoon                 // 12:00-18:00
	SlotEvening                   // 18:00-22:00
	SlotNight                     // 22:00-06:00, wrapping midnight
)

// TimeSlots lists the buckets in display order.
var TimeSlots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

// Label returns the bucket's display name.
func (s TimeSlot) Label() string {
	switch s {
	case SlotMorning:
		return "morning"
	case SlotAfternoon:
		return "afternoon"
	case SlotEvening:
		return "evening"
	default:
		return "night"
	}
}

// HourRange returns the bucket's clock range for display.
func (s TimeSlot) HourRange() string {
	switch s {
	case SlotMorning:
		return "06:00~12:00"
	case SlotAfternoon:
		return "12:00~18:00"
	case SlotEvening:
		return "18:00~22:00"
	default:
		return "22:00~06:00"
	}
}

// SlotFor maps a local start hour to its time-of-day bucket. Night is the default for
// any hour the other three do not cover.
func SlotFor(hour int) TimeSlot {
	switch {
	case hour >= 6 && hour < 12:
		return SlotMorning
	case hour >= 12 && hour < 18:
		return SlotAfternoon
	case hour >= 18 && hour < 22:
		return SlotEvening
	default:
		return SlotNight
	}
}

// Pattern summarizes one user's focus behavior over the lookback window.
type Pattern struct {
	Sessions   int
	Total      time.Duration
	SlotTotals map[TimeSlot]time.Duration
	DayTotals  map[time.Weekday]time.Duration

	TopSlot      TimeSlot
	TopSlotShare int // percent of Total
	TopDay       time.Weekday

	AvgSession time.Duration
	Longest    time.Duration
	WeeklyAvg  time.Duration
}

// Analyze buckets the sessions by local start time and derives the summary metrics.
// Start hours and weekdays are evaluated in loc. Empty input yields ErrNoData.
func Analyze(sessions []session.Session, loc *time.Location) (Pattern, error) {
	if len(sessions) == 0 {
		return Pattern{}, ErrNoData
	}

	p := Pattern{
		Sessions:   len(sessions),
		SlotTotals: make(map[TimeSlot]time.Duration, 4),
		DayTotals:  make(map[time.Weekday]time.Duration, 7),
	}

	for _, s := range sessions {
		local := s.Start.In(loc)
		p.SlotTotals[SlotFor(local.Hour())] += s.Duration
		p.DayTotals[local.Weekday()] += s.Duration
		p.Total += s.Duration
		if s.Duration > p.Longest {
			p.Longest = s.Duration
		}
	}

	p.TopSlot = topSlot(p.SlotTotals)
	p.TopDay = topDay(p.DayTotals)
	if p.Total > 0 {
		p.TopSlotShare = int(float64(p.SlotTotals[p.TopSlot]) / float64(p.Total) * 100)
	}
	p.AvgSession = p.Total / time.Duration(p.Sessions)
	p.WeeklyAvg = p.Total / weeklyAvgDivisor

	return p, nil
}

func topSlot(totals map[TimeSlot]time.Duration) TimeSlot {
	best := SlotMorning
	for _, slot := range TimeSlots {
		if totals[slot] > totals[best] {
			best = slot
		}
	}
	return best
}

func topDay(totals map[time.Weekday]time.Duration) time.Weekday {
	best := time.Sunday
	for day := time.Sunday; day <= time.Saturday; day++ {
		if totals[day] > totals[best] {
			best = day
		}
	}
	return best
}
