package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Shimsuyeon/focus-fairy/internal/analytics"
	"github.com/Shimsuyeon/focus-fairy/internal/period"
	"github.com/Shimsuyeon/focus-fairy/internal/session"
)

const (
	chartBaseURL = "https://quickchart.io/chart"
	chartWidth   = 500
	chartHeight  = 300
)

// weekdayOrder lays the bars out Monday first, matching the week boundary used
// everywhere else.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// handlePattern analyzes the requester's recent sessions. No argument renders a text
// summary; "time" and "day" render bar charts of the slot and weekday breakdowns.
func (d *Dispatcher) handlePattern(ctx context.Context, req Request, text string) Response {
	now := d.sessions.NowLocal()
	start := now.AddDate(0, 0, -analytics.LookbackDays+1)

	sessions, err := d.sessions.Range(ctx, req.TeamID, start, now, req.UserID)
	if err != nil {
		return d.failure(req, "pattern", err)
	}

	pattern, err := analytics.Analyze(sessions, d.sessions.Location())
	if errors.Is(err, analytics.ErrNoData) {
		return Response{Visibility: Ephemeral, Text: msgPatternEmpty}
	}
	if err != nil {
		return d.failure(req, "pattern", err)
	}

	switch text {
	case "":
		return Response{Visibility: Ephemeral, Text: patternSummary(pattern)}
	case "time":
		img, err := slotChartURL(pattern)
		if err != nil {
			return d.failure(req, "pattern", err)
		}
		return Response{
			Visibility: Ephemeral,
			Text:       ":fairy-chart: Your focus time by time of day:",
			ImageURL:   img,
			ImageAlt:   "focus time by time of day",
		}
	case "day":
		img, err := dayChartURL(pattern)
		if err != nil {
			return d.failure(req, "pattern", err)
		}
		return Response{
			Visibility: Ephemeral,
			Text:       ":fairy-chart: Your focus time by weekday:",
			ImageURL:   img,
			ImageAlt:   "focus time by weekday",
		}
	default:
		return Response{Visibility: Ephemeral, Text: msgPatternUsage}
	}
}

func patternSummary(p analytics.Pattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":fairy-wand: *Your focus pattern, last %d days*\n", analytics.LookbackDays)
	fmt.Fprintf(&b, ">Sessions: *%d*, total *%s*\n", p.Sessions, session.FormatDuration(p.Total))
	fmt.Fprintf(&b, ">Peak window: *%s* (%s), %d%% of your focus time\n", titler.String(p.TopSlot.Label()), p.TopSlot.HourRange(), p.TopSlotShare)
	fmt.Fprintf(&b, ">Strongest day: *%s*\n", p.TopDay)
	fmt.Fprintf(&b, ">Average session: *%s*, longest *%s*\n", session.FormatDuration(p.AvgSession), session.FormatDuration(p.Longest))
	fmt.Fprintf(&b, ">Weekly average: *%s*\n", session.FormatDuration(p.WeeklyAvg))
	b.WriteString("Try `/pattern time` or `/pattern day` for a chart.")
	return b.String()
}

// chartConfig mirrors the Chart.js subset the chart renderer accepts.
type chartConfig struct {
	Type string    `json:"type"`
	Data chartData `json:"data"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
}

func chartURL(labels []string, hours []float64, title string) (string, error) {
	cfg := chartConfig{
		Type: "horizontalBar",
		Data: chartData{
			Labels: labels,
			Datasets: []chartDataset{{
				Label:           title,
				Data:            hours,
				BackgroundColor: "rgba(149, 117, 205, 0.8)",
			}},
		},
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode chart config: %w", err)
	}

	q := url.Values{}
	q.Set("c", string(raw))
	q.Set("w", fmt.Sprint(chartWidth))
	q.Set("h", fmt.Sprint(chartHeight))
	return chartBaseURL + "?" + q.Encode(), nil
}

func slotChartURL(p analytics.Pattern) (string, error) {
	labels := make([]string, 0, len(analytics.TimeSlots))
	hours := make([]float64, 0, len(analytics.TimeSlots))
	for _, slot := range analytics.TimeSlots {
		labels = append(labels, fmt.Sprintf("%s (%s)", titler.String(slot.Label()), slot.HourRange()))
		hours = append(hours, p.SlotTotals[slot].Hours())
	}
	return chartURL(labels, hours, "Focus hours")
}

func dayChartURL(p analytics.Pattern) (string, error) {
	labels := make([]string, 0, len(weekdayOrder))
	hours := make([]float64, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		labels = append(labels, day.String()[:3])
		hours = append(hours, p.DayTotals[day].Hours())
	}
	return chartURL(labels, hours, "Focus hours")
}

// dailyChartURL plots one bar per calendar day that has at least one session.
func dailyChartURL(sessions []session.Session, label string, loc *time.Location) (string, error) {
	byDay := make(map[string]time.Duration)
	for _, s := range sessions {
		byDay[period.DateKey(s.Start.In(loc))] += s.Duration
	}
	days := make([]string, 0, len(byDay))
	for key := range byDay {
		days = append(days, key)
	}
	sort.Strings(days)

	hours := make([]float64, 0, len(days))
	labels := make([]string, 0, len(days))
	for _, key := range days {
		labels = append(labels, key[5:])
		hours = append(hours, byDay[key].Hours())
	}
	return chartURL(labels, hours, "Focus hours, "+label)
}

const (
	msgPatternEmpty = ":fairy-moon: Not enough data yet. Record a few sessions and try `/pattern` again."
	msgPatternUsage = "Usage: `/pattern` for a summary, `/pattern time` or `/pattern day` for charts."
)
