package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Shimsuyeon/focus-fairy/internal/analytics"
	"github.com/Shimsuyeon/focus-fairy/internal/period"
	"github.com/Shimsuyeon/focus-fairy/internal/session"
	"github.com/Shimsuyeon/focus-fairy/internal/workspace"
)

// handleWeekly renders the ranking for one week. An optional YY-MM-DD argument
// navigates to a past week; the navigator clamps out-of-range requests.
func (d *Dispatcher) handleWeekly(ctx context.Context, req Request, text string) Response {
	now := d.sessions.NowLocal()

	var requested *time.Time
	if text != "" {
		t, err := time.ParseInLocation("06-01-02", text, d.sessions.Location())
		if err != nil {
			return Response{Visibility: Ephemeral, Text: msgWeeklyUsage}
		}
		requested = &t
	}
	week := d.nav.Resolve(now, requested)

	sessions, err := d.sessions.Range(ctx, req.TeamID, week.Monday, week.Sunday, "")
	if err != nil {
		return d.failure(req, "weekly", err)
	}

	report, err := analytics.Aggregate(sessions)
	if errors.Is(err, analytics.ErrNoData) {
		return Response{Visibility: Broadcast, Text: msgRankingEmpty(week.Label)}
	}
	if err != nil {
		return d.failure(req, "weekly", err)
	}

	names := workspace.NewNameCache(d.names())
	var b strings.Builder
	fmt.Fprintf(&b, ":fairy-chart: *Focus ranking, %s* (%s)\n", week.Label, week.DateRange)
	writeRanking(ctx, &b, req.TeamID, report, names)
	b.WriteString(weekFooter(week))
	return Response{Visibility: Broadcast, Text: strings.TrimRight(b.String(), "\n")}
}

// handleReport renders the ranking for an arbitrary period: keywords like
// "lastweek" or "thismonth", or an explicit "YY-MM-DD YY-MM-DD" pair.
func (d *Dispatcher) handleReport(ctx context.Context, req Request, text string) Response {
	if text == "" {
		text = "thisweek"
	}
	rng, err := period.Resolve(d.sessions.NowLocal(), text)
	if err != nil {
		return Response{Visibility: Ephemeral, Text: msgReportUsage}
	}

	sessions, err := d.sessions.Range(ctx, req.TeamID, rng.Start, rng.End, "")
	if err != nil {
		return d.failure(req, "report", err)
	}

	report, err := analytics.Aggregate(sessions)
	if errors.Is(err, analytics.ErrNoData) {
		return Response{Visibility: Broadcast, Text: msgRankingEmpty(rng.Label)}
	}
	if err != nil {
		return d.failure(req, "report", err)
	}

	names := workspace.NewNameCache(d.names())
	var b strings.Builder
	fmt.Fprintf(&b, ":fairy-chart: *Focus ranking, %s*\n", titler.String(rng.Label))
	writeRanking(ctx, &b, req.TeamID, report, names)
	return Response{Visibility: Broadcast, Text: strings.TrimRight(b.String(), "\n")}
}

// handleExport lists the requester's raw sessions for a period, day by day in
// chronological order. "chart" as the last word swaps the listing for a chart.
func (d *Dispatcher) handleExport(ctx context.Context, req Request, text string) Response {
	wantChart := false
	if rest, ok := strings.CutSuffix(text, "chart"); ok {
		wantChart = true
		text = strings.TrimSpace(rest)
	}
	if text == "" {
		text = "thisweek"
	}

	rng, err := period.Resolve(d.sessions.NowLocal(), text)
	if err != nil {
		return Response{Visibility: Ephemeral, Text: msgExportUsage}
	}

	sessions, err := d.sessions.Range(ctx, req.TeamID, rng.Start, rng.End, req.UserID)
	if err != nil {
		return d.failure(req, "export", err)
	}
	if len(sessions) == 0 {
		return Response{Visibility: Ephemeral, Text: msgExportEmpty(rng.Label)}
	}

	if wantChart {
		img, err := dailyChartURL(sessions, rng.Label, d.sessions.Location())
		if err != nil {
			return d.failure(req, "export", err)
		}
		return Response{
			Visibility: Ephemeral,
			Text:       fmt.Sprintf(":fairy-chart: Your focus time, %s:", rng.Label),
			ImageURL:   img,
			ImageAlt:   "daily focus time chart",
		}
	}

	return Response{Visibility: Ephemeral, Text: exportText(sessions, rng.Label, d.sessions.Location())}
}

func writeRanking(ctx context.Context, b *strings.Builder, teamID string, report analytics.Report, names *workspace.NameCache) {
	for _, e := range report.Entries {
		fmt.Fprintf(b, "%s %d. %s, %s\n", medal(e.Tier), e.Rank, names.Name(ctx, teamID, e.UserID), session.FormatDuration(e.Total))
	}
	fmt.Fprintf(b, ">Team total: *%s*\n", session.FormatDuration(report.Total))
}

func weekFooter(week period.Week) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("`/weekly %s` for the previous week", week.PrevMonday.Format("06-01-02")))
	if week.NextMonday != nil {
		parts = append(parts, fmt.Sprintf("`/weekly %s` for the next", week.NextMonday.Format("06-01-02")))
	}
	return strings.Join(parts, ", ") + "."
}

// exportText groups the sessions by local date, days ascending, sessions in
// recorded order within each day.
func exportText(sessions []session.Session, label string, loc *time.Location) string {
	byDay := make(map[string][]session.Session)
	for _, s := range sessions {
		key := period.DateKey(s.Start.In(loc))
		byDay[key] = append(byDay[key], s)
	}
	days := make([]string, 0, len(byDay))
	for key := range byDay {
		days = append(days, key)
	}
	sort.Strings(days)

	var b strings.Builder
	var total time.Duration
	fmt.Fprintf(&b, ":fairy-chart: *Your focus sessions, %s*\n", label)
	for _, key := range days {
		var dayTotal time.Duration
		for _, s := range byDay[key] {
			dayTotal += s.Duration
		}
		fmt.Fprintf(&b, "*%s* (%s)\n", key, session.FormatDuration(dayTotal))
		for _, s := range byDay[key] {
			fmt.Fprintf(&b, "• %s ~ %s, %s\n",
				s.Start.In(loc).Format("15:04"), s.End.In(loc).Format("15:04"), session.FormatDuration(s.Duration))
		}
		total += dayTotal
	}
	fmt.Fprintf(&b, ">Total: *%s*", session.FormatDuration(total))
	return b.String()
}

func msgRankingEmpty(label string) string {
	return fmt.Sprintf(":fairy-sprout: No focus sessions recorded for %s yet. `/start` plants the first one!", label)
}

func msgExportEmpty(label string) string {
	return fmt.Sprintf(":fairy-moon: You have no recorded sessions for %s.", label)
}

const (
	msgWeeklyUsage = "Usage: `/weekly` for this week, or `/weekly 24-03-04` for the week containing that date."
	msgReportUsage = "Usage: `/report lastweek`, `/report thismonth`, or `/report 24-03-01 24-03-07`."
	msgExportUsage = "Usage: `/export lastweek`, `/export 24-03-01 24-03-07`, optionally ending with `chart`."
)
