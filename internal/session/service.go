package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Shimsuyeon/focus-fairy/internal/period"
)

// MaxAutoDuration is the longest elapsed time recorded without explicit confirmation.
// Beyond it a close attempt returns a confirmation-needed result so a forgotten
// check-out is not silently recorded.
const MaxAutoDuration = 6 * time.Hour

const storeRetryDelay = 100 * time.Millisecond

// StartResult reports a successful check-in.
type StartResult struct {
	StartedAt time.Time
}

// EndResult reports the outcome of a close attempt. When NeedsConfirmation is set the
// session was NOT closed: the check-in survives and Elapsed carries the wall-clock time
// the caller is asked to confirm or override.
type EndResult struct {
	NeedsConfirmation bool
	Elapsed           time.Duration
	Session           Session
	WeekTotal         time.Duration
}

// Status describes a single user's current state and running totals.
type Status struct {
	Active    bool
	Elapsed   time.Duration
	WeekTotal time.Duration
	AllTime   time.Duration
}

// ParticipantStatus marks one of today's participants as still focusing or done.
// Total covers today's closed sessions; Elapsed is set only while Active.
type ParticipantStatus struct {
	UserID  string
	Active  bool
	Elapsed time.Duration
	Total   time.Duration
}

// Service orchestrates the check-in state machine, the day-partitioned session log and
// the aggregation queries over it.
type Service struct {
	repo  Repository
	clock Clock
	ids   IDGenerator
	loc   *time.Location
}

// NewService constructs a Service with the provided collaborators.
func NewService(repo Repository, clock Clock, ids IDGenerator, loc *time.Location) (*Service, error) {
	if repo == nil {
		return nil, errors.New("repo is required")
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if ids == nil {
		return nil, errors.New("id generator is required")
	}
	if loc == nil {
		return nil, errors.New("location is required")
	}
	return &Service{repo: repo, clock: clock, ids: ids, loc: loc}, nil
}

// NowLocal returns the current instant in the service's fixed local offset.
func (s *Service) NowLocal() time.Time {
	return s.clock.Now().In(s.loc)
}

// Location returns the fixed local offset used for calendar partitioning.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Start opens a focus session for the user. A second start while one is active is
// rejected with AlreadyActiveError and never overwrites the original start timestamp.
// The user is idempotently registered in today's participant set.
func (s *Service) Start(ctx context.Context, teamID, userID string) (StartResult, error) {
	now := s.clock.Now()

	existing, err := s.repo.GetCheckIn(ctx, teamID, userID)
	switch {
	case err == nil:
		return StartResult{}, &AlreadyActiveError{StartedAt: existing.StartedAt, Elapsed: now.Sub(existing.StartedAt)}
	case !errors.Is(err, ErrNotFound):
		return StartResult{}, fmt.Errorf("load check-in: %w", err)
	}

	checkIn := CheckIn{TeamID: teamID, UserID: userID, StartedAt: now}
	if err := s.repo.CreateCheckIn(ctx, checkIn); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost a race with a concurrent start; report the surviving check-in.
			if winner, getErr := s.repo.GetCheckIn(ctx, teamID, userID); getErr == nil {
				return StartResult{}, &AlreadyActiveError{StartedAt: winner.StartedAt, Elapsed: now.Sub(winner.StartedAt)}
			}
			return StartResult{}, &AlreadyActiveError{StartedAt: now}
		}
		return StartResult{}, fmt.Errorf("create check-in: %w", err)
	}

	todayKey := period.DateKey(now.In(s.loc))
	if err := s.repo.AddParticipant(ctx, teamID, todayKey, userID); err != nil {
		return StartResult{}, fmt.Errorf("register participant: %w", err)
	}

	return StartResult{StartedAt: now}, nil
}

// End closes the user's active session. With no manual override the recorded duration
// is exactly now minus the check-in start; past MaxAutoDuration the close is withheld
// pending confirmation. manualText, when non-empty, is parsed as a natural-language
// duration and overrides the elapsed time entirely.
func (s *Service) End(ctx context.Context, teamID, userID, manualText string) (EndResult, error) {
	checkIn, err := s.repo.GetCheckIn(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return EndResult{}, ErrNotStarted
		}
		return EndResult{}, fmt.Errorf("load check-in: %w", err)
	}

	now := s.clock.Now()
	elapsed := now.Sub(checkIn.StartedAt)
	manualText = strings.TrimSpace(manualText)

	if elapsed > MaxAutoDuration && manualText == "" {
		return EndResult{NeedsConfirmation: true, Elapsed: elapsed}, nil
	}

	duration := elapsed
	if manualText != "" {
		parsed, parseErr := ParseManualDuration(manualText)
		if parseErr != nil {
			return EndResult{}, parseErr
		}
		duration = parsed
	}
	if duration < 0 {
		duration = 0
	}

	closed := Session{
		ID:       s.ids.NewID(),
		UserID:   userID,
		Start:    checkIn.StartedAt,
		End:      now,
		Duration: duration,
	}

	// DailyLog first: it is the source of truth, so a failure after the append leaves
	// state that can be reconciled from the log alone.
	dateKey := period.DateKey(checkIn.StartedAt.In(s.loc))
	if err := s.repo.AppendSession(ctx, teamID, dateKey, closed); err != nil {
		return EndResult{}, fmt.Errorf("append session: %w", err)
	}
	if err := s.repo.AddToTotal(ctx, teamID, userID, duration); err != nil {
		return EndResult{}, fmt.Errorf("bump cumulative total: %w", err)
	}
	if err := s.repo.DeleteCheckIn(ctx, teamID, userID); err != nil {
		return EndResult{}, fmt.Errorf("delete check-in: %w", err)
	}

	weekTotal, err := s.WeekTotal(ctx, teamID, userID, now)
	if err != nil {
		return EndResult{}, fmt.Errorf("week total: %w", err)
	}

	return EndResult{Session: closed, WeekTotal: weekTotal}, nil
}

// Status reports whether the user is focusing right now, plus week and all-time totals.
func (s *Service) Status(ctx context.Context, teamID, userID string) (Status, error) {
	now := s.clock.Now()

	var st Status
	checkIn, err := s.repo.GetCheckIn(ctx, teamID, userID)
	switch {
	case err == nil:
		st.Active = true
		st.Elapsed = now.Sub(checkIn.StartedAt)
	case !errors.Is(err, ErrNotFound):
		return Status{}, fmt.Errorf("load check-in: %w", err)
	}

	totals, err := s.readTotals(ctx, teamID)
	if err != nil {
		return Status{}, err
	}
	st.AllTime = totals[userID]

	st.WeekTotal, err = s.WeekTotal(ctx, teamID, userID, now)
	if err != nil {
		return Status{}, err
	}

	return st, nil
}

// Range reads every daily log in [start, end] inclusive, optionally filtered to one
// user, and concatenates the results. Absent days are empty. Daily reads are issued
// concurrently; output order is unspecified and callers needing chronology sort by
// Session.Start.
func (s *Service) Range(ctx context.Context, teamID string, start, end time.Time, userFilter string) ([]Session, error) {
	days := period.Days(start, end)
	results := make([][]Session, len(days))

	g, gctx := errgroup.WithContext(ctx)
	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			sessions, err := s.listDayRetry(gctx, teamID, period.DateKey(day))
			if err != nil {
				return err
			}
			if userFilter != "" {
				filtered := sessions[:0]
				for _, sess := range sessions {
					if sess.UserID == userFilter {
						filtered = append(filtered, sess)
					}
				}
				sessions = filtered
			}
			results[i] = sessions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("range query: %w", err)
	}

	var merged []Session
	for _, day := range results {
		merged = append(merged, day...)
	}
	return merged, nil
}

// WeekTotal sums the user's durations over the Monday-Sunday window containing ref.
func (s *Service) WeekTotal(ctx context.Context, teamID, userID string, ref time.Time) (time.Duration, error) {
	monday := period.MondayOf(ref.In(s.loc))
	sessions, err := s.Range(ctx, teamID, monday, monday.AddDate(0, 0, 6), userID)
	if err != nil {
		return 0, err
	}

	var total time.Duration
	for _, sess := range sessions {
		total += sess.Duration
	}
	return total, nil
}

// Totals returns the cumulative all-time duration cache for the team.
func (s *Service) Totals(ctx context.Context, teamID string) (map[string]time.Duration, error) {
	return s.readTotals(ctx, teamID)
}

// TodaySummary lists everyone who started at least one session today, marking who is
// still focusing. Check-in lookups are issued concurrently.
func (s *Service) TodaySummary(ctx context.Context, teamID string) ([]ParticipantStatus, error) {
	todayKey := period.DateKey(s.NowLocal())
	participants, err := s.repo.ListParticipants(ctx, teamID, todayKey)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	closed, err := s.listDayRetry(ctx, teamID, todayKey)
	if err != nil {
		return nil, fmt.Errorf("list today: %w", err)
	}
	totals := make(map[string]time.Duration, len(participants))
	for _, sess := range closed {
		totals[sess.UserID] += sess.Duration
	}

	now := s.clock.Now()
	statuses := make([]ParticipantStatus, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	for i, userID := range participants {
		i, userID := i, userID
		g.Go(func() error {
			checkIn, err := s.repo.GetCheckIn(gctx, teamID, userID)
			switch {
			case err == nil:
				statuses[i] = ParticipantStatus{
					UserID:  userID,
					Active:  true,
					Elapsed: now.Sub(checkIn.StartedAt),
					Total:   totals[userID],
				}
			case errors.Is(err, ErrNotFound):
				statuses[i] = ParticipantStatus{UserID: userID, Total: totals[userID]}
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("today summary: %w", err)
	}

	return statuses, nil
}

func (s *Service) listDayRetry(ctx context.Context, teamID, dateKey string) ([]Session, error) {
	sessions, err := s.repo.ListDay(ctx, teamID, dateKey)
	if errors.Is(err, ErrStoreUnavailable) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(storeRetryDelay):
		}
		sessions, err = s.repo.ListDay(ctx, teamID, dateKey)
	}
	return sessions, err
}

func (s *Service) readTotals(ctx context.Context, teamID string) (map[string]time.Duration, error) {
	totals, err := s.repo.Totals(ctx, teamID)
	if errors.Is(err, ErrStoreUnavailable) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(storeRetryDelay):
		}
		totals, err = s.repo.Totals(ctx, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("read totals: %w", err)
	}
	return totals, nil
}
