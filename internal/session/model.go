package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is a closed, immutable focus interval. Duration normally equals End - Start
// but may have been overridden by a manually supplied duration at close time.
type Session struct {
	ID       string        `json:"id"`
	UserID   string        `json:"userId"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
}

// CheckIn marks a user's currently active, unclosed focus session. At most one exists
// per (team, user) at any time.
type CheckIn struct {
	TeamID    string
	UserID    string
	StartedAt time.Time
}

// SchemaVersion tags every persisted record so later field additions cannot silently
// misread older data.
const SchemaVersion = 1

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates an insert collided with an existing record.
	ErrConflict = errors.New("record already exists")
	// ErrNotStarted indicates the user has no active check-in.
	ErrNotStarted = errors.New("no active focus session")
	// ErrAlreadyActive indicates the user already has an active check-in.
	ErrAlreadyActive = errors.New("focus session already active")
	// ErrDurationParse indicates a manual duration override could not be parsed.
	ErrDurationParse = errors.New("unparseable duration text")
	// ErrStoreUnavailable indicates a transient backing-store failure; callers may retry.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// AlreadyActiveError reports how long the rejected caller's existing session has been
// running. It unwraps to ErrAlreadyActive.
type AlreadyActiveError struct {
	StartedAt time.Time
	Elapsed   time.Duration
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("focus session already active for %s", e.Elapsed)
}

func (e *AlreadyActiveError) Unwrap() error { return ErrAlreadyActive }

// Repository encapsulates persistence for check-ins, the day-partitioned session log,
// participant sets and the cumulative total cache. The session log is append-only and
// stores one record per session so concurrent closes never contend on a shared value.
type Repository interface {
	GetCheckIn(ctx context.Context, teamID, userID string) (CheckIn, error)
	CreateCheckIn(ctx context.Context, checkIn CheckIn) error
	DeleteCheckIn(ctx context.Context, teamID, userID string) error

	AppendSession(ctx context.Context, teamID, dateKey string, s Session) error
	ListDay(ctx context.Context, teamID, dateKey string) ([]Session, error)

	AddParticipant(ctx context.Context, teamID, dateKey, userID string) error
	ListParticipants(ctx context.Context, teamID, dateKey string) ([]string, error)

	AddToTotal(ctx context.Context, teamID, userID string, d time.Duration) error
	Totals(ctx context.Context, teamID string) (map[string]time.Duration, error)
}

// Clock delivers the current time; extracted for deterministic testing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() Clock { return systemClock{} }

// IDGenerator produces unique identifiers for new session records.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// NewUUIDGenerator returns an IDGenerator producing random UUIDs.
func NewUUIDGenerator() IDGenerator { return uuidGenerator{} }
