package events

import "time"

// Topic names used by the focus-fairy event surface.
const (
	TopicSessionEvents      = "session.events"
	TopicNotificationEvents = "notification.events"
)

// SessionStarted describes the payload produced when a user checks in.
type SessionStarted struct {
	TeamID    string    `json:"teamId"`
	UserID    string    `json:"userId"`
	StartedAt time.Time `json:"startedAt"`
}

// SessionClosed is emitted when a focus session is closed and recorded.
type SessionClosed struct {
	TeamID    string        `json:"teamId"`
	UserID    string        `json:"userId"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt"`
	Duration  time.Duration `json:"duration"`
	WeekTotal time.Duration `json:"weekTotal"`
}
