package command

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/Shimsuyeon/focus-fairy/internal/events"
	"github.com/Shimsuyeon/focus-fairy/internal/period"
	"github.com/Shimsuyeon/focus-fairy/internal/session"
	"github.com/Shimsuyeon/focus-fairy/internal/workspace"
)

// Request is the dispatcher payload supplied by the chat front end.
type Request struct {
	Command   string
	TeamID    string
	UserID    string
	ChannelID string
	Text      string
}

// Visibility controls whether a response is broadcast to the originating channel or
// shown only to the requester.
type Visibility string

const (
	// Broadcast responses are visible to the whole channel.
	Broadcast Visibility = "in_channel"
	// Ephemeral responses are visible only to the requester.
	Ephemeral Visibility = "ephemeral"
)

// Response is the rendered outcome of a command. ImageURL, when set, attaches a chart.
type Response struct {
	Visibility Visibility
	Text       string
	ImageURL   string
	ImageAlt   string
}

// Poster delivers formatted text to a channel, returning a boolean success signal.
type Poster interface {
	PostMessage(ctx context.Context, teamID, channelID, text string) bool
}

// Dispatcher routes front-end commands into the session store and report engines and
// renders every outcome, including the error taxonomy, as a user-facing message.
type Dispatcher struct {
	sessions *session.Service
	dir      workspace.Directory
	poster   Poster
	nav      period.Navigator
	logger   *slog.Logger
	pick     func(n int) int
}

// NewDispatcher wires the dispatcher. dir and poster may be nil, in which case names
// fall back to raw ids and announcements stay in the command response.
func NewDispatcher(sessions *session.Service, dir workspace.Directory, poster Poster, nav period.Navigator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		dir:      dir,
		poster:   poster,
		nav:      nav,
		logger:   logger,
		pick:     rand.Intn,
	}
}

// Dispatch executes one command. Errors from the domain are recovered here and turned
// into explanatory messages; nothing escapes to the transport as a failure.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	text := strings.TrimSpace(req.Text)

	switch strings.TrimPrefix(strings.ToLower(req.Command), "/") {
	case "start":
		return d.handleStart(ctx, req)
	case "end":
		return d.handleEnd(ctx, req, text)
	case "weekly":
		return d.handleWeekly(ctx, req, text)
	case "report":
		return d.handleReport(ctx, req, text)
	case "mystats", "status":
		return d.handleStatus(ctx, req)
	case "today":
		return d.handleToday(ctx, req)
	case "pattern":
		return d.handlePattern(ctx, req, text)
	case "export":
		return d.handleExport(ctx, req, text)
	default:
		return Response{Visibility: Ephemeral, Text: msgUnknownCommand}
	}
}

func (d *Dispatcher) handleStart(ctx context.Context, req Request) Response {
	result, err := d.sessions.Start(ctx, req.TeamID, req.UserID)
	if err != nil {
		var active *session.AlreadyActiveError
		if errors.As(err, &active) {
			return Response{Visibility: Ephemeral, Text: msgAlreadyActive(active.Elapsed)}
		}
		return d.failure(req, "start", err)
	}

	d.logger.Info("session event", "topic", events.TopicSessionEvents,
		"event", events.SessionStarted{TeamID: req.TeamID, UserID: req.UserID, StartedAt: result.StartedAt})

	return Response{
		Visibility: Broadcast,
		Text:       msgStarted(req.UserID, result.StartedAt.In(d.sessions.Location())),
	}
}

func (d *Dispatcher) handleEnd(ctx context.Context, req Request, text string) Response {
	result, err := d.sessions.End(ctx, req.TeamID, req.UserID, text)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotStarted):
			return Response{Visibility: Ephemeral, Text: msgNotStarted}
		case errors.Is(err, session.ErrDurationParse):
			return Response{Visibility: Ephemeral, Text: msgDurationFormat}
		}
		return d.failure(req, "end", err)
	}

	// A runaway elapsed time is withheld pending confirmation; only the requester
	// needs to see the warning.
	if result.NeedsConfirmation {
		return Response{Visibility: Ephemeral, Text: msgConfirmLong(result.Elapsed)}
	}

	d.logger.Info("session event", "topic", events.TopicSessionEvents,
		"event", events.SessionClosed{
			TeamID:    req.TeamID,
			UserID:    req.UserID,
			StartedAt: result.Session.Start,
			EndedAt:   result.Session.End,
			Duration:  result.Session.Duration,
			WeekTotal: result.WeekTotal,
		})

	announcement := msgClosed(
		req.UserID,
		result.Session.End.In(d.sessions.Location()),
		result.Session.Duration,
		result.WeekTotal,
		encouragements[d.pick(len(encouragements))],
	)

	// Announce in the channel; if delivery fails the requester still gets the full text.
	if d.poster != nil && d.poster.PostMessage(ctx, req.TeamID, req.ChannelID, announcement) {
		d.logger.Info("notification delivered", "topic", events.TopicNotificationEvents,
			"teamId", req.TeamID, "channelId", req.ChannelID)
		return Response{Visibility: Ephemeral, Text: msgClosedAck(result.Session.Duration)}
	}
	return Response{Visibility: Ephemeral, Text: announcement}
}

func (d *Dispatcher) handleStatus(ctx context.Context, req Request) Response {
	status, err := d.sessions.Status(ctx, req.TeamID, req.UserID)
	if err != nil {
		return d.failure(req, "status", err)
	}
	return Response{Visibility: Ephemeral, Text: msgStatus(status)}
}

func (d *Dispatcher) handleToday(ctx context.Context, req Request) Response {
	statuses, err := d.sessions.TodaySummary(ctx, req.TeamID)
	if err != nil {
		return d.failure(req, "today", err)
	}
	if len(statuses) == 0 {
		return Response{Visibility: Broadcast, Text: msgTodayEmpty}
	}

	names := workspace.NewNameCache(d.names())
	return Response{Visibility: Broadcast, Text: msgToday(ctx, req.TeamID, statuses, names)}
}

// failure logs the underlying cause and renders the generic user-facing fallback.
func (d *Dispatcher) failure(req Request, op string, err error) Response {
	d.logger.Error("command failed", "command", op, "teamId", req.TeamID, "userId", req.UserID, "error", err)
	if errors.Is(err, session.ErrStoreUnavailable) {
		return Response{Visibility: Ephemeral, Text: msgStoreUnavailable}
	}
	return Response{Visibility: Ephemeral, Text: msgInternal}
}

func (d *Dispatcher) names() workspace.Directory {
	if d.dir != nil {
		return d.dir
	}
	return noDirectory{}
}

// noDirectory forces the raw-id fallback when no workspace client is configured.
type noDirectory struct{}

func (noDirectory) DisplayName(context.Context, string, string) (string, error) {
	return "", errors.New("no directory configured")
}
