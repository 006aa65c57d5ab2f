package logging

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog logger emitting JSON records tagged with the service name.
func NewLogger(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	return slog.New(handler).With(slog.String("service", service))
}

// WithTeam attaches the tenant identifier to every record produced by the returned logger.
func WithTeam(logger *slog.Logger, teamID string) *slog.Logger {
	return logger.With(slog.String("teamId", teamID))
}

// WithRequestID attaches a request identifier to the returned logger.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With(slog.String("requestId", requestID))
}
