package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Mode represents the authentication strategy applied to incoming dispatcher requests.
type Mode string

const (
	// ModeJWT enables JWT verification against a JWKS endpoint.
	ModeJWT Mode = "jwt"
	// ModeNoop disables signature verification and treats the bearer token as the caller ID
	// (useful for local development and tests).
	ModeNoop Mode = "noop"
)

// Config captures the inputs required to initialize an authenticator.
type Config struct {
	Mode     Mode
	JWKSURL  string
	Audience string
	Issuer   string
}

// Caller represents the authenticated front end extracted from the bearer token.
type Caller struct {
	ID        string
	ExpiresAt int64
	Token     string
}

// Verifier verifies a bearer token and returns the associated caller context.
type Verifier interface {
	Verify(ctx context.Context, token string) (Caller, error)
}

var (
	errMissingAuthHeader = errors.New("authorization header missing")
	errInvalidAuthHeader = errors.New("authorization header is malformed")
)

type ctxKey string

const callerCtxKey ctxKey = "focusfairy:caller"

// Middleware enforces authentication for the wrapped handler using the provided verifier.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, err := tokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			caller, err := verifier.Verify(r.Context(), token)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerCtxKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingAuthHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errInvalidAuthHeader
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errInvalidAuthHeader
	}

	return token, nil
}

// CallerFromContext extracts the authenticated caller from the request context.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	value, ok := ctx.Value(callerCtxKey).(Caller)
	return value, ok
}

// NewVerifier constructs a Verifier matching the supplied configuration.
func NewVerifier(cfg Config) (Verifier, error) {
	switch cfg.Mode {
	case ModeJWT:
		return newJWKSVerifier(cfg)
	case ModeNoop:
		return newNoopVerifier(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", cfg.Mode)
	}
}
