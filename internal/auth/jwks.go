package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingSubject = errors.New("token missing subject claim")

// jwksVerifier validates JWTs signed by the key set published at a JWKS endpoint.
type jwksVerifier struct {
	jwks     *keyfunc.JWKS
	audience string
	issuer   string
}

func newJWKSVerifier(cfg Config) (Verifier, error) {
	if cfg.JWKSURL == "" {
		return nil, fmt.Errorf("JWKS URL is required when auth mode is jwt")
	}

	options := keyfunc.Options{RefreshErrorHandler: func(err error) {
		// Refresh failures are retried on the next verification.
	}}

	jwks, err := keyfunc.Get(cfg.JWKSURL, options)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS: %w", err)
	}

	return &jwksVerifier{jwks: jwks, audience: cfg.Audience, issuer: cfg.Issuer}, nil
}

func (v *jwksVerifier) Verify(_ context.Context, token string) (Caller, error) {
	options := []jwt.ParserOption{jwt.WithLeeway(5 * time.Second)}
	if v.audience != "" {
		options = append(options, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}

	t, err := jwt.Parse(token, v.jwks.Keyfunc, options...)
	if err != nil {
		return Caller{}, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Caller{}, errors.New("unexpected claims type")
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return Caller{}, errMissingSubject
	}

	expiresAt := int64(0)
	if expRaw, ok := claims["exp"].(float64); ok {
		expiresAt = int64(expRaw)
	}

	return Caller{ID: subject, ExpiresAt: expiresAt, Token: token}, nil
}
