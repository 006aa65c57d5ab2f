package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareNoopModePropagatesCaller(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeNoop})
	if err != nil {
		t.Fatalf("NewVerifier returned error: %v", err)
	}

	var got Caller
	var ok bool
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = CallerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bot-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !ok || got.ID != "bot-123" {
		t.Fatalf("caller not propagated: %+v ok=%v", got, ok)
	}
}

func TestMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeNoop})
	if err != nil {
		t.Fatalf("NewVerifier returned error: %v", err)
	}
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run without credentials")
	}))

	for _, header := range []string{"", "bot-123", "Basic abc", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestMiddlewareNilVerifierPassesThrough(t *testing.T) {
	ran := false
	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !ran {
		t.Fatalf("nil verifier should disable enforcement")
	}
}

func TestNewVerifierRejectsUnknownMode(t *testing.T) {
	if _, err := NewVerifier(Config{Mode: "oauth"}); err == nil {
		t.Fatalf("unsupported mode must be rejected")
	}
}

func TestCallerFromContextMissing(t *testing.T) {
	if _, ok := CallerFromContext(context.Background()); ok {
		t.Fatalf("no caller should be found in a bare context")
	}
}
