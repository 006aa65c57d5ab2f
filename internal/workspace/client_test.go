package workspace

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseTokens(t *testing.T) {
	tokens, err := ParseTokens(`{"T1":"xoxb-aaa","T2":"xoxb-bbb"}`)
	if err != nil {
		t.Fatalf("ParseTokens returned error: %v", err)
	}
	if tokens["T1"] != "xoxb-aaa" || tokens["T2"] != "xoxb-bbb" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}

	empty, err := ParseTokens("  ")
	if err != nil || len(empty) != 0 {
		t.Fatalf("blank input should parse to an empty map, got %v %v", empty, err)
	}

	if _, err := ParseTokens("{broken"); err == nil {
		t.Fatalf("malformed JSON must be rejected")
	}
}

func TestDisplayNamePreference(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"user": map[string]any{
				"name":      "dana.k",
				"real_name": "Dana Kim",
				"profile":   map[string]any{"display_name": "Dana"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, map[string]string{"T1": "xoxb-test"}, discardLogger())
	name, err := client.DisplayName(context.Background(), "T1", "U1")
	if err != nil {
		t.Fatalf("DisplayName returned error: %v", err)
	}
	if name != "Dana" {
		t.Fatalf("display name should win over real name, got %q", name)
	}
	if gotAuth != "Bearer xoxb-test" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
}

func TestDisplayNameWithoutToken(t *testing.T) {
	client := NewClient("http://unused.invalid", map[string]string{}, discardLogger())
	if _, err := client.DisplayName(context.Background(), "T1", "U1"); err == nil {
		t.Fatalf("a team without a token must error so callers can fall back")
	}
}

func TestPostMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["channel"] != "C1" || payload["text"] == "" {
			t.Errorf("unexpected payload: %v", payload)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, map[string]string{"T1": "xoxb-test"}, discardLogger())
	if !client.PostMessage(context.Background(), "T1", "C1", "hello") {
		t.Fatalf("expected delivery to succeed")
	}
}

func TestPostMessageReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, map[string]string{"T1": "xoxb-test"}, discardLogger())
	if client.PostMessage(context.Background(), "T1", "C1", "hello") {
		t.Fatalf("a rejected post must report false")
	}
}
