package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimsuyeon/focus-fairy/internal/command"
	"github.com/Shimsuyeon/focus-fairy/internal/period"
	"github.com/Shimsuyeon/focus-fairy/internal/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := session.NewService(
		session.NewMemoryRepository(),
		session.NewSystemClock(),
		session.NewUUIDGenerator(),
		time.FixedZone("UTC+9", 9*3600),
	)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := command.NewDispatcher(svc, nil, nil, period.NewNavigator(12), logger)

	r := chi.NewRouter()
	NewHandler(dispatcher, logger).RegisterRoutes(r)
	return r
}

func postCommand(t *testing.T, router http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/commands", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCommandStart(t *testing.T) {
	router := newTestRouter(t)

	rec := postCommand(t, router, url.Values{
		"command":    {"/start"},
		"team_id":    {"T1"},
		"user_id":    {"U1"},
		"channel_id": {"C1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "in_channel", body.ResponseType)
	assert.Contains(t, body.Text, "<@U1>")
}

func TestHandleCommandRequiresIdentity(t *testing.T) {
	router := newTestRouter(t)

	rec := postCommand(t, router, url.Values{"command": {"/start"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCommandUnknownStaysEphemeral(t *testing.T) {
	router := newTestRouter(t)

	rec := postCommand(t, router, url.Values{
		"command": {"/dance"},
		"team_id": {"T1"},
		"user_id": {"U1"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		ResponseType string `json:"response_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ephemeral", body.ResponseType)
}

func TestHandleCommandChartUsesBlocks(t *testing.T) {
	router := newTestRouter(t)

	// Record a session so the chart variant has data.
	start := postCommand(t, router, url.Values{
		"command": {"/start"}, "team_id": {"T1"}, "user_id": {"U1"},
	})
	require.Equal(t, http.StatusOK, start.Code)
	end := postCommand(t, router, url.Values{
		"command": {"/end"}, "team_id": {"T1"}, "user_id": {"U1"}, "text": {"30m"},
	})
	require.Equal(t, http.StatusOK, end.Code)

	rec := postCommand(t, router, url.Values{
		"command": {"/pattern"}, "team_id": {"T1"}, "user_id": {"U1"}, "text": {"time"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		ResponseType string `json:"response_type"`
		Text         string `json:"text"`
		Blocks       []struct {
			Type     string `json:"type"`
			ImageURL string `json:"image_url"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Text, "chart responses carry their text inside blocks")
	require.Len(t, body.Blocks, 2)
	assert.Equal(t, "image", body.Blocks[1].Type)
	assert.Contains(t, body.Blocks[1].ImageURL, "quickchart.io")
}
