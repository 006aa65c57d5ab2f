package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Shimsuyeon/focus-fairy/internal/command"
	"github.com/Shimsuyeon/focus-fairy/internal/logging"
)

// slashResponse is the wire shape the chat platform expects back from a
// slash-command endpoint.
type slashResponse struct {
	ResponseType string  `json:"response_type"`
	Text         string  `json:"text,omitempty"`
	Blocks       []block `json:"blocks,omitempty"`
}

type block struct {
	Type     string     `json:"type"`
	Text     *blockText `json:"text,omitempty"`
	ImageURL string     `json:"image_url,omitempty"`
	AltText  string     `json:"alt_text,omitempty"`
}

type blockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Handler adapts slash-command form posts to the dispatcher.
type Handler struct {
	dispatcher *command.Dispatcher
	logger     *slog.Logger
}

func NewHandler(dispatcher *command.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes mounts the command endpoint on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/v1/commands", h.handleCommand)
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(h.logger, middleware.GetReqID(r.Context()))

	if err := r.ParseForm(); err != nil {
		logger.Error("parse command form", "error", err)
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	req := command.Request{
		Command:   r.PostFormValue("command"),
		TeamID:    r.PostFormValue("team_id"),
		UserID:    r.PostFormValue("user_id"),
		ChannelID: r.PostFormValue("channel_id"),
		Text:      r.PostFormValue("text"),
	}
	if req.Command == "" || req.TeamID == "" || req.UserID == "" {
		http.Error(w, "command, team_id and user_id are required", http.StatusBadRequest)
		return
	}
	logger = logging.WithTeam(logger, req.TeamID)

	resp := h.dispatcher.Dispatch(r.Context(), req)
	writeSlashResponse(w, logger, resp)
}

func writeSlashResponse(w http.ResponseWriter, logger *slog.Logger, resp command.Response) {
	out := slashResponse{ResponseType: string(resp.Visibility)}
	if resp.ImageURL != "" {
		out.Blocks = []block{
			{Type: "section", Text: &blockText{Type: "mrkdwn", Text: resp.Text}},
			{Type: "image", ImageURL: resp.ImageURL, AltText: resp.ImageAlt},
		}
	} else {
		out.Text = resp.Text
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logger.Error("encode slash response", "error", err)
	}
}
