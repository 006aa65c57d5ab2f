package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the chat workspace API: display-name lookups and channel posting.
// Tokens are per-team; a team without a token degrades gracefully.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     map[string]string
	logger     *slog.Logger
}

// NewClient creates a workspace API client. tokens maps team IDs to bot tokens and may
// be empty; baseURL defaults to the hosted API when blank.
func NewClient(baseURL string, tokens map[string]string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     logger,
	}
}

// ParseTokens decodes the {"T123":"xoxb-..."} JSON map the deployment supplies.
func ParseTokens(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]string{}, nil
	}
	tokens := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil, fmt.Errorf("parse workspace tokens: %w", err)
	}
	return tokens, nil
}

func (c *Client) token(teamID string) string {
	return c.tokens[teamID]
}

type userInfoResponse struct {
	OK   bool `json:"ok"`
	User struct {
		Name     string `json:"name"`
		RealName string `json:"real_name"`
		Profile  struct {
			DisplayName string `json:"display_name"`
		} `json:"profile"`
	} `json:"user"`
	Error string `json:"error"`
}

// DisplayName resolves a user id to a human-readable name. Any failure returns an
// error; callers fall back to the raw id.
func (c *Client) DisplayName(ctx context.Context, teamID, userID string) (string, error) {
	token := c.token(teamID)
	if token == "" {
		return "", fmt.Errorf("no token for team %s", teamID)
	}

	endpoint := c.baseURL + "/users.info?user=" + url.QueryEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("users.info status %d", resp.StatusCode)
	}

	var body userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if !body.OK {
		return "", fmt.Errorf("users.info failed: %s", body.Error)
	}

	switch {
	case body.User.Profile.DisplayName != "":
		return body.User.Profile.DisplayName, nil
	case body.User.RealName != "":
		return body.User.RealName, nil
	case body.User.Name != "":
		return body.User.Name, nil
	}
	return "", fmt.Errorf("users.info returned no name for %s", userID)
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage delivers text to a channel, fire-and-forget. It reports success as a
// boolean; callers must keep a fallback message path for false.
func (c *Client) PostMessage(ctx context.Context, teamID, channelID, text string) bool {
	token := c.token(teamID)
	if token == "" {
		c.logger.Warn("no workspace token for team", "teamId", teamID)
		return false
	}

	payload, err := json.Marshal(map[string]string{"channel": channelID, "text": text})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", strings.NewReader(string(payload)))
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("post message failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	var body postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	if !body.OK {
		c.logger.Warn("post message rejected", "error", body.Error)
		return false
	}
	return true
}
