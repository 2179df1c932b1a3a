package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/meetinglens/meetinglens/pkg/config"
)

const defaultBaseURL = "https://slack.com/api"

// Client posts messages to Slack channels.
type Client interface {
	PostMessage(ctx context.Context, channelID, text string) (*MessageAck, error)
}

// MessageAck identifies a delivered message.
type MessageAck struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

type realClient struct {
	botToken string
	baseURL  string
	client   *http.Client
}

// NewClient creates a Slack client. Falls back to environment variables
// when config is nil.
func NewClient(cfg *config.SlackConfig) Client {
	botToken := ""
	baseURL := defaultBaseURL
	if cfg != nil {
		botToken = cfg.BotToken
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
	}
	if botToken == "" {
		botToken = os.Getenv("SLACK_BOT_TOKEN")
	}

	return &realClient{
		botToken: botToken,
		baseURL:  baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

type postMessageResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}

// PostMessage sends a message via chat.postMessage. Slack reports API-level
// failures with a 200 status and ok=false, so both are checked.
func (c *realClient) PostMessage(ctx context.Context, channelID, text string) (*MessageAck, error) {
	if c.botToken == "" {
		return nil, fmt.Errorf("slack bot token is not configured")
	}

	body, err := json.Marshal(postMessageRequest{Channel: channelID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("slack returned status %d", resp.StatusCode)
	}

	var result postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("slack rejected the message: %s", result.Error)
	}

	return &MessageAck{Channel: result.Channel, TS: result.TS}, nil
}
