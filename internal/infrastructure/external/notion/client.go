package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/pkg/config"
)

const (
	defaultBaseURL = "https://api.notion.com"
	apiVersion     = "2022-06-28"
)

// Client creates meeting pages in a Notion database.
type Client interface {
	CreateMeetingPage(ctx context.Context, databaseID string, analysis *entities.MeetingAnalysis) (string, error)
}

type realClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a Notion client. Falls back to environment variables
// when config is nil.
func NewClient(cfg *config.NotionConfig) Client {
	apiKey := ""
	baseURL := defaultBaseURL
	if cfg != nil {
		apiKey = cfg.APIKey
		if cfg.BaseURL != "" {
			baseURL = cfg.BaseURL
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("NOTION_API_KEY")
	}

	return &realClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type createPageRequest struct {
	Parent     map[string]string      `json:"parent"`
	Properties map[string]interface{} `json:"properties"`
}

type createPageResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// CreateMeetingPage creates one page per meeting record. The database is
// expected to carry Title, Summary, Timestamp, Action Items, Assignees,
// Deadline and Key Decisions properties.
func (c *realClient) CreateMeetingPage(ctx context.Context, databaseID string, analysis *entities.MeetingAnalysis) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("notion api key is not configured")
	}
	if databaseID == "" {
		return "", fmt.Errorf("notion database id is required")
	}

	body, err := json.Marshal(createPageRequest{
		Parent:     map[string]string{"database_id": databaseID},
		Properties: buildProperties(analysis),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("notion returned status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("notion returned status %d", resp.StatusCode)
	}

	var result createPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode notion response: %w", err)
	}
	return result.ID, nil
}

func buildProperties(a *entities.MeetingAnalysis) map[string]interface{} {
	props := map[string]interface{}{
		"Title": map[string]interface{}{
			"title": []interface{}{richText("Meeting " + a.MeetingID)},
		},
		"Summary": map[string]interface{}{
			"rich_text": []interface{}{richText(a.Summary)},
		},
		"Timestamp": map[string]interface{}{
			"date": map[string]string{"start": a.Timestamp},
		},
	}

	if len(a.ActionItems) > 0 {
		tasks := make([]interface{}, 0, len(a.ActionItems))
		assignees := make([]interface{}, 0, len(a.ActionItems))
		for _, item := range a.ActionItems {
			tasks = append(tasks, map[string]string{"name": sanitizeSelect(item.Task)})
			assignees = append(assignees, map[string]string{"name": sanitizeSelect(item.Assignee)})
		}
		props["Action Items"] = map[string]interface{}{"multi_select": tasks}
		props["Assignees"] = map[string]interface{}{"multi_select": assignees}

		if a.ActionItems[0].Deadline != "" {
			props["Deadline"] = map[string]interface{}{
				"date": map[string]string{"start": a.ActionItems[0].Deadline},
			}
		}
	}

	if len(a.KeyDecisions) > 0 {
		lines := make([]string, 0, len(a.KeyDecisions))
		for _, d := range a.KeyDecisions {
			lines = append(lines, fmt.Sprintf("%s (Participants: %s, Date: %s)",
				d.Description, strings.Join(d.ParticipantsInvolved, ", "), d.DateMade))
		}
		props["Key Decisions"] = map[string]interface{}{
			"rich_text": []interface{}{richText(strings.Join(lines, "\n"))},
		}
	}

	return props
}

func richText(content string) map[string]interface{} {
	return map[string]interface{}{
		"text": map[string]string{"content": content},
	}
}

// sanitizeSelect strips commas, which Notion rejects in multi_select names.
func sanitizeSelect(name string) string {
	name = strings.ReplaceAll(name, ",", " ")
	// multi_select option names are capped at 100 characters.
	runes := []rune(name)
	if len(runes) > 100 {
		name = string(runes[:100])
	}
	return strings.TrimSpace(name)
}
