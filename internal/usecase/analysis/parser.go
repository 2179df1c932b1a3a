package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
)

// Parser handles parsing and validation of model responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseError carries the raw model response alongside the cause so a
// malformed response can be diagnosed. A half-parsed result is never
// surfaced as success.
type ParseError struct {
	RawResponse string
	Err         error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes the model's JSON response into a Result and normalizes
// optional fields to their defaults.
func (p *Parser) Parse(raw string) (*Result, error) {
	jsonString := extractJSON(raw)

	var result Result
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, &ParseError{RawResponse: raw, Err: err}
	}

	p.normalize(&result)

	if err := p.validate(&result); err != nil {
		return nil, &ParseError{RawResponse: raw, Err: err}
	}

	return &result, nil
}

// normalize fills schema defaults the model is allowed to omit.
func (p *Parser) normalize(result *Result) {
	if result.ActionItems == nil {
		result.ActionItems = make([]entities.ActionItem, 0)
	}
	if result.KeyDecisions == nil {
		result.KeyDecisions = make([]entities.KeyDecision, 0)
	}

	for i := range result.ActionItems {
		if result.ActionItems[i].Status == "" {
			result.ActionItems[i].Status = entities.ActionItemStatusNew
		}
		if strings.TrimSpace(result.ActionItems[i].Assignee) == "" {
			result.ActionItems[i].Assignee = entities.UnassignedAssignee
		}
	}

	for i := range result.KeyDecisions {
		if result.KeyDecisions[i].ParticipantsInvolved == nil {
			result.KeyDecisions[i].ParticipantsInvolved = make([]string, 0)
		}
		// Current date when the transcript gives no clue.
		if strings.TrimSpace(result.KeyDecisions[i].DateMade) == "" {
			result.KeyDecisions[i].DateMade = time.Now().UTC().Format("2006-01-02")
		}
	}
}

// validate checks required fields after normalization.
func (p *Parser) validate(result *Result) error {
	if strings.TrimSpace(result.Summary) == "" {
		return fmt.Errorf("missing summary in response")
	}
	for i, item := range result.ActionItems {
		if strings.TrimSpace(item.Task) == "" {
			return fmt.Errorf("action item %d: missing task", i)
		}
		if !item.Status.Valid() {
			return fmt.Errorf("action item %d: invalid status %q", i, item.Status)
		}
	}
	for i, d := range result.KeyDecisions {
		if strings.TrimSpace(d.Description) == "" {
			return fmt.Errorf("key decision %d: missing description", i)
		}
	}
	return nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
