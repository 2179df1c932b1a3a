package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
)

// Generator produces schema-constrained JSON from a prompt.
type Generator interface {
	GenerateStructured(ctx context.Context, prompt string, schema map[string]interface{}) (string, error)
}

// Result is the structured output extracted from one transcript.
type Result struct {
	Summary          string                 `json:"summary"`
	ActionItems      []entities.ActionItem  `json:"action_items"`
	KeyDecisions     []entities.KeyDecision `json:"key_decisions"`
	SpeakersDetected []string               `json:"speakers_detected,omitempty"`
	ToneOverview     string                 `json:"tone_overview,omitempty"`
	ImportantTopics  []string               `json:"important_topics,omitempty"`
}

// Service turns a raw transcript into a validated Result via the model.
type Service struct {
	generator Generator
	parser    *Parser
	logger    *zap.Logger
}

// NewService creates an analysis service.
func NewService(generator Generator, logger *zap.Logger) *Service {
	return &Service{
		generator: generator,
		parser:    NewParser(),
		logger:    logger,
	}
}

// Analyze extracts summary, action items and key decisions from a transcript.
// An empty transcript is rejected before any model call is made.
func (s *Service) Analyze(ctx context.Context, transcript string) (*Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	prompt := buildPrompt(transcript)

	raw, err := s.generator.GenerateStructured(ctx, prompt, responseSchema())
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	result, err := s.parser.Parse(raw)
	if err != nil {
		var parseErr *ParseError
		if pe, ok := err.(*ParseError); ok {
			parseErr = pe
		}
		if parseErr != nil {
			s.logger.Error("malformed model response",
				zap.Error(parseErr.Err),
				zap.String("raw_response", parseErr.RawResponse))
		}
		return nil, err
	}

	return result, nil
}

func buildPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("You are an expert meeting analyst. Analyze the following meeting transcript and extract structured information.\n\n")
	b.WriteString("Transcript:\n")
	b.WriteString(transcript)
	b.WriteString("\n\nExtract the following:\n")
	b.WriteString("1. A concise summary of the meeting (2-4 sentences).\n")
	b.WriteString("2. All action items with the task, the person assigned, any stated deadline, and status.\n")
	b.WriteString("3. Key decisions made, including who was involved and when the decision was made.\n")
	b.WriteString("4. The list of distinct speakers detected in the transcript.\n")
	b.WriteString("5. A one-sentence overview of the overall tone of the meeting.\n")
	b.WriteString("6. The most important topics discussed.\n\n")
	b.WriteString("If an assignee is not stated, use \"Unassigned\". If a deadline is not stated, leave it empty. ")
	b.WriteString("New action items have status \"new\". ")
	b.WriteString("Only report decisions and action items that are explicitly supported by the transcript.")
	return b.String()
}

// responseSchema is the structured-output contract sent with every
// generation request. Required fields here are what the parser relies on.
func responseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{"type": "STRING"},
			"action_items": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"task":     map[string]interface{}{"type": "STRING"},
						"assignee": map[string]interface{}{"type": "STRING"},
						"deadline": map[string]interface{}{"type": "STRING"},
						"status": map[string]interface{}{
							"type": "STRING",
							"enum": []string{"new", "in-progress", "completed"},
						},
					},
					"required": []string{"task"},
				},
			},
			"key_decisions": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"description": map[string]interface{}{"type": "STRING"},
						"participants_involved": map[string]interface{}{
							"type":  "ARRAY",
							"items": map[string]interface{}{"type": "STRING"},
						},
						"date_made": map[string]interface{}{"type": "STRING"},
					},
					"required": []string{"description"},
				},
			},
			"speakers_detected": map[string]interface{}{
				"type":  "ARRAY",
				"items": map[string]interface{}{"type": "STRING"},
			},
			"tone_overview": map[string]interface{}{"type": "STRING"},
			"important_topics": map[string]interface{}{
				"type":  "ARRAY",
				"items": map[string]interface{}{"type": "STRING"},
			},
		},
		"required": []string{"summary", "action_items", "key_decisions"},
	}
}
