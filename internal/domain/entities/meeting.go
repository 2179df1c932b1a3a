package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TranscriptPreviewLimit is the display-only preview length for transcripts.
const TranscriptPreviewLimit = 500

// ActionItemStatus is the lifecycle state of an extracted action item.
type ActionItemStatus string

const (
	ActionItemStatusNew        ActionItemStatus = "new"
	ActionItemStatusInProgress ActionItemStatus = "in-progress"
	ActionItemStatusCompleted  ActionItemStatus = "completed"
)

// Valid reports whether the status is one of the fixed enum values.
func (s ActionItemStatus) Valid() bool {
	switch s {
	case ActionItemStatusNew, ActionItemStatusInProgress, ActionItemStatusCompleted:
		return true
	}
	return false
}

// UnassignedAssignee is the assignee placeholder when none could be inferred.
const UnassignedAssignee = "Unassigned"

// ActionItem is an actionable task extracted from a meeting.
type ActionItem struct {
	Task     string           `json:"task"`
	Assignee string           `json:"assignee,omitempty"`
	Deadline string           `json:"deadline,omitempty"`
	Status   ActionItemStatus `json:"status"`
}

// KeyDecision is a decision recorded during a meeting.
type KeyDecision struct {
	Description          string   `json:"description"`
	ParticipantsInvolved []string `json:"participants_involved"`
	DateMade             string   `json:"date_made"` // YYYY-MM-DD
}

// MeetingAnalysis is the canonical analysis record for one meeting.
// Once persisted it is immutable: there is no update or delete path.
type MeetingAnalysis struct {
	MeetingID            string        `json:"meeting_id"`
	Timestamp            string        `json:"timestamp"` // ISO-8601, set at creation
	Summary              string        `json:"summary"`
	ActionItems          []ActionItem  `json:"action_items"`
	KeyDecisions         []KeyDecision `json:"key_decisions"`
	RawTranscriptPreview string        `json:"raw_transcript_preview,omitempty"`
	FullTranscriptPath   string        `json:"full_transcript_path,omitempty"`
	SpeakersDetected     []string      `json:"speakers_detected,omitempty"`
	ToneOverview         string        `json:"tone_overview,omitempty"`
	ImportantTopics      []string      `json:"important_topics,omitempty"`
}

// NewMeetingAnalysis creates a record shell with a fresh id and timestamp.
func NewMeetingAnalysis() *MeetingAnalysis {
	return &MeetingAnalysis{
		MeetingID: uuid.New().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// TranscriptPreview truncates transcript text for display. Text longer than
// the limit is cut at exactly the limit and suffixed with an ellipsis marker.
// The cut counts characters, not bytes, so multibyte text stays valid UTF-8.
func TranscriptPreview(transcript string) string {
	runes := []rune(transcript)
	if len(runes) > TranscriptPreviewLimit {
		return string(runes[:TranscriptPreviewLimit]) + "..."
	}
	return transcript
}

// Validate checks the record invariants before persistence.
func (m *MeetingAnalysis) Validate() error {
	if m.MeetingID == "" {
		return ErrMissingMeetingID
	}
	if m.Timestamp == "" {
		return ErrMissingTimestamp
	}
	if strings.TrimSpace(m.Summary) == "" {
		return ErrMissingSummary
	}
	for i, item := range m.ActionItems {
		if strings.TrimSpace(item.Task) == "" {
			return fmt.Errorf("action item %d: %w", i, ErrMissingTask)
		}
		if !item.Status.Valid() {
			return fmt.Errorf("action item %d: %w: %q", i, ErrInvalidStatus, item.Status)
		}
	}
	for i, d := range m.KeyDecisions {
		if strings.TrimSpace(d.Description) == "" {
			return fmt.Errorf("key decision %d: %w", i, ErrMissingDescription)
		}
		if strings.TrimSpace(d.DateMade) == "" {
			return fmt.Errorf("key decision %d: %w", i, ErrMissingDateMade)
		}
	}
	return nil
}

// IndexText builds the combined textual representation used as the unit of
// chunking for the retrieval index: serialized analysis fields followed by
// the full transcript.
func (m *MeetingAnalysis) IndexText(fullTranscript string) string {
	var sb strings.Builder
	sb.WriteString("Meeting ID: " + m.MeetingID + "\n")
	sb.WriteString("Timestamp: " + m.Timestamp + "\n")
	sb.WriteString("Summary: " + m.Summary + "\n")

	sb.WriteString("Action Items: ")
	if len(m.ActionItems) == 0 {
		sb.WriteString("None")
	} else {
		tasks := make([]string, 0, len(m.ActionItems))
		for _, item := range m.ActionItems {
			tasks = append(tasks, item.Task)
		}
		sb.WriteString(strings.Join(tasks, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("Key Decisions: ")
	if len(m.KeyDecisions) == 0 {
		sb.WriteString("None")
	} else {
		descs := make([]string, 0, len(m.KeyDecisions))
		for _, d := range m.KeyDecisions {
			descs = append(descs, d.Description)
		}
		sb.WriteString(strings.Join(descs, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("Speakers: ")
	if len(m.SpeakersDetected) == 0 {
		sb.WriteString("None")
	} else {
		sb.WriteString(strings.Join(m.SpeakersDetected, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("Important Topics: ")
	if len(m.ImportantTopics) == 0 {
		sb.WriteString("None")
	} else {
		sb.WriteString(strings.Join(m.ImportantTopics, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("Transcript:\n" + fullTranscript)
	return sb.String()
}
