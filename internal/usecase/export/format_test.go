package export

import (
	"strings"
	"testing"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
)

func sampleAnalysis() *entities.MeetingAnalysis {
	return &entities.MeetingAnalysis{
		MeetingID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Timestamp: "2026-08-30T10:00:00Z",
		Summary:   "The team settled the launch date.",
		ActionItems: []entities.ActionItem{
			{Task: "Draft checklist", Assignee: "Dana", Deadline: "2026-09-05", Status: entities.ActionItemStatusNew},
		},
		KeyDecisions: []entities.KeyDecision{
			{Description: "Launch on September 15", ParticipantsInvolved: []string{"Dana", "Lee"}, DateMade: "2026-08-28"},
		},
	}
}

func TestFormatForSlackSummaryOnly(t *testing.T) {
	msg := FormatForSlack(sampleAnalysis(), FormatSummaryOnly)

	if !strings.Contains(msg, "The team settled the launch date.") {
		t.Fatal("expected summary in message")
	}
	if strings.Contains(msg, "Action Items") {
		t.Fatal("summary_only must not include action items")
	}
	if strings.Contains(msg, "Key Decisions") {
		t.Fatal("summary_only must not include key decisions")
	}
}

func TestFormatForSlackTasksOnly(t *testing.T) {
	msg := FormatForSlack(sampleAnalysis(), FormatTasksOnly)

	if strings.Contains(msg, "Meeting Summary for") {
		t.Fatal("tasks_only must not include the summary header")
	}
	if !strings.Contains(msg, "Draft checklist") {
		t.Fatal("expected the task in the message")
	}
	if strings.Contains(msg, "Key Decisions") {
		t.Fatal("tasks_only must not include key decisions")
	}
}

func TestFormatForSlackTasksOnlyEmpty(t *testing.T) {
	a := sampleAnalysis()
	a.ActionItems = nil

	msg := FormatForSlack(a, FormatTasksOnly)
	if !strings.Contains(msg, "No action items identified.") {
		t.Fatalf("expected empty-tasks note, got %q", msg)
	}
}

func TestFormatForSlackSummaryAndTasks(t *testing.T) {
	msg := FormatForSlack(sampleAnalysis(), FormatSummaryAndTasks)

	for _, want := range []string{
		"Meeting Summary for 7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"The team settled the launch date.",
		"*Action Items:*",
		"Draft checklist",
		"*Key Decisions:*",
		"Launch on September 15 (Participants: Dana, Lee, Date: 2026-08-28)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in message:\n%s", want, msg)
		}
	}
}

func TestFormatForSlackDeterministic(t *testing.T) {
	a := sampleAnalysis()
	first := FormatForSlack(a, FormatSummaryAndTasks)
	second := FormatForSlack(a, FormatSummaryAndTasks)

	if first != second {
		t.Fatal("formatting must be deterministic for the same record")
	}
	// Formatting must not mutate the record.
	if a.ActionItems[0].Task != "Draft checklist" {
		t.Fatal("formatting mutated the record")
	}
}

func TestFormatValid(t *testing.T) {
	for _, f := range []Format{FormatSummaryOnly, FormatTasksOnly, FormatSummaryAndTasks} {
		if !f.Valid() {
			t.Fatalf("expected %q to be valid", f)
		}
	}
	if Format("everything").Valid() {
		t.Fatal("unknown format must be invalid")
	}
}

func TestFormatForEmail(t *testing.T) {
	body := FormatForEmail(sampleAnalysis())

	for _, want := range []string{
		"Meeting Summary for 7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"The team settled the launch date.",
		"Action Items:",
		"Draft checklist",
		"Key Decisions:",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body:\n%s", want, body)
		}
	}
}
