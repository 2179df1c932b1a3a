package export

import (
	"fmt"
	"strings"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
)

// Format selects which sections of an analysis are rendered.
type Format string

const (
	FormatSummaryOnly     Format = "summary_only"
	FormatTasksOnly       Format = "tasks_only"
	FormatSummaryAndTasks Format = "summary_and_tasks"
)

// DefaultFormat is used when the caller does not specify one.
const DefaultFormat = FormatSummaryAndTasks

// Valid reports whether f is a known export format.
func (f Format) Valid() bool {
	switch f {
	case FormatSummaryOnly, FormatTasksOnly, FormatSummaryAndTasks:
		return true
	}
	return false
}

// FormatForSlack renders the analysis as Slack markdown. Rendering is a pure
// function of its inputs: the same record and format always produce the same
// message.
func FormatForSlack(a *entities.MeetingAnalysis, format Format) string {
	var lines []string

	if format == FormatSummaryOnly || format == FormatSummaryAndTasks {
		lines = append(lines, fmt.Sprintf("*Meeting Summary for %s*", valueOr(a.MeetingID, "Unknown Meeting")))
		lines = append(lines, fmt.Sprintf("_%s_", valueOr(a.Timestamp, "N/A")))
		lines = append(lines, fmt.Sprintf("\n>%s\n", valueOr(a.Summary, "No summary available.")))
	}

	if format == FormatTasksOnly || format == FormatSummaryAndTasks {
		if len(a.ActionItems) > 0 {
			lines = append(lines, "*Action Items:*")
			for _, item := range a.ActionItems {
				lines = append(lines, fmt.Sprintf("• *Task:* %s\n  • *Assignee:* %s\n  • *Deadline:* %s\n  • *Status:* %s",
					valueOr(item.Task, "N/A"),
					valueOr(item.Assignee, entities.UnassignedAssignee),
					valueOr(item.Deadline, "No Deadline"),
					valueOr(string(item.Status), string(entities.ActionItemStatusNew))))
			}
		} else if format == FormatTasksOnly {
			lines = append(lines, "No action items identified.")
		}
	}

	if len(a.KeyDecisions) > 0 && format == FormatSummaryAndTasks {
		lines = append(lines, "\n*Key Decisions:*")
		for _, d := range a.KeyDecisions {
			participants := strings.Join(d.ParticipantsInvolved, ", ")
			if participants == "" {
				participants = "N/A"
			}
			lines = append(lines, fmt.Sprintf("• %s (Participants: %s, Date: %s)",
				valueOr(d.Description, "N/A"), participants, valueOr(d.DateMade, "N/A")))
		}
	}

	return strings.Join(lines, "\n")
}

// FormatForEmail renders the full analysis as plain text for mail delivery.
func FormatForEmail(a *entities.MeetingAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Meeting Summary for %s\n", valueOr(a.MeetingID, "Unknown Meeting"))
	fmt.Fprintf(&b, "Date: %s\n\n", valueOr(a.Timestamp, "N/A"))
	fmt.Fprintf(&b, "Summary:\n%s\n", valueOr(a.Summary, "No summary available."))

	if len(a.ActionItems) > 0 {
		b.WriteString("\nAction Items:\n")
		for _, item := range a.ActionItems {
			fmt.Fprintf(&b, "- %s (Assignee: %s, Deadline: %s, Status: %s)\n",
				valueOr(item.Task, "N/A"),
				valueOr(item.Assignee, entities.UnassignedAssignee),
				valueOr(item.Deadline, "No Deadline"),
				valueOr(string(item.Status), string(entities.ActionItemStatusNew)))
		}
	}

	if len(a.KeyDecisions) > 0 {
		b.WriteString("\nKey Decisions:\n")
		for _, d := range a.KeyDecisions {
			participants := strings.Join(d.ParticipantsInvolved, ", ")
			if participants == "" {
				participants = "N/A"
			}
			fmt.Fprintf(&b, "- %s (Participants: %s, Date: %s)\n",
				valueOr(d.Description, "N/A"), participants, valueOr(d.DateMade, "N/A"))
		}
	}

	return b.String()
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
