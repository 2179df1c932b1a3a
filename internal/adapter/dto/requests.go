package dto

import "github.com/meetinglens/meetinglens/internal/domain/entities"

// AnalyzeTextResponse and the export requests reuse the entity wire shape
// directly; the analysis record is the public contract of the service.

// RAGQueryRequest asks a question of the indexed meeting archive.
type RAGQueryRequest struct {
	Query     string `json:"query" validate:"required"`
	MeetingID string `json:"meeting_id,omitempty"`
}

// RAGSourceDocument is one retrieved excerpt backing an answer.
type RAGSourceDocument struct {
	PageContentPreview string                 `json:"page_content_preview"`
	Metadata           map[string]interface{} `json:"metadata"`
}

// RAGQueryResponse is the grounded answer with its sources.
type RAGQueryResponse struct {
	Answer          string              `json:"answer"`
	SourceDocuments []RAGSourceDocument `json:"source_documents"`
}

// SlackExportRequest exports an analysis to a Slack channel.
type SlackExportRequest struct {
	MeetingAnalysis entities.MeetingAnalysis `json:"meeting_analysis" validate:"required"`
	SlackChannelID  string                   `json:"slack_channel_id" validate:"required"`
	ExportFormat    string                   `json:"export_format,omitempty" validate:"omitempty,oneof=summary_only tasks_only summary_and_tasks"`
}

// SlackExportResponse acknowledges a Slack delivery.
type SlackExportResponse struct {
	Message       string      `json:"message"`
	SlackResponse interface{} `json:"slack_response"`
}

// EmailExportRequest exports an analysis via email.
type EmailExportRequest struct {
	MeetingAnalysis entities.MeetingAnalysis `json:"meeting_analysis" validate:"required"`
	Recipient       string                   `json:"recipient" validate:"required,email"`
}

// NotionExportRequest exports an analysis to a Notion database. DatabaseID
// falls back to the configured default when empty.
type NotionExportRequest struct {
	MeetingAnalysis entities.MeetingAnalysis `json:"meeting_analysis" validate:"required"`
	DatabaseID      string                   `json:"database_id,omitempty"`
}

// ExportAck is the generic success acknowledgement for exports.
type ExportAck struct {
	Message string `json:"message"`
	PageID  string `json:"page_id,omitempty"`
}
