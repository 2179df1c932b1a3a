package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/mail"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/notion"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/slack"
)

const emailSubject = "Meeting Summary"

// SlackAck reports a delivered Slack export.
type SlackAck struct {
	Channel string `json:"channel"`
	TS      string `json:"ts"`
}

// Service renders meeting records and delivers them to external
// destinations. Exports read records and never mutate them.
type Service struct {
	slack  slack.Client
	mailer mail.Sender
	notion notion.Client
	logger *zap.Logger
}

// NewService creates an export service. Any destination client may be nil;
// exports to a nil destination fail with a configuration error.
func NewService(slackClient slack.Client, mailer mail.Sender, notionClient notion.Client, logger *zap.Logger) *Service {
	return &Service{
		slack:  slackClient,
		mailer: mailer,
		notion: notionClient,
		logger: logger,
	}
}

// ToSlack renders the analysis in the requested format and posts it to the
// channel. An empty format falls back to the default.
func (s *Service) ToSlack(ctx context.Context, analysis *entities.MeetingAnalysis, channelID string, format Format) (*SlackAck, error) {
	if s.slack == nil {
		return nil, fmt.Errorf("slack is not configured")
	}
	if format == "" {
		format = DefaultFormat
	}
	if !format.Valid() {
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	ack, err := s.slack.PostMessage(ctx, channelID, FormatForSlack(analysis, format))
	if err != nil {
		return nil, fmt.Errorf("slack export failed: %w", err)
	}

	s.logger.Info("exported meeting to slack",
		zap.String("meeting_id", analysis.MeetingID),
		zap.String("channel", ack.Channel),
		zap.String("ts", ack.TS))
	return &SlackAck{Channel: ack.Channel, TS: ack.TS}, nil
}

// ToEmail sends the full analysis to the recipient as plain text.
func (s *Service) ToEmail(ctx context.Context, analysis *entities.MeetingAnalysis, recipient string) error {
	if s.mailer == nil {
		return fmt.Errorf("email is not configured")
	}

	if err := s.mailer.Send(recipient, emailSubject, FormatForEmail(analysis)); err != nil {
		return fmt.Errorf("email export failed: %w", err)
	}

	s.logger.Info("exported meeting via email",
		zap.String("meeting_id", analysis.MeetingID),
		zap.String("recipient", recipient))
	return nil
}

// ToNotion creates a page for the analysis in the given database and
// returns the created page id.
func (s *Service) ToNotion(ctx context.Context, analysis *entities.MeetingAnalysis, databaseID string) (string, error) {
	if s.notion == nil {
		return "", fmt.Errorf("notion is not configured")
	}

	pageID, err := s.notion.CreateMeetingPage(ctx, databaseID, analysis)
	if err != nil {
		return "", fmt.Errorf("notion export failed: %w", err)
	}

	s.logger.Info("exported meeting to notion",
		zap.String("meeting_id", analysis.MeetingID),
		zap.String("page_id", pageID))
	return pageID, nil
}
