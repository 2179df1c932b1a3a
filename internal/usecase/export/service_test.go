package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/infrastructure/external/slack"
)

type stubSlack struct {
	err  error
	text string
}

func (s *stubSlack) PostMessage(_ context.Context, channelID, text string) (*slack.MessageAck, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.text = text
	return &slack.MessageAck{Channel: channelID, TS: "1725000000.000100"}, nil
}

type stubMailer struct {
	err       error
	recipient string
	subject   string
	body      string
}

func (s *stubMailer) Send(recipient, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.recipient = recipient
	s.subject = subject
	s.body = body
	return nil
}

type stubNotion struct {
	err    error
	dbID   string
	pageID string
}

func (s *stubNotion) CreateMeetingPage(_ context.Context, databaseID string, _ *entities.MeetingAnalysis) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.dbID = databaseID
	return s.pageID, nil
}

func TestToSlackDefaultsFormat(t *testing.T) {
	sl := &stubSlack{}
	svc := NewService(sl, nil, nil, zap.NewNop())

	ack, err := svc.ToSlack(context.Background(), sampleAnalysis(), "C123", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Channel != "C123" || ack.TS == "" {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	// Empty format falls back to summary_and_tasks.
	if !strings.Contains(sl.text, "*Action Items:*") || !strings.Contains(sl.text, "Meeting Summary for") {
		t.Fatalf("expected full message, got:\n%s", sl.text)
	}
}

func TestToSlackRejectsUnknownFormat(t *testing.T) {
	svc := NewService(&stubSlack{}, nil, nil, zap.NewNop())

	_, err := svc.ToSlack(context.Background(), sampleAnalysis(), "C123", Format("everything"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestToSlackPropagatesDeliveryFailure(t *testing.T) {
	svc := NewService(&stubSlack{err: errors.New("channel_not_found")}, nil, nil, zap.NewNop())

	_, err := svc.ToSlack(context.Background(), sampleAnalysis(), "C123", FormatSummaryOnly)
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestToEmail(t *testing.T) {
	mailer := &stubMailer{}
	svc := NewService(nil, mailer, nil, zap.NewNop())

	if err := svc.ToEmail(context.Background(), sampleAnalysis(), "team@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mailer.recipient != "team@example.com" {
		t.Fatalf("unexpected recipient: %q", mailer.recipient)
	}
	if mailer.subject != emailSubject {
		t.Fatalf("unexpected subject: %q", mailer.subject)
	}
	if !strings.Contains(mailer.body, "The team settled the launch date.") {
		t.Fatal("expected summary in mail body")
	}
}

func TestToNotion(t *testing.T) {
	n := &stubNotion{pageID: "page-1"}
	svc := NewService(nil, nil, n, zap.NewNop())

	pageID, err := svc.ToNotion(context.Background(), sampleAnalysis(), "db-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pageID != "page-1" || n.dbID != "db-1" {
		t.Fatalf("unexpected result: page %q db %q", pageID, n.dbID)
	}
}

func TestUnconfiguredDestinations(t *testing.T) {
	svc := NewService(nil, nil, nil, zap.NewNop())

	if _, err := svc.ToSlack(context.Background(), sampleAnalysis(), "C123", FormatSummaryOnly); err == nil {
		t.Fatal("expected error for unconfigured slack")
	}
	if err := svc.ToEmail(context.Background(), sampleAnalysis(), "a@b.c"); err == nil {
		t.Fatal("expected error for unconfigured email")
	}
	if _, err := svc.ToNotion(context.Background(), sampleAnalysis(), "db"); err == nil {
		t.Fatal("expected error for unconfigured notion")
	}
}
