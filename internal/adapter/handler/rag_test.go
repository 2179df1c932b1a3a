package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/internal/adapter/dto"
	"github.com/meetinglens/meetinglens/internal/usecase/rag"
)

type stubEngine struct {
	result    *rag.QueryResult
	err       error
	question  string
	meetingID string
}

func (s *stubEngine) Query(_ context.Context, question, meetingID string) (*rag.QueryResult, error) {
	s.question = question
	s.meetingID = meetingID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestRAGQueryHappyPath(t *testing.T) {
	e := newEcho()
	engine := &stubEngine{result: &rag.QueryResult{
		Answer: "The launch moved to September 15.",
		Sources: []rag.SourceDocument{
			{MeetingID: "m-1", ChunkIndex: 2, Timestamp: "2026-08-30T10:00:00Z", ContentPreview: "launch moved..."},
		},
	}}
	h := NewRAGHandler(engine, zap.NewNop())

	body := `{"query": "when is the launch?", "meeting_id": "m-1"}`
	req := httptest.NewRequest(http.MethodPost, "/query-rag/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Query(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if engine.question != "when is the launch?" || engine.meetingID != "m-1" {
		t.Fatalf("engine received wrong arguments: %q %q", engine.question, engine.meetingID)
	}

	var resp dto.RAGQueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Answer == "" || len(resp.SourceDocuments) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.SourceDocuments[0].Metadata["meeting_id"] != "m-1" {
		t.Fatalf("unexpected source metadata: %+v", resp.SourceDocuments[0].Metadata)
	}
}

func TestRAGQueryRequiresQuery(t *testing.T) {
	e := newEcho()
	h := NewRAGHandler(&stubEngine{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/query-rag/", strings.NewReader(`{"meeting_id": "m-1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Query(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRAGQueryNoAnswer(t *testing.T) {
	e := newEcho()
	engine := &stubEngine{result: &rag.QueryResult{Answer: rag.NoAnswerMessage, Sources: []rag.SourceDocument{}}}
	h := NewRAGHandler(engine, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/query-rag/", strings.NewReader(`{"query": "who won the game?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Query(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("no-answer is a successful response, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), rag.NoAnswerMessage) {
		t.Fatalf("expected the no-answer message, got %s", rec.Body.String())
	}
}
