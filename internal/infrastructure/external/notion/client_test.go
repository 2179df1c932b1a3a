package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.NotionConfig{APIKey: "secret-test", BaseURL: srv.URL})
}

func sampleAnalysis() *entities.MeetingAnalysis {
	return &entities.MeetingAnalysis{
		MeetingID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Timestamp: "2026-08-30T10:00:00Z",
		Summary:   "Launch date settled.",
		ActionItems: []entities.ActionItem{
			{Task: "Draft checklist", Assignee: "Dana", Deadline: "2026-09-05", Status: entities.ActionItemStatusNew},
		},
		KeyDecisions: []entities.KeyDecision{
			{Description: "Launch Sep 15", ParticipantsInvolved: []string{"Dana", "Lee"}, DateMade: "2026-08-28"},
		},
	}
}

func TestCreateMeetingPage(t *testing.T) {
	var gotReq createPageRequest
	var gotVersion string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/pages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotVersion = r.Header.Get("Notion-Version")
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"id":"page-123"}`))
	})

	pageID, err := client.CreateMeetingPage(context.Background(), "db-1", sampleAnalysis())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pageID != "page-123" {
		t.Fatalf("unexpected page id: %q", pageID)
	}
	if gotVersion != apiVersion {
		t.Fatalf("unexpected api version: %q", gotVersion)
	}
	if gotReq.Parent["database_id"] != "db-1" {
		t.Fatalf("unexpected parent: %+v", gotReq.Parent)
	}
	for _, key := range []string{"Title", "Summary", "Timestamp", "Action Items", "Assignees", "Deadline", "Key Decisions"} {
		if _, ok := gotReq.Properties[key]; !ok {
			t.Fatalf("expected property %q in request", key)
		}
	}
}

func TestCreateMeetingPageWithoutActionItems(t *testing.T) {
	var gotReq createPageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"id":"page-123"}`))
	})

	a := sampleAnalysis()
	a.ActionItems = nil
	a.KeyDecisions = nil

	if _, err := client.CreateMeetingPage(context.Background(), "db-1", a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"Action Items", "Assignees", "Deadline", "Key Decisions"} {
		if _, ok := gotReq.Properties[key]; ok {
			t.Fatalf("property %q must be omitted when empty", key)
		}
	}
}

func TestCreateMeetingPageAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Deadline is not a property that exists"}`))
	})

	_, err := client.CreateMeetingPage(context.Background(), "db-1", sampleAnalysis())
	if err == nil || !strings.Contains(err.Error(), "Deadline is not a property") {
		t.Fatalf("expected api error message, got %v", err)
	}
}

func TestCreateMeetingPageRequiresDatabase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.CreateMeetingPage(context.Background(), "", sampleAnalysis())
	if err == nil || !strings.Contains(err.Error(), "database id is required") {
		t.Fatalf("expected database id error, got %v", err)
	}
}

func TestSanitizeSelect(t *testing.T) {
	if got := sanitizeSelect("ship, then iterate"); strings.Contains(got, ",") {
		t.Fatalf("commas must be stripped, got %q", got)
	}
	long := strings.Repeat("x", 150)
	if got := sanitizeSelect(long); len([]rune(got)) > 100 {
		t.Fatalf("names must be capped at 100 chars, got %d", len([]rune(got)))
	}
}
