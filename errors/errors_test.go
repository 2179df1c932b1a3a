package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := ErrTranscriptionFailed(cause)

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable via errors.Is")
	}

	var appErr AppError
	if !stdErrors.As(error(err), &appErr) {
		t.Fatal("expected errors.As to find AppError")
	}
	if appErr.Code != ErrorCode_TRANSCRIPTION_FAILED {
		t.Fatalf("unexpected code: %v", appErr.Code)
	}
}

func TestWithDetail(t *testing.T) {
	err := ErrAnalysisNotPersisted("m-1", stdErrors.New("db down"))
	if err.Details["meeting_id"] != "m-1" {
		t.Fatalf("expected meeting_id detail, got %+v", err.Details)
	}
	if err.HTTPCode != http.StatusInternalServerError {
		t.Fatalf("unexpected http code: %d", err.HTTPCode)
	}
}

func TestClientErrorCodes(t *testing.T) {
	cases := []struct {
		err  AppError
		code ErrorCode
	}{
		{ErrUnsupportedMediaType("application/pdf"), ErrorCode_UNSUPPORTED_MEDIA_TYPE},
		{ErrNoSpeechDetected(), ErrorCode_NO_SPEECH_DETECTED},
		{ErrInvalidArgument("bad"), ErrorCode_INVALID_ARGUMENT},
	}
	for _, tc := range cases {
		if tc.err.HTTPCode != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", tc.code, tc.err.HTTPCode)
		}
		if tc.err.Code != tc.code {
			t.Errorf("expected code %v, got %v", tc.code, tc.err.Code)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCode_RAG_QUERY_FAILED.String() != "RAG_QUERY_FAILED" {
		t.Fatalf("unexpected name: %s", ErrorCode_RAG_QUERY_FAILED.String())
	}
	if ErrorCode(999).String() != "UNKNOWN" {
		t.Fatalf("unexpected name for unknown code")
	}
}
