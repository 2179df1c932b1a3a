package handler

import (
	"context"
	stdErrors "errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/errors"
	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/domain/repositories"
)

const listMeetingsLimit = 100

// Pipeline runs the meeting analysis pipeline.
type Pipeline interface {
	AnalyzeTranscript(ctx context.Context, transcript string) (*entities.MeetingAnalysis, error)
	TranscribeAndAnalyze(ctx context.Context, src io.Reader, filename, contentType string) (*entities.MeetingAnalysis, error)
}

// Meeting handles analysis and retrieval HTTP requests.
type Meeting struct {
	base
	pipeline Pipeline
	meetings repositories.MeetingRepository
}

// NewMeetingHandler creates a new meeting handler.
func NewMeetingHandler(pipeline Pipeline, meetings repositories.MeetingRepository, logger *zap.Logger) *Meeting {
	return &Meeting{
		base:     base{logger: logger},
		pipeline: pipeline,
		meetings: meetings,
	}
}

// AnalyzeTranscript handles POST /analyze/. The uploaded file must be valid
// UTF-8 text.
func (h *Meeting) AnalyzeTranscript(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.handleError(c, errors.ErrInvalidArgument("A transcript file is required."))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return h.handleError(c, errors.ErrInternal(err))
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return h.handleError(c, errors.ErrInternal(err))
	}
	if !utf8.Valid(content) {
		return h.handleError(c, errors.ErrInvalidArgument(
			"Could not decode transcript file. Please ensure it's a valid UTF-8 text file."))
	}

	record, err := h.pipeline.AnalyzeTranscript(c.Request().Context(), string(content))
	if err != nil {
		if stdErrors.Is(err, entities.ErrEmptyTranscript) {
			return h.handleError(c, errors.ErrInvalidArgument("Transcript file contains no text."))
		}
		return h.handleError(c, err)
	}

	return h.handleSuccess(c, http.StatusOK, record)
}

// TranscribeAndAnalyze handles POST /transcribe-and-analyze/. Only audio and
// video uploads are accepted; the check runs before any upstream work.
func (h *Meeting) TranscribeAndAnalyze(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.handleError(c, errors.ErrInvalidArgument("An audio or video file is required."))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return h.handleError(c, errors.ErrInternal(err))
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	record, err := h.pipeline.TranscribeAndAnalyze(c.Request().Context(), f, fileHeader.Filename, contentType)
	if err != nil {
		if stdErrors.Is(err, entities.ErrEmptyTranscript) {
			return h.handleError(c, errors.ErrNoSpeechDetected())
		}
		return h.handleError(c, err)
	}

	return h.handleSuccess(c, http.StatusOK, record)
}

// ListMeetings handles GET /meetings/.
func (h *Meeting) ListMeetings(c echo.Context) error {
	records, err := h.meetings.List(c.Request().Context(), listMeetingsLimit)
	if err != nil {
		return h.handleError(c, errors.ErrDBQueryFailed("list meetings", err))
	}
	if records == nil {
		records = []*entities.MeetingAnalysis{}
	}
	return h.handleSuccess(c, http.StatusOK, records)
}

// GetMeeting handles GET /meetings/:meeting_id.
func (h *Meeting) GetMeeting(c echo.Context) error {
	meetingID := c.Param("meeting_id")

	record, err := h.meetings.GetByMeetingID(c.Request().Context(), meetingID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return h.handleError(c, errors.ErrNotFound("Meeting"))
		}
		return h.handleError(c, errors.ErrDBQueryFailed("get meeting", err))
	}

	return h.handleSuccess(c, http.StatusOK, record)
}
