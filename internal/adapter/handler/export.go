package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/errors"
	"github.com/meetinglens/meetinglens/internal/adapter/dto"
	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/usecase/export"
)

// Exporter delivers a meeting analysis to an external destination.
type Exporter interface {
	ToSlack(ctx context.Context, analysis *entities.MeetingAnalysis, channelID string, format export.Format) (*export.SlackAck, error)
	ToEmail(ctx context.Context, analysis *entities.MeetingAnalysis, recipient string) error
	ToNotion(ctx context.Context, analysis *entities.MeetingAnalysis, databaseID string) (string, error)
}

// Export handles export HTTP requests.
type Export struct {
	base
	exporter        Exporter
	defaultNotionDB string
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exporter Exporter, defaultNotionDB string, logger *zap.Logger) *Export {
	return &Export{
		base:            base{logger: logger},
		exporter:        exporter,
		defaultNotionDB: defaultNotionDB,
	}
}

// ToSlack handles POST /export/slack.
func (h *Export) ToSlack(c echo.Context) error {
	var req dto.SlackExportRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := req.MeetingAnalysis.Validate(); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}

	ack, err := h.exporter.ToSlack(c.Request().Context(), &req.MeetingAnalysis, req.SlackChannelID, export.Format(req.ExportFormat))
	if err != nil {
		return h.handleError(c, h.exportError("slack", err))
	}

	return h.handleSuccess(c, http.StatusOK, dto.SlackExportResponse{
		Message:       "Content successfully exported to Slack.",
		SlackResponse: ack,
	})
}

// ToEmail handles POST /export/email.
func (h *Export) ToEmail(c echo.Context) error {
	var req dto.EmailExportRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := req.MeetingAnalysis.Validate(); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.exporter.ToEmail(c.Request().Context(), &req.MeetingAnalysis, req.Recipient); err != nil {
		return h.handleError(c, h.exportError("email", err))
	}

	return h.handleSuccess(c, http.StatusOK, dto.ExportAck{Message: "Email sent successfully"})
}

// ToNotion handles POST /export/notion.
func (h *Export) ToNotion(c echo.Context) error {
	var req dto.NotionExportRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := req.MeetingAnalysis.Validate(); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}

	databaseID := req.DatabaseID
	if databaseID == "" {
		databaseID = h.defaultNotionDB
	}
	if databaseID == "" {
		return h.handleError(c, errors.ErrInvalidArgument("A Notion database id is required."))
	}

	pageID, err := h.exporter.ToNotion(c.Request().Context(), &req.MeetingAnalysis, databaseID)
	if err != nil {
		return h.handleError(c, h.exportError("notion", err))
	}

	return h.handleSuccess(c, http.StatusOK, dto.ExportAck{
		Message: "Meeting analysis exported to Notion.",
		PageID:  pageID,
	})
}

func (h *Export) exportError(destination string, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}
	return errors.ErrExportFailed(destination, err)
}
