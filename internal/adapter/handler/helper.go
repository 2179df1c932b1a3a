package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/errors"
)

// errs is the standardized error response body.
type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// base carries the shared response helpers for all handlers.
type base struct {
	logger *zap.Logger
}

// handleSuccess writes the payload directly; the record wire shape is the
// public contract, so success responses are not wrapped in an envelope.
func (b *base) handleSuccess(c echo.Context, status int, data interface{}) error {
	if b.logger != nil {
		b.logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}
	return c.JSON(status, data)
}

// handleError centralizes error handling and logging
func (b *base) handleError(c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = errors.ErrInternal(err)
	}

	if b.logger != nil {
		b.logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil && appErr.HTTPCode != http.StatusInternalServerError {
		// Internal causes stay in the logs, not in the response.
		info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, errs{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	})
}
