package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/meetinglens/meetinglens/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg     *config.Config
	meeting *Meeting
	rag     *RAG
	export  *Export
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meeting *Meeting, rag *RAG, export *Export) *Router {
	return &Router{
		cfg:     cfg,
		meeting: meeting,
		rag:     rag,
		export:  export,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	e.POST("/analyze/", rt.meeting.AnalyzeTranscript)
	e.POST("/transcribe-and-analyze/", rt.meeting.TranscribeAndAnalyze)

	e.GET("/meetings/", rt.meeting.ListMeetings)
	e.GET("/meetings/:meeting_id", rt.meeting.GetMeeting)

	e.POST("/query-rag/", rt.rag.Query)

	exportGroup := e.Group("/export")
	exportGroup.POST("/slack", rt.export.ToSlack)
	exportGroup.POST("/email", rt.export.ToEmail)
	exportGroup.POST("/notion", rt.export.ToNotion)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
