package handler

import (
	"context"
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/errors"
	"github.com/meetinglens/meetinglens/internal/adapter/dto"
	"github.com/meetinglens/meetinglens/internal/usecase/rag"
)

// QueryEngine answers questions from the indexed meeting archive.
type QueryEngine interface {
	Query(ctx context.Context, question, meetingID string) (*rag.QueryResult, error)
}

// RAG handles retrieval query HTTP requests.
type RAG struct {
	base
	engine QueryEngine
}

// NewRAGHandler creates a new RAG handler.
func NewRAGHandler(engine QueryEngine, logger *zap.Logger) *RAG {
	return &RAG{
		base:   base{logger: logger},
		engine: engine,
	}
}

// Query handles POST /query-rag/.
func (h *RAG) Query(c echo.Context) error {
	var req dto.RAGQueryRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return h.handleError(c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.engine.Query(c.Request().Context(), req.Query, req.MeetingID)
	if err != nil {
		var appErr errors.AppError
		if stdErrors.As(err, &appErr) {
			return h.handleError(c, err)
		}
		return h.handleError(c, errors.ErrRAGQueryFailed(err))
	}

	return h.handleSuccess(c, http.StatusOK, toRAGResponse(result))
}

func toRAGResponse(result *rag.QueryResult) dto.RAGQueryResponse {
	sources := make([]dto.RAGSourceDocument, 0, len(result.Sources))
	for _, src := range result.Sources {
		metadata := map[string]interface{}{
			"meeting_id":  src.MeetingID,
			"chunk_index": src.ChunkIndex,
		}
		if src.Timestamp != "" {
			metadata["timestamp"] = src.Timestamp
		}
		sources = append(sources, dto.RAGSourceDocument{
			PageContentPreview: src.ContentPreview,
			Metadata:           metadata,
		})
	}
	return dto.RAGQueryResponse{
		Answer:          result.Answer,
		SourceDocuments: sources,
	}
}
