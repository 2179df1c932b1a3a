package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/domain/repositories"
	"github.com/meetinglens/meetinglens/pkg/config"
)

// NoAnswerMessage is returned when no indexed chunk clears the relevance
// floor. The model is not consulted in that case, so it cannot fabricate
// an answer from nothing.
const NoAnswerMessage = "No relevant information was found in the indexed meetings."

const sourcePreviewLimit = 200

// Embedder converts text into an embedding vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Answerer produces free-form text from a prompt.
type Answerer interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SourceDocument is one retrieved chunk backing an answer.
type SourceDocument struct {
	MeetingID      string `json:"meeting_id"`
	ChunkIndex     int    `json:"chunk_index"`
	Timestamp      string `json:"timestamp,omitempty"`
	ContentPreview string `json:"content_preview"`
}

// QueryResult is the answer to one question plus its supporting sources.
type QueryResult struct {
	Answer  string           `json:"answer"`
	Sources []SourceDocument `json:"source_documents"`
}

// Engine indexes meeting content and answers questions grounded in the
// retrieved chunks.
type Engine struct {
	embedder Embedder
	answerer Answerer
	vectors  repositories.VectorRepository
	cfg      config.RAGConfig
	logger   *zap.Logger
}

// NewEngine creates a retrieval engine.
func NewEngine(embedder Embedder, answerer Answerer, vectors repositories.VectorRepository, cfg config.RAGConfig, logger *zap.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		answerer: answerer,
		vectors:  vectors,
		cfg:      cfg,
		logger:   logger,
	}
}

// Index chunks the meeting content, embeds every chunk and stores the
// result in the vector store.
func (e *Engine) Index(ctx context.Context, meetingID, content, timestamp string) error {
	pieces := SplitText(content, e.cfg.ChunkSize, e.cfg.ChunkOverlap)
	if len(pieces) == 0 {
		return fmt.Errorf("nothing to index for meeting %s", meetingID)
	}

	chunks := make([]*entities.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		vec, err := e.embedder.EmbedText(ctx, piece)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		chunk := entities.NewChunk(meetingID, piece, i, timestamp)
		chunk.Embedding = vec
		chunks = append(chunks, chunk)
	}

	if err := e.vectors.AddChunks(ctx, chunks); err != nil {
		return fmt.Errorf("failed to index meeting %s: %w", meetingID, err)
	}

	e.logger.Info("indexed meeting content",
		zap.String("meeting_id", meetingID), zap.Int("chunks", len(chunks)))
	return nil
}

// Query answers a question using the indexed meeting archive. meetingID
// narrows retrieval to one meeting when non-empty.
func (e *Engine) Query(ctx context.Context, question, meetingID string) (*QueryResult, error) {
	vec, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	scored, err := e.vectors.Search(ctx, vec, e.cfg.TopK, meetingID)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	relevant := scored[:0]
	for _, sc := range scored {
		if sc.Score >= e.cfg.MinScore {
			relevant = append(relevant, sc)
		}
	}

	if len(relevant) == 0 {
		return &QueryResult{Answer: NoAnswerMessage, Sources: []SourceDocument{}}, nil
	}

	answer, err := e.answerer.GenerateText(ctx, buildGroundedPrompt(question, relevant))
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	sources := make([]SourceDocument, 0, len(relevant))
	for _, sc := range relevant {
		sources = append(sources, SourceDocument{
			MeetingID:      sc.Chunk.MeetingID,
			ChunkIndex:     sc.Chunk.Index,
			Timestamp:      sc.Chunk.Timestamp,
			ContentPreview: preview(sc.Chunk.Content),
		})
	}

	return &QueryResult{Answer: strings.TrimSpace(answer), Sources: sources}, nil
}

func buildGroundedPrompt(question string, chunks []entities.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the meeting excerpts below. ")
	b.WriteString("If the excerpts do not contain the answer, say so explicitly instead of guessing.\n\n")
	for i, sc := range chunks {
		fmt.Fprintf(&b, "Excerpt %d (meeting %s):\n%s\n\n", i+1, sc.Chunk.MeetingID, sc.Chunk.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= sourcePreviewLimit {
		return content
	}
	return string(runes[:sourcePreviewLimit]) + "..."
}
