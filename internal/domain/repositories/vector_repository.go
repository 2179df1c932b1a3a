package repositories

import (
	"context"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
)

// VectorRepository is the persistent embedding index. It is a derived,
// denormalized view of record store content; on disagreement the record
// store wins.
type VectorRepository interface {
	// AddChunks stores embedded chunks tagged with their meeting id.
	AddChunks(ctx context.Context, chunks []*entities.Chunk) error

	// Search returns up to k chunks most similar to the query embedding,
	// optionally restricted to one meeting when meetingID is non-empty.
	// Results are ordered by descending similarity.
	Search(ctx context.Context, embedding []float32, k int, meetingID string) ([]entities.ScoredChunk, error)
}
