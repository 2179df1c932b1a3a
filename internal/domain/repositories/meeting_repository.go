package repositories

import (
	"context"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
)

// MeetingRepository owns persisted analysis records. Records are created and
// read, never updated or deleted.
type MeetingRepository interface {
	// Create persists a fully-formed record. Implementations must reject
	// records that fail entity validation before touching storage.
	Create(ctx context.Context, analysis *entities.MeetingAnalysis) error

	// GetByMeetingID returns the record, or entities.ErrMeetingNotFound.
	GetByMeetingID(ctx context.Context, meetingID string) (*entities.MeetingAnalysis, error)

	// List returns up to limit most-recently-stored records.
	List(ctx context.Context, limit int) ([]*entities.MeetingAnalysis, error)
}
