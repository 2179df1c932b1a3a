package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	repo "github.com/meetinglens/meetinglens/internal/domain/repositories"
)

// meetingRecord is the persistence shape of a MeetingAnalysis. The numeric
// primary key is store-internal and never leaves the repository.
type meetingRecord struct {
	ID                   uint           `gorm:"primaryKey;autoIncrement"`
	MeetingID            string         `gorm:"type:uuid;not null;uniqueIndex"`
	Timestamp            string         `gorm:"type:varchar(64);not null"`
	Summary              string         `gorm:"type:text;not null"`
	ActionItems          datatypes.JSON `gorm:"type:jsonb"`
	KeyDecisions         datatypes.JSON `gorm:"type:jsonb"`
	RawTranscriptPreview string         `gorm:"type:text"`
	FullTranscriptPath   string         `gorm:"type:text"`
	SpeakersDetected     datatypes.JSON `gorm:"type:jsonb"`
	ToneOverview         string         `gorm:"type:text"`
	ImportantTopics      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt            time.Time      `gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for meetingRecord
func (meetingRecord) TableName() string {
	return "meeting_analyses"
}

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a meeting record store backed by GORM.
func NewMeetingRepository(db *gorm.DB) repo.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create persists a record. Validation runs again here as defense in depth:
// a record that slipped past analyzer validation must not reach storage.
func (r *meetingRepository) Create(ctx context.Context, analysis *entities.MeetingAnalysis) error {
	if err := analysis.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid record: %w", err)
	}

	record, err := toRecord(analysis)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to store meeting analysis: %w", err)
	}
	return nil
}

func (r *meetingRepository) GetByMeetingID(ctx context.Context, meetingID string) (*entities.MeetingAnalysis, error) {
	var record meetingRecord
	err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to load meeting analysis: %w", err)
	}
	return fromRecord(&record)
}

func (r *meetingRepository) List(ctx context.Context, limit int) ([]*entities.MeetingAnalysis, error) {
	var records []meetingRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meeting analyses: %w", err)
	}

	out := make([]*entities.MeetingAnalysis, 0, len(records))
	for i := range records {
		analysis, err := fromRecord(&records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, nil
}

func toRecord(a *entities.MeetingAnalysis) (*meetingRecord, error) {
	actionItems, err := json.Marshal(a.ActionItems)
	if err != nil {
		return nil, fmt.Errorf("failed to encode action items: %w", err)
	}
	keyDecisions, err := json.Marshal(a.KeyDecisions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key decisions: %w", err)
	}
	speakers, err := json.Marshal(a.SpeakersDetected)
	if err != nil {
		return nil, fmt.Errorf("failed to encode speakers: %w", err)
	}
	topics, err := json.Marshal(a.ImportantTopics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode topics: %w", err)
	}

	return &meetingRecord{
		MeetingID:            a.MeetingID,
		Timestamp:            a.Timestamp,
		Summary:              a.Summary,
		ActionItems:          datatypes.JSON(actionItems),
		KeyDecisions:         datatypes.JSON(keyDecisions),
		RawTranscriptPreview: a.RawTranscriptPreview,
		FullTranscriptPath:   a.FullTranscriptPath,
		SpeakersDetected:     datatypes.JSON(speakers),
		ToneOverview:         a.ToneOverview,
		ImportantTopics:      datatypes.JSON(topics),
	}, nil
}

func fromRecord(r *meetingRecord) (*entities.MeetingAnalysis, error) {
	a := &entities.MeetingAnalysis{
		MeetingID:            r.MeetingID,
		Timestamp:            r.Timestamp,
		Summary:              r.Summary,
		RawTranscriptPreview: r.RawTranscriptPreview,
		FullTranscriptPath:   r.FullTranscriptPath,
		ToneOverview:         r.ToneOverview,
	}

	if len(r.ActionItems) > 0 {
		if err := json.Unmarshal(r.ActionItems, &a.ActionItems); err != nil {
			return nil, fmt.Errorf("failed to decode action items: %w", err)
		}
	}
	if len(r.KeyDecisions) > 0 {
		if err := json.Unmarshal(r.KeyDecisions, &a.KeyDecisions); err != nil {
			return nil, fmt.Errorf("failed to decode key decisions: %w", err)
		}
	}
	if len(r.SpeakersDetected) > 0 {
		if err := json.Unmarshal(r.SpeakersDetected, &a.SpeakersDetected); err != nil {
			return nil, fmt.Errorf("failed to decode speakers: %w", err)
		}
	}
	if len(r.ImportantTopics) > 0 {
		if err := json.Unmarshal(r.ImportantTopics, &a.ImportantTopics); err != nil {
			return nil, fmt.Errorf("failed to decode topics: %w", err)
		}
	}

	return a, nil
}
