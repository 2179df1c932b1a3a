package transcription

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/meetinglens/meetinglens/errors"
	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/pkg/ai"
	"github.com/meetinglens/meetinglens/pkg/retry"
)

// Transcriber converts a staged media file into a transcript.
type Transcriber interface {
	TranscribeFile(ctx context.Context, path string) (*ai.TranscriptDetail, error)
}

// ArtifactStore persists transcript artifacts for later retrieval.
type ArtifactStore interface {
	UploadJSON(ctx context.Context, objectName string, content []byte) (string, error)
}

// Service runs speech-to-text on staged uploads. Concurrent transcriptions
// are capped with a semaphore so a burst of uploads cannot saturate the
// provider connection.
type Service struct {
	transcriber Transcriber
	artifacts   ArtifactStore
	logger      *zap.Logger
	slots       chan struct{}
}

// NewService creates a transcription service. artifacts may be nil, in which
// case no transcript artifact is stored.
func NewService(transcriber Transcriber, artifacts ArtifactStore, maxConcurrent int, logger *zap.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Service{
		transcriber: transcriber,
		artifacts:   artifacts,
		logger:      logger,
		slots:       make(chan struct{}, maxConcurrent),
	}
}

// Transcribe runs speech-to-text on the staged file and stores the detailed
// transcript as an artifact. It returns the transcript and the artifact
// object path; artifact storage is best effort and never fails the request.
func (s *Service) Transcribe(ctx context.Context, meetingID, path string) (*ai.TranscriptDetail, string, error) {
	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}

	var detail *ai.TranscriptDetail
	err := retry.Do(ctx, func() error {
		var trErr error
		detail, trErr = s.transcriber.TranscribeFile(ctx, path)
		return trErr
	})
	if err != nil {
		if errors.Is(err, ai.ErrNoSpeech) {
			return nil, "", entities.ErrEmptyTranscript
		}
		return nil, "", apperrors.ErrTranscriptionFailed(err)
	}

	artifactPath := s.storeArtifact(ctx, meetingID, detail)
	return detail, artifactPath, nil
}

// storeArtifact uploads the detailed transcript (utterances, sentiment,
// entities) as a JSON artifact. Failures are logged and swallowed.
func (s *Service) storeArtifact(ctx context.Context, meetingID string, detail *ai.TranscriptDetail) string {
	if s.artifacts == nil {
		return ""
	}

	content, err := json.Marshal(detail)
	if err != nil {
		s.logger.Warn("failed to encode transcript artifact",
			zap.String("meeting_id", meetingID), zap.Error(err))
		return ""
	}

	objectName := "transcripts/" + meetingID + ".json"
	path, err := s.artifacts.UploadJSON(ctx, objectName, content)
	if err != nil {
		s.logger.Warn("failed to store transcript artifact",
			zap.String("meeting_id", meetingID), zap.Error(err))
		return ""
	}

	s.logger.Info("stored transcript artifact",
		zap.String("meeting_id", meetingID), zap.String("path", path))
	return path
}
