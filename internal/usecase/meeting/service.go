package meeting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/meetinglens/meetinglens/errors"
	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/domain/repositories"
	"github.com/meetinglens/meetinglens/internal/usecase/analysis"
	"github.com/meetinglens/meetinglens/pkg/ai"
)

const indexTimeout = 2 * time.Minute

// Analyzer extracts structured results from a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (*analysis.Result, error)
}

// TranscriptSource converts a staged media file into a transcript plus an
// optional artifact path.
type TranscriptSource interface {
	Transcribe(ctx context.Context, meetingID, path string) (*ai.TranscriptDetail, string, error)
}

// Indexer makes meeting content retrievable for questions.
type Indexer interface {
	Index(ctx context.Context, meetingID, content, timestamp string) error
}

// Service runs the meeting pipeline: stage, transcribe, analyze, persist,
// index. Each request walks the stages in order and fails fast at the first
// stage that cannot complete.
type Service struct {
	transcripts TranscriptSource
	analyzer    Analyzer
	meetings    repositories.MeetingRepository
	indexer     Indexer
	tempDir     string
	logger      *zap.Logger
}

// NewService creates the pipeline service. indexer may be nil, which
// disables retrieval indexing.
func NewService(transcripts TranscriptSource, analyzer Analyzer, meetings repositories.MeetingRepository, indexer Indexer, tempDir string, logger *zap.Logger) *Service {
	if tempDir == "" {
		tempDir = "temp"
	}
	return &Service{
		transcripts: transcripts,
		analyzer:    analyzer,
		meetings:    meetings,
		indexer:     indexer,
		tempDir:     tempDir,
		logger:      logger,
	}
}

// AnalyzeTranscript runs analysis on already-transcribed text, persists the
// record and schedules retrieval indexing.
func (s *Service) AnalyzeTranscript(ctx context.Context, transcript string) (*entities.MeetingAnalysis, error) {
	result, err := s.analyzer.Analyze(ctx, transcript)
	if err != nil {
		return nil, mapAnalysisError(err)
	}

	record := buildRecord(result, transcript, "")
	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}

	s.scheduleIndexing(record, transcript)
	return record, nil
}

// TranscribeAndAnalyze stages the upload, transcribes it, analyzes the
// transcript, persists the record and schedules retrieval indexing. The
// staged file is removed on every path out of this function.
func (s *Service) TranscribeAndAnalyze(ctx context.Context, src io.Reader, filename, contentType string) (*entities.MeetingAnalysis, error) {
	if !isSupportedMediaType(contentType) {
		return nil, apperrors.ErrUnsupportedMediaType(contentType)
	}

	record := entities.NewMeetingAnalysis()
	log := s.logger.With(zap.String("meeting_id", record.MeetingID))

	stagedPath, err := s.stageUpload(src, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(stagedPath); rmErr != nil {
			log.Warn("failed to remove staged file", zap.String("path", stagedPath), zap.Error(rmErr))
		}
	}()
	log.Info("staged upload", zap.String("stage", "staged"), zap.String("filename", filename))

	detail, artifactPath, err := s.transcripts.Transcribe(ctx, record.MeetingID, stagedPath)
	if err != nil {
		return nil, err
	}
	log.Info("transcription complete", zap.String("stage", "transcribed"),
		zap.Int("transcript_chars", len(detail.Text)))

	// Speaker-labelled text gives the model attribution it cannot infer
	// from the plain transcript.
	result, err := s.analyzer.Analyze(ctx, detail.FormatWithSpeakers())
	if err != nil {
		return nil, mapAnalysisError(err)
	}
	log.Info("analysis complete", zap.String("stage", "analyzed"),
		zap.Int("action_items", len(result.ActionItems)),
		zap.Int("key_decisions", len(result.KeyDecisions)))

	fillRecord(record, result, detail.Text, artifactPath)
	if len(record.SpeakersDetected) == 0 {
		// Speaker labels from diarization are more reliable than what the
		// model infers from plain text.
		record.SpeakersDetected = detail.Speakers()
	}

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	log.Info("record persisted", zap.String("stage", "persisted"))

	s.scheduleIndexing(record, detail.Text)
	return record, nil
}

// mapAnalysisError keeps the empty-transcript condition distinguishable so
// callers can report it as a client error; everything else is an analysis
// failure.
func mapAnalysisError(err error) error {
	if errors.Is(err, entities.ErrEmptyTranscript) {
		return err
	}
	return apperrors.ErrAnalysisFailed(err)
}

func (s *Service) persist(ctx context.Context, record *entities.MeetingAnalysis) error {
	if err := s.meetings.Create(ctx, record); err != nil {
		return apperrors.ErrAnalysisNotPersisted(record.MeetingID, err)
	}
	return nil
}

// scheduleIndexing runs retrieval indexing in the background. A completed
// analysis is never failed because the index could not be updated.
func (s *Service) scheduleIndexing(record *entities.MeetingAnalysis, transcript string) {
	if s.indexer == nil {
		return
	}

	content := record.IndexText(transcript)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()

		if err := s.indexer.Index(ctx, record.MeetingID, content, record.Timestamp); err != nil {
			s.logger.Warn("background indexing failed",
				zap.String("meeting_id", record.MeetingID), zap.Error(err))
			return
		}
		s.logger.Info("meeting indexed for retrieval", zap.String("meeting_id", record.MeetingID))
	}()
}

// stageUpload writes the upload into the temp directory under a unique name
// so concurrent uploads with identical filenames cannot collide.
func (s *Service) stageUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	name := uuid.New().String() + "_" + filepath.Base(filename)
	path := filepath.Join(s.tempDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write staged file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to finalize staged file: %w", err)
	}

	return path, nil
}

func isSupportedMediaType(contentType string) bool {
	return strings.HasPrefix(contentType, "audio/") || strings.HasPrefix(contentType, "video/")
}

func buildRecord(result *analysis.Result, transcript, artifactPath string) *entities.MeetingAnalysis {
	record := entities.NewMeetingAnalysis()
	fillRecord(record, result, transcript, artifactPath)
	return record
}

func fillRecord(record *entities.MeetingAnalysis, result *analysis.Result, transcript, artifactPath string) {
	record.Summary = result.Summary
	record.ActionItems = result.ActionItems
	record.KeyDecisions = result.KeyDecisions
	record.RawTranscriptPreview = entities.TranscriptPreview(transcript)
	record.FullTranscriptPath = artifactPath
	record.SpeakersDetected = result.SpeakersDetected
	record.ToneOverview = result.ToneOverview
	record.ImportantTopics = result.ImportantTopics
}
