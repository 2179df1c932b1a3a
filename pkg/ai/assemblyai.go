package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/meetinglens/meetinglens/pkg/config"
)

// ErrNoSpeech is returned when transcription succeeds but produces no text.
var ErrNoSpeech = errors.New("no speech detected in audio")

// AssemblyAIClient wraps the official SDK for local-file transcription.
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &AssemblyAIClient{client: aai.NewClient(apiKey)}
}

// Utterance is one speaker-labelled segment of the transcript.
type Utterance struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// SentimentSpan is a sentiment-tagged span of the transcript.
type SentimentSpan struct {
	Speaker   string `json:"speaker,omitempty"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

// EntityTag is a detected entity mention.
type EntityTag struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TranscriptDetail is the full transcription output, including the
// enrichments persisted as a best-effort artifact.
type TranscriptDetail struct {
	Text       string          `json:"text"`
	Utterances []Utterance     `json:"utterances,omitempty"`
	Sentiments []SentimentSpan `json:"sentiments,omitempty"`
	Entities   []EntityTag     `json:"entities,omitempty"`
	DurationS  int             `json:"duration_seconds,omitempty"`
}

// TranscribeFile uploads a local audio/video file and waits for the
// transcript. Fails with an explicit error when the service reports an error
// status, and with ErrNoSpeech when the transcript text is empty.
func (c *AssemblyAIClient) TranscribeFile(ctx context.Context, path string) (*TranscriptDetail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	uploadURL, err := c.client.Upload(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     aai.Bool(true),
		SentimentAnalysis: aai.Bool(true),
		EntityDetection:   aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	detail := &TranscriptDetail{}
	if transcript.Text != nil {
		detail.Text = *transcript.Text
	}
	if strings.TrimSpace(detail.Text) == "" {
		return nil, ErrNoSpeech
	}
	if transcript.AudioDuration != nil {
		detail.DurationS = int(*transcript.AudioDuration)
	}

	for _, utt := range transcript.Utterances {
		u := Utterance{}
		if utt.Text != nil {
			u.Text = *utt.Text
		}
		if utt.Speaker != nil {
			u.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			u.Start = float64(*utt.Start) / 1000.0 // ms to seconds
		}
		if utt.End != nil {
			u.End = float64(*utt.End) / 1000.0
		}
		detail.Utterances = append(detail.Utterances, u)
	}

	for _, sr := range transcript.SentimentAnalysisResults {
		span := SentimentSpan{Sentiment: string(sr.Sentiment)}
		if sr.Text != nil {
			span.Text = *sr.Text
		}
		if sr.Speaker != nil {
			span.Speaker = *sr.Speaker
		}
		detail.Sentiments = append(detail.Sentiments, span)
	}

	for _, en := range transcript.Entities {
		tag := EntityTag{Type: string(en.EntityType)}
		if en.Text != nil {
			tag.Text = *en.Text
		}
		detail.Entities = append(detail.Entities, tag)
	}

	return detail, nil
}

// Speakers returns the distinct speaker labels in utterance order.
func (d *TranscriptDetail) Speakers() []string {
	seen := make(map[string]bool)
	var speakers []string
	for _, utt := range d.Utterances {
		if utt.Speaker == "" || seen[utt.Speaker] {
			continue
		}
		seen[utt.Speaker] = true
		speakers = append(speakers, "Speaker "+utt.Speaker)
	}
	return speakers
}

// FormatWithSpeakers renders the transcript as speaker-segmented lines,
// falling back to the plain text when no utterances are available.
func (d *TranscriptDetail) FormatWithSpeakers() string {
	if len(d.Utterances) == 0 {
		return d.Text
	}
	var sb strings.Builder
	for _, utt := range d.Utterances {
		minutes := int(utt.Start) / 60
		seconds := int(utt.Start) % 60
		sb.WriteString(fmt.Sprintf("[%02d:%02d Speaker %s]: %s\n", minutes, seconds, utt.Speaker, utt.Text))
	}
	return sb.String()
}
