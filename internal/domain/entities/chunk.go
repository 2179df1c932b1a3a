package entities

import "github.com/google/uuid"

// Chunk is a bounded-length slice of meeting text, the unit of embedding and
// retrieval. The chunk index is derived from the record store content and is
// never a source of truth.
type Chunk struct {
	ID        string    `json:"id"`
	MeetingID string    `json:"meeting_id"`
	Content   string    `json:"content"`
	Index     int       `json:"index"` // position within the meeting's text
	Timestamp string    `json:"timestamp,omitempty"`
	Embedding []float32 `json:"-"`
}

// NewChunk creates a chunk with a fresh id.
func NewChunk(meetingID, content string, index int, timestamp string) *Chunk {
	return &Chunk{
		ID:        uuid.New().String(),
		MeetingID: meetingID,
		Content:   content,
		Index:     index,
		Timestamp: timestamp,
	}
}

// ScoredChunk is a retrieval hit with its similarity score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}
