package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/meetinglens/meetinglens/internal/domain/entities"
	"github.com/meetinglens/meetinglens/internal/domain/repositories"
	"github.com/meetinglens/meetinglens/pkg/config"
)

const (
	chunkKeyPrefix = "chunk:"
	allChunksKey   = "chunks:all"
	meetingSetKey  = "chunks:meeting:"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// RedisVectorStore persists embedded chunks in Redis: one hash per chunk plus
// membership sets per meeting and globally. Similarity search loads the
// candidate set and ranks by cosine similarity; the corpus is one hash read
// per chunk, which holds up fine at meeting-archive scale.
type RedisVectorStore struct {
	client *redis.Client
}

// NewRedisVectorStore creates a vector store backed by the given client.
func NewRedisVectorStore(client *redis.Client) repositories.VectorRepository {
	return &RedisVectorStore{client: client}
}

// AddChunks stores embedded chunks and registers them in the lookup sets.
func (s *RedisVectorStore) AddChunks(ctx context.Context, chunks []*entities.Chunk) error {
	pipe := s.client.TxPipeline()
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no embedding", c.ID)
		}
		vec, err := json.Marshal(c.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
		key := chunkKeyPrefix + c.ID
		pipe.HSet(ctx, key, map[string]interface{}{
			"meeting_id": c.MeetingID,
			"content":    c.Content,
			"idx":        c.Index,
			"timestamp":  c.Timestamp,
			"embedding":  string(vec),
		})
		pipe.SAdd(ctx, allChunksKey, c.ID)
		pipe.SAdd(ctx, meetingSetKey+c.MeetingID, c.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	return nil
}

// Search ranks the candidate chunks by cosine similarity to the query
// embedding and returns the top k.
func (s *RedisVectorStore) Search(ctx context.Context, embedding []float32, k int, meetingID string) ([]entities.ScoredChunk, error) {
	setKey := allChunksKey
	if meetingID != "" {
		setKey = meetingSetKey + meetingID
	}

	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, chunkKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	scored := make([]entities.ScoredChunk, 0, len(ids))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			// Chunk hash expired or missing; skip.
			continue
		}

		var vec []float32
		if err := json.Unmarshal([]byte(fields["embedding"]), &vec); err != nil {
			continue
		}

		idx, _ := strconv.Atoi(fields["idx"])
		scored = append(scored, entities.ScoredChunk{
			Chunk: entities.Chunk{
				ID:        ids[i],
				MeetingID: fields["meeting_id"],
				Content:   fields["content"],
				Index:     idx,
				Timestamp: fields["timestamp"],
				Embedding: vec,
			},
			Score: CosineSimilarity(embedding, vec),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 for mismatched or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
