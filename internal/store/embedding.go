package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/conversant/threadstore/internal/vector"
)

// SaveEmbedding upserts the embedding vector for a message. The vector is
// sent as its textual literal; length is not validated here, a mismatch with
// the provisioned column is rejected by the engine and surfaces as an
// execution error.
func (s *Store) SaveEmbedding(ctx context.Context, messageID string, embedding []float32) error {
	_, err := s.execBuilder(ctx, s.builder.
		Insert(embeddingTable).
		SetMap(map[string]interface{}{
			"message_id": messageID,
			"embedding":  vector.Encode(embedding),
		}).
		Suffix("ON CONFLICT (message_id) DO UPDATE SET embedding = EXCLUDED.embedding"))
	if err != nil {
		return fmt.Errorf("failed to save embedding for message %s: %w", messageID, err)
	}
	return nil
}

// Embedding reads back the stored vector for a message, decoded through the
// same codec that wrote it. Returns ErrEmbeddingNotFound when no row exists.
func (s *Store) Embedding(ctx context.Context, messageID string) ([]float32, error) {
	rows, err := s.queryBuilder(ctx, s.builder.
		Select("embedding::text").
		From(embeddingTable).
		Where(sq.Eq{"message_id": messageID}))
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding for message %s: %w", messageID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read embedding for message %s: %w", messageID, err)
		}
		return nil, fmt.Errorf("%w: message %s", ErrEmbeddingNotFound, messageID)
	}

	var literal string
	if err := rows.Scan(&literal); err != nil {
		return nil, fmt.Errorf("failed to scan embedding for message %s: %w", messageID, err)
	}
	return vector.Decode(literal)
}

// Neighbor is one hit from a nearest-neighbour search.
type Neighbor struct {
	MessageID string
	Distance  float64
}

// NearestMessages returns up to limit messages ordered by cosine distance to
// the query vector, closest first.
func (s *Store) NearestMessages(ctx context.Context, embedding []float32, limit int) ([]Neighbor, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.queryBuilder(ctx, s.builder.
		Select("message_id").
		Column(sq.Expr("embedding <=> ?::vector AS distance", vector.Encode(embedding))).
		From(embeddingTable).
		OrderBy("distance").
		Limit(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to search embeddings: %w", err)
	}
	defer rows.Close()

	neighbors := make([]Neighbor, 0, limit)
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.MessageID, &n.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor row: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read neighbor rows: %w", err)
	}
	return neighbors, nil
}
