package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// SaveTitle upserts the cached display title for a conversation root.
// The upsert is atomic at the engine, so concurrent writers for the same
// root resolve to last-write-wins with exactly one row.
func (s *Store) SaveTitle(ctx context.Context, rootID, title string) error {
	_, err := s.execBuilder(ctx, s.builder.
		Insert(metadataTable).
		Columns("root_message_id", "title").
		Values(rootID, title).
		Suffix("ON CONFLICT (root_message_id) DO UPDATE SET title = EXCLUDED.title"))
	if err != nil {
		return fmt.Errorf("failed to save title for root %s: %w", rootID, err)
	}
	return nil
}

// SaveTitleAsync schedules the title save on the background writer and
// returns immediately. Title generation is a side effect of a foreground
// conversational flow; that flow must not block on persistence latency, so
// failures on this path are logged and never propagated.
func (s *Store) SaveTitleAsync(rootID, title string) {
	ok := s.writer.submit(func(ctx context.Context) {
		if err := s.SaveTitle(ctx, rootID, title); err != nil {
			s.logger.Error("failed to save title", "root_id", rootID, "error", err)
		}
	})
	if !ok {
		s.logger.Warn("dropping title save", "root_id", rootID, "error", ErrStoreClosed)
	}
}

// Title returns the cached title for a conversation root, or the empty
// string when no title has been cached.
func (s *Store) Title(ctx context.Context, rootID string) (string, error) {
	rows, err := s.queryBuilder(ctx, s.builder.
		Select("title").
		From(metadataTable).
		Where(sq.Eq{"root_message_id": rootID}))
	if err != nil {
		return "", fmt.Errorf("failed to get title for root %s: %w", rootID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("failed to read title for root %s: %w", rootID, err)
		}
		return "", nil
	}

	var title string
	if err := rows.Scan(&title); err != nil {
		return "", fmt.Errorf("failed to scan title for root %s: %w", rootID, err)
	}
	return title, nil
}
