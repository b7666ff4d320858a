package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ThreadPageLimit caps the thread listing to a single fixed page. The
// listing deliberately exposes no cursor or offset parameters; widening the
// paging contract is a one-line change here if it is ever revisited.
const ThreadPageLimit = 60

// ThreadSummary is a read-only projection of one conversation thread: the
// root message, its cached title (empty when none), and the count of its
// live direct replies. It is computed per query, never persisted.
type ThreadSummary struct {
	ID         string
	Message    string
	ChannelID  string
	Title      string
	ReplyCount int
	UpdateAt   int64
}

// Threads lists conversation threads in the given channels, newest first.
// Only root messages (empty root_id) that are not deleted qualify; the reply
// count likewise excludes deleted replies. Read-only and safe to retry at a
// higher layer.
func (s *Store) Threads(ctx context.Context, channelIDs []string) ([]ThreadSummary, error) {
	rows, err := s.queryBuilder(ctx, s.builder.
		Select(
			"m.id",
			"m.message",
			"m.channel_id",
			"COALESCE(t.title, '') AS title",
			"(SELECT COUNT(*) FROM messages WHERE messages.root_id = m.id AND messages.delete_at = 0) AS reply_count",
			"m.update_at",
		).
		From("messages AS m").
		LeftJoin("thread_metadata AS t ON t.root_message_id = m.id").
		Where(sq.Eq{"m.channel_id": channelIDs}).
		Where(sq.Eq{"m.root_id": ""}).
		Where(sq.Eq{"m.delete_at": 0}).
		OrderBy("m.create_at DESC").
		Limit(ThreadPageLimit).
		Offset(0))
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []ThreadSummary
	for rows.Next() {
		var t ThreadSummary
		if err := rows.Scan(&t.ID, &t.Message, &t.ChannelID, &t.Title, &t.ReplyCount, &t.UpdateAt); err != nil {
			return nil, fmt.Errorf("failed to scan thread row: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read thread rows: %w", err)
	}
	return threads, nil
}
