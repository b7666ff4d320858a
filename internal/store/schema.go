package store

import (
	"context"
	"fmt"
)

const (
	metadataTable  = "thread_metadata"
	embeddingTable = "message_embeddings"
)

// Setup brings the schema to the required generation. Every statement is
// idempotent (IF NOT EXISTS / IF EXISTS), so repeated startups converge to
// the same state without tracking applied migrations. Any failure here is
// fatal for activation; callers must not continue in a degraded mode.
func (s *Store) Setup(ctx context.Context) error {
	if s.driver != DriverPostgres {
		return fmt.Errorf("%w: configured driver is %q", ErrUnsupportedBackend, s.driver)
	}

	// Vector similarity is a hard dependency, not an optional capability.
	if _, err := s.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("postgres vector extension unavailable: %w", err)
	}

	if _, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS thread_metadata (
			root_message_id TEXT NOT NULL REFERENCES messages(id) ON DELETE CASCADE PRIMARY KEY,
			title TEXT NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("failed to create thread_metadata table: %w", err)
	}

	if _, err := s.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS message_embeddings (
			message_id TEXT NOT NULL REFERENCES messages(id) PRIMARY KEY,
			embedding vector(%d)
		);
	`, s.dims)); err != nil {
		return fmt.Errorf("failed to create message_embeddings table: %w", err)
	}

	// Older installs carried a plain foreign key on ai_threads that blocked
	// message deletion. The drop tolerates both the table and the constraint
	// being gone, so already-migrated and fresh installs pass through.
	if _, err := s.db.Exec(ctx, `ALTER TABLE IF EXISTS ai_threads DROP CONSTRAINT IF EXISTS ai_threads_root_message_id_fkey;`); err != nil {
		return fmt.Errorf("failed to drop legacy ai_threads constraint: %w", err)
	}

	s.logger.Debug("schema provisioned", "embedding_dimensions", s.dims)
	return nil
}
