package store

import "errors"

// Sentinel errors for store operations. Callers check them with errors.Is.
var (
	// ErrUnsupportedBackend indicates the configured database is not
	// Postgres. This is a deployment misconfiguration; activation must
	// abort, not retry.
	ErrUnsupportedBackend = errors.New("unsupported database backend, postgres is required")

	// ErrEmbeddingNotFound indicates no embedding row exists for the
	// requested message.
	ErrEmbeddingNotFound = errors.New("embedding not found")

	// ErrStoreClosed indicates the store's background writer has been shut
	// down and no further asynchronous saves are accepted.
	ErrStoreClosed = errors.New("store closed")
)
