// Package store is the persistence and query layer for assistant
// conversation state: cached thread titles, message embeddings, and the
// thread listing that joins live message data with the cached metadata.
//
// The layer is a thin contract over PostgreSQL with the pgvector extension.
// It owns its two tables (thread_metadata, message_embeddings) but not the
// host message table they reference; referential integrity is delegated to
// the engine's foreign-key cascades, and concurrency safety to the atomicity
// of ON CONFLICT upserts. No application-level locking is performed.
package store
