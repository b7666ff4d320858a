// Package testutil provides shared testing utilities for threadstore,
// following the pattern of standard library packages like net/http/httptest.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// fixtureSchema is the host-owned message table this layer references but
// does not own. In production it belongs to the host platform; tests have to
// provide it before the store's own tables can reference it.
const fixtureSchema = `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		message TEXT NOT NULL DEFAULT '',
		channel_id TEXT NOT NULL,
		root_id TEXT NOT NULL DEFAULT '',
		create_at BIGINT NOT NULL,
		update_at BIGINT NOT NULL,
		delete_at BIGINT NOT NULL DEFAULT 0
	);
`

// TestDBContainer wraps a PostgreSQL test container with a connection pool.
type TestDBContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates an isolated PostgreSQL instance with the pgvector
// extension available and the host message fixture table in place. The
// returned cleanup function terminates the container and must be called.
func SetupTestDB(t *testing.T) (*TestDBContainer, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("threadstore_test"),
		postgres.WithUsername("threadstore_test"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to ping database: %v", err)
	}

	if _, err := pool.Exec(ctx, fixtureSchema); err != nil {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
		t.Fatalf("Failed to create message fixture table: %v", err)
	}

	container := &TestDBContainer{
		Container: pgContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(context.Background())
	}

	return container, cleanup
}

// Message is a row for the host message fixture table.
type Message struct {
	ID        string
	Body      string
	ChannelID string
	RootID    string
	CreateAt  int64
	UpdateAt  int64
	DeleteAt  int64
}

// SeedMessage inserts a message fixture row and returns its ID. A missing ID
// gets a fresh UUID; a missing UpdateAt mirrors CreateAt.
func SeedMessage(t *testing.T, pool *pgxpool.Pool, m Message) string {
	t.Helper()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.UpdateAt == 0 {
		m.UpdateAt = m.CreateAt
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO messages (id, message, channel_id, root_id, create_at, update_at, delete_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Body, m.ChannelID, m.RootID, m.CreateAt, m.UpdateAt, m.DeleteAt)
	if err != nil {
		t.Fatalf("Failed to seed message %s: %v", m.ID, err)
	}

	return m.ID
}
