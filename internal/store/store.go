package store

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/conversant/threadstore/internal/sqlbuilder"
)

// DriverPostgres is the only driver identity this layer supports.
const DriverPostgres = "postgres"

// DefaultEmbeddingDimensions is the vector length provisioned when none is
// configured. Changing the length after provisioning requires a new schema
// generation; this layer does not migrate existing vectors.
const DefaultEmbeddingDimensions = 768

const (
	defaultWriterWorkers   = 2
	defaultWriterQueueSize = 256
)

// DB is the slice of the shared connection pool this layer depends on.
// *pgxpool.Pool satisfies it; tests substitute a mock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Config carries the store's provisioning parameters.
type Config struct {
	// Driver is the driver identity of the shared connection. Anything but
	// DriverPostgres fails fast at Setup. Default: DriverPostgres.
	Driver string

	// EmbeddingDimensions is the fixed vector length of the embedding
	// column. Default: DefaultEmbeddingDimensions.
	EmbeddingDimensions int

	// WriterWorkers is the number of goroutines serving fire-and-forget
	// saves. Default: 2.
	WriterWorkers int

	// WriterQueueSize bounds the fire-and-forget queue. A full queue blocks
	// the producer rather than spawning unbounded goroutines.
	// Default: 256.
	WriterQueueSize int
}

func (c *Config) applyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverPostgres
	}
	if c.EmbeddingDimensions <= 0 {
		c.EmbeddingDimensions = DefaultEmbeddingDimensions
	}
	if c.WriterWorkers <= 0 {
		c.WriterWorkers = defaultWriterWorkers
	}
	if c.WriterQueueSize <= 0 {
		c.WriterQueueSize = defaultWriterQueueSize
	}
}

// Store persists and queries assistant conversation state.
//
// Store is safe for concurrent use by multiple goroutines; every statement is
// independently atomic at the engine and no cross-statement coordination is
// needed.
type Store struct {
	db      DB
	builder sq.StatementBuilderType
	style   sqlbuilder.Style
	driver  string
	dims    int
	writer  *writer
	logger  *slog.Logger
}

// New creates a Store over the shared connection pool. The pool is injected,
// never owned: Close stops the background writer but leaves the pool to the
// caller.
func New(db DB, cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()

	return &Store{
		db:      db,
		builder: sqlbuilder.New(),
		style:   sqlbuilder.Dollar,
		driver:  cfg.Driver,
		dims:    cfg.EmbeddingDimensions,
		writer:  newWriter(cfg.WriterWorkers, cfg.WriterQueueSize),
		logger:  logger,
	}
}

// Close stops the background writer after draining already-accepted saves.
// Safe to call more than once.
func (s *Store) Close() {
	s.writer.close()
}

// execBuilder renders a statement and executes it against the pool.
func (s *Store) execBuilder(ctx context.Context, stmt sqlbuilder.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := sqlbuilder.Build(stmt, s.style)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return s.db.Exec(ctx, query, args...)
}

// queryBuilder renders a statement and dispatches it as a row query.
// The caller owns the returned rows and must Close them.
func (s *Store) queryBuilder(ctx context.Context, stmt sqlbuilder.Sqlizer) (pgx.Rows, error) {
	query, args, err := sqlbuilder.Build(stmt, s.style)
	if err != nil {
		return nil, err
	}
	return s.db.Query(ctx, query, args...)
}
