package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// statement records one dispatched statement for assertions.
type statement struct {
	sql  string
	args []any
}

// mockDB implements DB with configurable failures and call tracking.
// Safe for concurrent use; the async writer path exercises it from multiple
// goroutines.
type mockDB struct {
	mu sync.Mutex

	execErr  error
	queryErr error
	rows     *fakeRows

	execCalls  []statement
	queryCalls []statement
}

func (m *mockDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execCalls = append(m.execCalls, statement{sql: sql, args: args})
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls = append(m.queryCalls, statement{sql: sql, args: args})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.rows == nil {
		return &fakeRows{}, nil
	}
	return m.rows, nil
}

func (m *mockDB) setExecErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execErr = err
}

func (m *mockDB) execCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.execCalls)
}

func (m *mockDB) execCall(i int) statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.execCalls[i]
}

func (m *mockDB) lastQuery() statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCalls[len(m.queryCalls)-1]
}

// fakeRows implements pgx.Rows over an in-memory result set.
type fakeRows struct {
	rows    [][]any
	idx     int
	err     error
	scanErr error
	closed  bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx < len(r.rows) {
		r.idx++
		return true
	}
	return false
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan target count %d does not match row width %d", len(dest), len(row))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = row[i].(string)
		case *int:
			*d = row[i].(int)
		case *int64:
			*d = row[i].(int64)
		case *float64:
			*d = row[i].(float64)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}
