package db

import (
	"database/sql"
	"fmt"
	"warbots/pkg/logger"

	_ "modernc.org/sqlite"
)

// SqlitePool :
// Describes a pure-Go, cgo-free storage backend built on top of
// `database/sql` and the `modernc.org/sqlite` driver. It satisfies the
// same `Conn` capability as the Postgres-backed `DB` object so that
// the `internal/data` proxies can run unmodified against either a
// production Postgres deployment or a single-file/in-memory sqlite
// database (selected by `cmd/warbotsd` for single-process
// deployments).
//
// The `handle` holds the underlying `database/sql` pool.
//
// The `logger` allows to notify connection events.
//
// The `dsn` records the data source name this pool was opened with,
// mostly useful for diagnostics.
type SqlitePool struct {
	handle *sql.DB
	logger logger.Logger
	dsn    string
}

// NewSqlitePool :
// Opens a sqlite-backed pool for the given data source name. Passing
// `:memory:` yields a private, per-process database well suited to
// tests; a file path yields a durable single-process store.
//
// The `dsn` is forwarded as-is to the `sqlite` driver.
//
// The `log` is the logging device to use to report connection issues.
//
// Returns the opened pool or an error if the driver failed to open it.
func NewSqlitePool(dsn string, log logger.Logger) (*SqlitePool, error) {
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open sqlite database \"%s\" (err: %v)", dsn, err)
	}

	// sqlite only tolerates a single writer at a time: cap the pool
	// so concurrent callers queue on the driver rather than hit
	// "database is locked" errors under write contention.
	handle.SetMaxOpenConns(1)

	if err := handle.Ping(); err != nil {
		return nil, fmt.Errorf("Failed to reach sqlite database \"%s\" (err: %v)", dsn, err)
	}

	log.Trace(logger.Info, "db", fmt.Sprintf("Opened sqlite store \"%s\"", dsn))

	return &SqlitePool{
		handle: handle,
		logger: log,
		dsn:    dsn,
	}, nil
}

// DBExecute :
// Implementation of the `Conn` interface for the sqlite backend.
func (pool *SqlitePool) DBExecute(query string, args ...interface{}) (int64, error) {
	res, err := pool.handle.Exec(query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// DBQuery :
// Implementation of the `Conn` interface for the sqlite backend.
func (pool *SqlitePool) DBQuery(query string, args ...interface{}) (Rows, error) {
	rows, err := pool.handle.Query(query, args...)
	if err != nil {
		return nil, err
	}

	return &sqlRows{rows}, nil
}

// Close releases the underlying connection pool.
func (pool *SqlitePool) Close() error {
	return pool.handle.Close()
}

// sqlRows adapts `*sql.Rows` to the `Rows` interface: the main
// discrepancy is that `sql.Rows.Close` returns an error while pgx's
// equivalent does not, so the error here is swallowed after being
// surfaced through `Err` on the next call.
type sqlRows struct {
	inner *sql.Rows
}

func (r *sqlRows) Next() bool {
	return r.inner.Next()
}

func (r *sqlRows) Scan(dest ...interface{}) error {
	return r.inner.Scan(dest...)
}

func (r *sqlRows) Close() {
	r.inner.Close()
}

func (r *sqlRows) Err() error {
	return r.inner.Err()
}
