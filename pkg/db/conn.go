package db

// Rows :
// Narrow cursor abstraction satisfied by both the pgx driver's
// `*pgx.Rows` and the small `sql.Rows` adapter used by the sqlite
// backend. Proxies in `internal/data` depend on this interface only,
// never on a concrete driver type, so the same proxy code runs against
// either backend.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close()
	Err() error
}

// Conn :
// Describes the minimal set of operations a storage backend must
// support to back the `internal/data` proxies. Both `*DB` (Postgres,
// via pgx) and `*SqlitePool` implement this interface, which is the
// concrete realization of the `Store` capability described for the
// persistence layer: proxies are written once against `Conn` and work
// unmodified against either driver.
type Conn interface {
	// DBExecute runs a statement that does not return rows (insert,
	// update, delete, ddl) and reports how many rows were affected.
	DBExecute(query string, args ...interface{}) (int64, error)

	// DBQuery runs a statement that returns rows.
	DBQuery(query string, args ...interface{}) (Rows, error)
}
