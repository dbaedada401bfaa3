package core

import (
	"database/sql"
	"time"
)

// Adapter type names. The embedded engine is the canonical authoring dialect.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	// Type selects the backend. Empty means "derive from URL".
	Type string

	// URL is the networked connection string. Its presence selects PostgreSQL.
	URL string

	// Path is the embedded database file, used when URL is empty.
	Path string

	// Pool settings are passed through to database/sql untouched.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	Options map[string]string
}

// Row is a single result row keyed by column name.
// []byte values are converted to string before they reach callers.
type Row map[string]any

// Result is returned by mutating statements.
type Result struct {
	// RowsAffected is the number of rows the statement changed.
	RowsAffected int64

	// LastInsertID is valid only for INSERT statements that created a row.
	LastInsertID sql.NullInt64
}
