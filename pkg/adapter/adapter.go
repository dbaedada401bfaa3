// Package adapter provides the backend contract behind the data access facade.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves by name. Each adapter owns one *sql.DB and knows how to rewrite
// canonical statements for its backend; callers never branch on which one
// is active.
package adapter

import (
	"context"

	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"
)

// Type aliases so callers can stay within this package.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Row is an alias for core.Row.
	Row = core.Row

	// Result is an alias for core.Result.
	Result = core.Result
)

// Adapter defines the interface that all database backends must implement.
// Statements are always passed in the canonical dialect.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	// It must not return until the backend has answered once.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Get returns the first matching row, or nil when nothing matches.
	Get(ctx context.Context, query string, args ...any) (Row, error)

	// All returns every matching row in backend order.
	All(ctx context.Context, query string, args ...any) ([]Row, error)

	// Run executes a mutating statement. Inserts report the generated id.
	Run(ctx context.Context, query string, args ...any) (Result, error)

	// Exec executes schema or seed statements without returning rows.
	Exec(ctx context.Context, ddl string) error

	// IsSchemaConflict reports whether err means "already exists" or
	// "duplicate column" for this backend.
	IsSchemaConflict(err error) bool

	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool

	// Dialect returns the SQL dialect used to rewrite canonical statements.
	Dialect() *dialect.Dialect
}
