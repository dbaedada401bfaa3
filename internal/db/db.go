// Package db is the single entry point application code uses to talk to the
// database. A DB wraps exactly one adapter, chosen once from configuration,
// and exposes the same four operations whichever backend is active.
// Statements are always written in the canonical (SQLite) dialect.
package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"

	// Register the built-in backends.
	_ "github.com/shopfloor/kpidash/pkg/adapters/postgres"
	_ "github.com/shopfloor/kpidash/pkg/adapters/sqlite"
)

// DB is the unified data access facade. It is safe for concurrent use;
// pooling is left to database/sql.
type DB struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

// Open selects the backend from cfg, connects and verifies it.
// Failures are returned as *ConnectionError.
func Open(ctx context.Context, cfg core.AdapterConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	name := adapter.SelectType(cfg)
	a, err := adapter.NewAdapter(cfg, logger.With("dialect", name))
	if err != nil {
		return nil, &ConnectionError{Dialect: name, Err: err}
	}

	start := time.Now()
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, &ConnectionError{Dialect: name, Err: err}
	}

	logger.Info("database connected",
		slog.String("dialect", name),
		slog.Duration("elapsed", time.Since(start)))

	return New(a, logger), nil
}

// New wraps an already connected adapter.
func New(a adapter.Adapter, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DB{adapter: a, logger: logger}
}

// Get returns the first row matching query, or nil when none matches.
func (d *DB) Get(ctx context.Context, query string, args ...any) (core.Row, error) {
	row, err := d.adapter.Get(ctx, query, args...)
	if err != nil {
		return nil, d.statementError(query, err)
	}
	return row, nil
}

// All returns every row matching query. An empty result is not an error.
func (d *DB) All(ctx context.Context, query string, args ...any) ([]core.Row, error) {
	rows, err := d.adapter.All(ctx, query, args...)
	if err != nil {
		return nil, d.statementError(query, err)
	}
	return rows, nil
}

// Run executes a mutating statement. For inserts that created a row the
// result carries the generated id.
func (d *DB) Run(ctx context.Context, query string, args ...any) (core.Result, error) {
	res, err := d.adapter.Run(ctx, query, args...)
	if err != nil {
		return core.Result{}, d.statementError(query, err)
	}
	return res, nil
}

// Exec executes schema or seed DDL. A script holding several statements is
// split at semicolons and each statement runs on its own, in order. A
// duplicate column or existing object is ignored when the statement is an
// ALTER TABLE ... ADD, CREATE TABLE or CREATE INDEX; any other failure stops
// the script and is returned.
func (d *DB) Exec(ctx context.Context, ddl string) error {
	for _, stmt := range dialect.SplitStatements(ddl) {
		if err := d.execOne(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) execOne(ctx context.Context, stmt string) error {
	err := d.adapter.Exec(ctx, stmt)
	if err == nil {
		return nil
	}
	if idempotentForm(stmt) && d.adapter.IsSchemaConflict(err) {
		d.logger.Info("schema object already present",
			slog.String("statement", summarize(stmt)),
			slog.String("reason", err.Error()))
		return nil
	}
	return d.statementError(stmt, err)
}

// Close releases the connection pool.
func (d *DB) Close() error {
	return d.adapter.Close()
}

// Dialect returns the active dialect name ("sqlite" or "postgres").
func (d *DB) Dialect() string {
	return d.adapter.Dialect().Name
}

// IsUniqueViolation reports whether err came from a unique constraint.
func (d *DB) IsUniqueViolation(err error) bool {
	return d.adapter.IsUniqueViolation(err)
}

func (d *DB) statementError(query string, err error) error {
	d.logger.Debug("statement failed",
		slog.String("statement", summarize(query)),
		slog.String("error", err.Error()))
	return &StatementError{Dialect: d.Dialect(), Query: query, Err: err}
}
