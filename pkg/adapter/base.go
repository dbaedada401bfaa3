package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Get, All and Exec implementations that rewrite statements through
// the adapter's dialect.
type BaseSQLAdapter struct {
	DB      *sql.DB
	Cfg     core.AdapterConfig
	Logger  *slog.Logger
	Grammar *dialect.Dialect
}

// Dialect returns the dialect statements are rewritten with.
func (b *BaseSQLAdapter) Dialect() *dialect.Dialect {
	return b.Grammar
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Get returns the first row matching the query, or nil when there is none.
func (b *BaseSQLAdapter) Get(ctx context.Context, query string, args ...any) (core.Row, error) {
	rows, err := b.query(ctx, query, 1, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// All returns every row matching the query.
func (b *BaseSQLAdapter) All(ctx context.Context, query string, args ...any) ([]core.Row, error) {
	return b.query(ctx, query, 0, args...)
}

// Exec executes schema statements after dialect schema rewriting.
func (b *BaseSQLAdapter) Exec(ctx context.Context, ddl string) error {
	if !b.IsConnected() {
		return fmt.Errorf("database connection not established")
	}
	if _, err := b.DB.ExecContext(ctx, b.Grammar.RewriteSchema(ddl)); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// ExecResult runs a statement that returns no rows and reports rows affected.
// The generated id is left to the concrete adapter.
func (b *BaseSQLAdapter) ExecResult(ctx context.Context, query string, args ...any) (sql.Result, int64, error) {
	if !b.IsConnected() {
		return nil, 0, fmt.Errorf("database connection not established")
	}
	res, err := b.DB.ExecContext(ctx, b.Grammar.Rewrite(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return res, affected, nil
}

// query runs a statement and scans at most limit rows (0 means all).
func (b *BaseSQLAdapter) query(ctx context.Context, query string, limit int, args ...any) ([]core.Row, error) {
	if !b.IsConnected() {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := b.DB.QueryContext(ctx, b.Grammar.Rewrite(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return ScanRows(rows, limit)
}

// ScanRows collects rows into column-keyed maps, stopping after limit rows
// when limit > 0. []byte values are converted to string.
func ScanRows(rows *sql.Rows, limit int) ([]core.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := make([]core.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(core.Row, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		results = append(results, row)

		if limit > 0 && len(results) >= limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}

// ApplyPool passes pool settings from the config through to database/sql.
// Zero values keep the driver defaults.
func ApplyPool(db *sql.DB, cfg core.AdapterConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
