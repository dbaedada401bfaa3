// Package postgres provides a PostgreSQL database adapter for kpidash.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"
)

// SQLSTATE codes the adapter classifies.
const (
	codeUniqueViolation = "23505"
	codeDuplicateColumn = "42701"
	codeDuplicateTable  = "42P07"
	codeDuplicateObject = "42710"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:  logger,
			Grammar: dialect.MustGet(core.TypePostgres),
		},
	}
}

// Connect establishes a connection to PostgreSQL and waits for one answer.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	if cfg.URL == "" {
		return fmt.Errorf("postgres connection URL is empty")
	}

	a.Logger.Debug("connecting to postgres", slog.String("url", redact(cfg.URL)))

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	adapter.ApplyPool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// redact hides the password of a connection URL for logging.
func redact(raw string) string {
	cfg, err := pgconn.ParseConfig(raw)
	if err != nil {
		return "<unparseable>"
	}
	return fmt.Sprintf("postgres://%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
}

// Run executes a mutating statement. Inserts are sent with a RETURNING
// clause so the generated id can be read back; other statements report
// rows affected only.
func (a *Adapter) Run(ctx context.Context, query string, args ...any) (adapter.Result, error) {
	if !dialect.IsInsert(query) {
		_, affected, err := a.ExecResult(ctx, query, args...)
		if err != nil {
			return adapter.Result{}, err
		}
		return adapter.Result{RowsAffected: affected}, nil
	}

	if !a.IsConnected() {
		return adapter.Result{}, fmt.Errorf("database connection not established")
	}

	stmt := a.Grammar.WithReturning(a.Grammar.Rewrite(query))
	rows, err := a.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return adapter.Result{}, fmt.Errorf("failed to execute statement: %w", err)
	}
	defer func() { _ = rows.Close() }()

	returned, err := adapter.ScanRows(rows, 0)
	if err != nil {
		return adapter.Result{}, err
	}

	out := adapter.Result{RowsAffected: int64(len(returned))}
	if len(returned) > 0 {
		id, ok := toInt64(returned[0][a.Grammar.ReturningColumn])
		out.LastInsertID = sql.NullInt64{Int64: id, Valid: ok}
	}
	return out, nil
}

// toInt64 converts a returned id column to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// IsSchemaConflict reports duplicate column, table and object errors.
func (a *Adapter) IsSchemaConflict(err error) bool {
	switch sqlState(err) {
	case codeDuplicateColumn, codeDuplicateTable, codeDuplicateObject:
		return true
	}
	return false
}

// IsUniqueViolation reports unique constraint failures.
func (a *Adapter) IsUniqueViolation(err error) bool {
	return sqlState(err) == codeUniqueViolation
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
