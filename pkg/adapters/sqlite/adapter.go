// Package sqlite provides the embedded SQLite database adapter for kpidash.
//
// SQLite is the canonical dialect: statements are passed to the driver
// as written.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"
)

// DefaultPath is used when the config carries neither a URL nor a path.
const DefaultPath = "data/kpidash.db"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// defaultPragmas are applied to every pooled connection.
var defaultPragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:  logger,
			Grammar: dialect.MustGet(core.TypeSQLite),
		},
	}
}

// Connect opens the database file, creating its directory when needed.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", buildDSN(path, cfg.Options))
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		adapter.ApplyPool(db, cfg)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildDSN constructs a modernc file URI with connection pragmas.
// Options prefixed with "pragma_" add or override pragmas.
func buildDSN(path string, options map[string]string) string {
	pragmas := make(map[string]string, len(defaultPragmas))
	order := make([]string, 0, len(defaultPragmas))
	for _, p := range defaultPragmas {
		name := p[:strings.IndexByte(p, '(')]
		pragmas[name] = p
		order = append(order, name)
	}
	for k, v := range options {
		name, ok := strings.CutPrefix(k, "pragma_")
		if !ok {
			continue
		}
		if _, seen := pragmas[name]; !seen {
			order = append(order, name)
		}
		pragmas[name] = fmt.Sprintf("%s(%s)", name, v)
	}

	q := url.Values{}
	for _, name := range order {
		q.Add("_pragma", pragmas[name])
	}
	return "file:" + path + "?" + q.Encode()
}

// Run executes a mutating statement and reports the rowid of inserts.
func (a *Adapter) Run(ctx context.Context, query string, args ...any) (adapter.Result, error) {
	res, affected, err := a.ExecResult(ctx, query, args...)
	if err != nil {
		return adapter.Result{}, err
	}

	out := adapter.Result{RowsAffected: affected}
	if affected > 0 && dialect.IsInsert(query) {
		id, err := res.LastInsertId()
		if err != nil {
			return adapter.Result{}, fmt.Errorf("failed to read last insert id: %w", err)
		}
		out.LastInsertID = sql.NullInt64{Int64: id, Valid: true}
	}
	return out, nil
}

// IsSchemaConflict reports "duplicate column name" and "already exists" errors.
func (a *Adapter) IsSchemaConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}

// IsUniqueViolation reports UNIQUE and PRIMARY KEY constraint failures.
func (a *Adapter) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
