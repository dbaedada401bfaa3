package sqlite

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *Adapter {
	t.Helper()
	a := New(nil)
	err := a.Connect(context.Background(), adapter.Config{Path: filepath.Join(t.TempDir(), "nested", "kpi.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew(t *testing.T) {
	a := New(nil)
	require.NotNil(t, a)
	assert.NotNil(t, a.Logger)
	assert.False(t, a.IsConnected())
	assert.Equal(t, core.TypeSQLite, a.Dialect().Name)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		options  map[string]string
		contains []string
		excludes []string
	}{
		{
			name:     "defaults",
			path:     "data/kpidash.db",
			contains: []string{"journal_mode(WAL)", "busy_timeout(5000)", "foreign_keys(1)"},
		},
		{
			name:     "override busy timeout",
			path:     "x.db",
			options:  map[string]string{"pragma_busy_timeout": "100", "sslmode": "ignored"},
			contains: []string{"busy_timeout(100)", "journal_mode(WAL)"},
			excludes: []string{"busy_timeout(5000)", "sslmode"},
		},
		{
			name:     "extra pragma",
			path:     "x.db",
			options:  map[string]string{"pragma_synchronous": "NORMAL"},
			contains: []string{"synchronous(NORMAL)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildDSN(tt.path, tt.options)
			require.True(t, strings.HasPrefix(dsn, "file:"+tt.path+"?"))

			q, err := url.ParseQuery(dsn[strings.IndexByte(dsn, '?')+1:])
			require.NoError(t, err)
			pragmas := strings.Join(q["_pragma"], " ")
			for _, c := range tt.contains {
				assert.Contains(t, pragmas, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, pragmas, e)
				assert.NotContains(t, dsn, e)
			}
		})
	}
}

func TestAdapter_WriteAheadLog(t *testing.T) {
	a := connect(t)
	ctx := context.Background()

	row, err := a.Get(ctx, "PRAGMA journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", strings.ToLower(row["journal_mode"].(string)))

	row, err = a.Get(ctx, "PRAGMA foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, int64(1), row["foreign_keys"])
}

func TestAdapter_NotConnected(t *testing.T) {
	a := New(nil)
	ctx := context.Background()

	_, err := a.Run(ctx, "INSERT INTO t (a) VALUES (?)", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")

	_, err = a.Get(ctx, "SELECT 1")
	assert.Error(t, err)
}

func TestAdapter_Lifecycle(t *testing.T) {
	a := connect(t)
	ctx := context.Background()

	require.NoError(t, a.Exec(ctx, `CREATE TABLE departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		target REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`))

	res, err := a.Run(ctx, "INSERT INTO departments (code, target) VALUES (?, ?)", "live", 1.5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	require.True(t, res.LastInsertID.Valid)
	assert.Equal(t, int64(1), res.LastInsertID.Int64)

	res, err = a.Run(ctx, "INSERT INTO departments (code) VALUES (?)", "store")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.LastInsertID.Int64)

	res, err = a.Run(ctx, "UPDATE departments SET target = ? WHERE code = ?", 2.0, "store")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected)
	assert.False(t, res.LastInsertID.Valid, "only inserts report an id")

	row, err := a.Get(ctx, "SELECT code, target FROM departments WHERE id = ?", 1)
	require.NoError(t, err)
	assert.Equal(t, "live", row["code"])
	assert.InDelta(t, 1.5, row["target"], 0.0001)

	row, err = a.Get(ctx, "SELECT code FROM departments WHERE id = ?", 99)
	require.NoError(t, err)
	assert.Nil(t, row)

	rows, err := a.All(ctx, "SELECT code FROM departments ORDER BY id")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "store", rows[1]["code"])
}

func TestAdapter_InsertIgnoredHasNoID(t *testing.T) {
	a := connect(t)
	ctx := context.Background()

	require.NoError(t, a.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT UNIQUE)"))
	_, err := a.Run(ctx, "INSERT INTO t (email) VALUES (?)", "a@x")
	require.NoError(t, err)

	res, err := a.Run(ctx, "INSERT OR IGNORE INTO t (email) VALUES (?)", "a@x")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.RowsAffected)
	assert.False(t, res.LastInsertID.Valid)
}

func TestAdapter_ErrorClassification(t *testing.T) {
	a := connect(t)
	ctx := context.Background()

	require.NoError(t, a.Exec(ctx, "CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT UNIQUE)"))

	t.Run("duplicate column", func(t *testing.T) {
		require.NoError(t, a.Exec(ctx, "ALTER TABLE t ADD COLUMN phone TEXT"))
		err := a.Exec(ctx, "ALTER TABLE t ADD COLUMN phone TEXT")
		require.Error(t, err)
		assert.True(t, a.IsSchemaConflict(err))
		assert.False(t, a.IsUniqueViolation(err))
	})

	t.Run("table exists", func(t *testing.T) {
		err := a.Exec(ctx, "CREATE TABLE t (id INTEGER)")
		require.Error(t, err)
		assert.True(t, a.IsSchemaConflict(err))
	})

	t.Run("unique violation", func(t *testing.T) {
		_, err := a.Run(ctx, "INSERT INTO t (email) VALUES (?)", "dup@x")
		require.NoError(t, err)
		_, err = a.Run(ctx, "INSERT INTO t (email) VALUES (?)", "dup@x")
		require.Error(t, err)
		assert.True(t, a.IsUniqueViolation(err))
		assert.False(t, a.IsSchemaConflict(err))
	})

	t.Run("syntax error is neither", func(t *testing.T) {
		err := a.Exec(ctx, "CREATE TABLE (")
		require.Error(t, err)
		assert.False(t, a.IsSchemaConflict(err))
		assert.False(t, a.IsUniqueViolation(err))
	})

	assert.False(t, a.IsSchemaConflict(nil))
	assert.False(t, a.IsUniqueViolation(nil))
}

func TestAdapter_Memory(t *testing.T) {
	a := New(nil)
	require.NoError(t, a.Connect(context.Background(), adapter.Config{Path: MemoryPath}))
	defer func() { _ = a.Close() }()

	row, err := a.Get(context.Background(), "SELECT 1 AS ok")
	require.NoError(t, err)
	assert.Equal(t, int64(1), row["ok"])
}

func TestAdapter_Registry(t *testing.T) {
	_, ok := adapter.Get(core.TypeSQLite)
	assert.True(t, ok)

	a, err := adapter.NewAdapter(adapter.Config{}, nil)
	require.NoError(t, err)
	_, ok = a.(*Adapter)
	assert.True(t, ok)
}
