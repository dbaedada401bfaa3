package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopfloor/kpidash/internal/db"
	"github.com/shopfloor/kpidash/pkg/core"
)

// NewTestDB opens a facade over a fresh SQLite file in t.TempDir().
// The database is closed when the test ends.
func NewTestDB(t testing.TB) *db.DB {
	t.Helper()
	cfg := core.AdapterConfig{Path: filepath.Join(t.TempDir(), "kpidash.db")}

	d, err := db.Open(context.Background(), cfg, NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}
