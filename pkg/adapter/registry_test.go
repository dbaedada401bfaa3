package adapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter is a minimal adapter used for registry tests.
type stubAdapter struct {
	BaseSQLAdapter
	name string
}

func (s *stubAdapter) Connect(context.Context, Config) error { return nil }

func (s *stubAdapter) Run(context.Context, string, ...any) (Result, error) {
	return Result{}, nil
}

func (s *stubAdapter) IsSchemaConflict(error) bool  { return false }
func (s *stubAdapter) IsUniqueViolation(error) bool { return false }

func registerStub(t *testing.T, name string) {
	t.Helper()
	Register(name, func(logger *slog.Logger) Adapter {
		return &stubAdapter{
			BaseSQLAdapter: BaseSQLAdapter{Logger: logger, Grammar: dialect.MustGet(core.TypeSQLite)},
			name:           name,
		}
	})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, name)
		registryMu.Unlock()
	})
}

func TestSelectType(t *testing.T) {
	tests := []struct {
		name     string
		cfg      core.AdapterConfig
		expected string
	}{
		{"no url selects embedded", core.AdapterConfig{Path: "data/kpidash.db"}, core.TypeSQLite},
		{"url selects postgres", core.AdapterConfig{URL: "postgres://u:p@db:5432/kpi"}, core.TypePostgres},
		{"blank url is absent", core.AdapterConfig{URL: "   "}, core.TypeSQLite},
		{"explicit type wins", core.AdapterConfig{Type: "SQLite", URL: "postgres://db/kpi"}, core.TypeSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectType(tt.cfg))
		})
	}
}

func TestRegistry(t *testing.T) {
	registerStub(t, "stub-a")
	registerStub(t, "stub-b")

	_, ok := Get("stub-a")
	assert.True(t, ok)
	_, ok = Get("nope")
	assert.False(t, ok)

	names := ListAdapters()
	assert.Contains(t, names, "stub-a")
	assert.Contains(t, names, "stub-b")
	assert.IsNonDecreasing(t, names)

	factory, ok := Get("stub-b")
	require.True(t, ok)
	a := factory(nil)
	assert.Equal(t, "stub-b", a.(*stubAdapter).name)
}

func TestNewAdapter(t *testing.T) {
	registerStub(t, "stub-new")

	a, err := NewAdapter(core.AdapterConfig{Type: "stub-new"}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, core.TypeSQLite, a.Dialect().Name)
}

func TestNewAdapter_Unknown(t *testing.T) {
	registerStub(t, "stub-known")

	_, err := NewAdapter(core.AdapterConfig{Type: "oracle"}, nil)
	require.Error(t, err)

	var unknown *UnknownAdapterError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "oracle", unknown.Type)
	assert.Contains(t, unknown.Available, "stub-known")
	assert.Contains(t, err.Error(), `unknown adapter type "oracle"`)
	assert.Contains(t, err.Error(), "Hint:")
}
