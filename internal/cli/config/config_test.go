package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no database env set.
func isolate(t *testing.T) string {
	t.Helper()
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(DatabaseURLEnv, "")
	return dir
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database-url", "", "")
	flags.String("database-path", "", "")
	flags.String("addr", "", "")
	flags.String("log-level", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("config", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, DefaultConnMaxLifetime, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultMaxConns, cfg.Server.MaxConns)
	assert.Equal(t, DefaultSeedPassword, cfg.Seed.DefaultPassword)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Backend())
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_DatabaseURLSelectsPostgres(t *testing.T) {
	isolate(t)
	t.Setenv(DatabaseURLEnv, "postgres://kpi:pw@db:5432/kpidash")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://kpi:pw@db:5432/kpidash", cfg.Database.URL)
	assert.Equal(t, "postgres", cfg.Backend())
	assert.Equal(t, "postgres://kpi:pw@db:5432/kpidash", cfg.Database.AdapterConfig().URL)
}

func TestLoadConfig_File(t *testing.T) {
	dir := isolate(t)
	content := `database:
  path: /var/lib/kpidash/kpi.db
  max_open_conns: 8
  conn_max_lifetime: 5m
  options:
    pragma_synchronous: NORMAL
server:
  addr: 127.0.0.1:9000
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigFile, GetConfigFileUsed())
	assert.Equal(t, "/var/lib/kpidash/kpi.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "NORMAL", cfg.Database.Options["pragma_synchronous"])
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := LoadConfig("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile),
		[]byte("server:\n  addr: from_file:1\ndatabase:\n  url: postgres://file/db\n"), 0o600))

	t.Setenv("KPIDASH_SERVER__ADDR", "from_env:2")
	t.Setenv("KPIDASH_DATABASE__URL", "postgres://prefixed/db")
	t.Setenv(DatabaseURLEnv, "postgres://bare/db")

	t.Run("env over file, bare url over prefixed", func(t *testing.T) {
		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "from_env:2", cfg.Server.Addr)
		assert.Equal(t, "postgres://bare/db", cfg.Database.URL)
	})

	t.Run("flags win", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Set("addr", "from_flag:3"))
		require.NoError(t, flags.Set("database-url", "postgres://flag/db"))

		cfg, err := LoadConfig("", flags)
		require.NoError(t, err)
		assert.Equal(t, "from_flag:3", cfg.Server.Addr)
		assert.Equal(t, "postgres://flag/db", cfg.Database.URL)
	})

	t.Run("unset flags fall back", func(t *testing.T) {
		cfg, err := LoadConfig("", newFlags())
		require.NoError(t, err)
		assert.Equal(t, "from_env:2", cfg.Server.Addr)
	})
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile),
		[]byte("KPIDASH_LOG_LEVEL=warn\nKPIDASH_SEED__DEFAULT_PASSWORD=from-dotenv\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("KPIDASH_LOG_LEVEL")
		_ = os.Unsetenv("KPIDASH_SEED__DEFAULT_PASSWORD")
	})

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "from-dotenv", cfg.Seed.DefaultPassword)
}

func TestLoadConfig_EnvNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("KPIDASH_DATABASE__MAX_OPEN_CONNS", "12")
	t.Setenv("KPIDASH_DATABASE__CONN_MAX_LIFETIME", "90s")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Database.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.Database.ConnMaxLifetime)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		c := FromContext(context.Background())
		return c
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"postgres url", func(c *Config) { c.Database.URL = "postgres://u@h/db" }, ""},
		{"bad url", func(c *Config) { c.Database.URL = "postgres://h:notaport/db" }, "not a valid PostgreSQL"},
		{"empty path", func(c *Config) { c.Database.Path = " " }, "database.path is required"},
		{"negative pool", func(c *Config) { c.Database.MaxOpenConns = -1 }, "must not be negative"},
		{"negative lifetime", func(c *Config) { c.Database.ConnMaxLifetime = -time.Second }, "conn_max_lifetime"},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"negative max conns", func(c *Config) { c.Server.MaxConns = -1 }, "server.max_conns"},
		{"no password", func(c *Config) { c.Seed.DefaultPassword = "" }, "default_password"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "unknown log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx))
	assert.Equal(t, DefaultDatabasePath, FromContext(ctx).Database.Path)

	cfg := &Config{LogLevel: "debug"}
	ctx = WithConfig(ctx, cfg)
	assert.Same(t, cfg, FromContext(ctx))

	var buf bytes.Buffer
	logger := NewLogger(&buf, cfg)
	ctx = WithLogger(ctx, logger)
	GetLogger(ctx).Debug("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, &Config{LogLevel: "warn"}).Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, &Config{LogLevel: "warn", Verbose: true}).Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
