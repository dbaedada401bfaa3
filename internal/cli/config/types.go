// Package config provides configuration management for the kpidash CLI.
//
// Values are layered with koanf: built-in defaults, an optional kpidash.yaml,
// a .env file, KPIDASH_* environment variables, the bare DATABASE_URL and
// finally command-line flags.
package config

import (
	"time"

	"github.com/shopfloor/kpidash/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Seed     SeedConfig     `koanf:"seed"`
	LogLevel string         `koanf:"log_level"`
	Verbose  bool           `koanf:"verbose"`
}

// DatabaseConfig selects and tunes the backend. A non-empty URL selects
// PostgreSQL; otherwise the SQLite file at Path is used.
type DatabaseConfig struct {
	URL             string            `koanf:"url"`
	Path            string            `koanf:"path"`
	MaxOpenConns    int               `koanf:"max_open_conns"`
	MaxIdleConns    int               `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration     `koanf:"conn_max_lifetime"`
	Options         map[string]string `koanf:"options"`
}

// AdapterConfig converts the database section for the data layer.
func (d DatabaseConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		URL:             d.URL,
		Path:            d.Path,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		Options:         d.Options,
	}
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr     string `koanf:"addr"`
	MaxConns int    `koanf:"max_conns"`
}

// SeedConfig holds options for the schema initializer.
type SeedConfig struct {
	DefaultPassword string `koanf:"default_password"`
}

// Default configuration values.
const (
	DefaultDatabasePath    = "data/kpidash.db"
	DefaultServerAddr      = ":8080"
	DefaultMaxConns        = 256
	DefaultLogLevel        = "info"
	DefaultSeedPassword    = "changeme"
	DefaultConfigFile      = "kpidash.yaml"
	DefaultEnvFile         = ".env"
	EnvPrefix              = "KPIDASH_"
	DatabaseURLEnv         = "DATABASE_URL"
	DefaultConnMaxLifetime = 30 * time.Minute
)
