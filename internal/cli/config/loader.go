package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

type (
	configKey struct{}
	loggerKey struct{}
)

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
)

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"database-url":  "database.url",
	"database-path": "database.path",
	"addr":          "server.addr",
	"log-level":     "log_level",
	"verbose":       "verbose",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > kpidash.yaml > kpidash.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultConfigFile, "kpidash.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
}

// LoadConfig loads configuration from defaults, file, .env, environment
// variables and flags.
// Precedence (highest to lowest): flags > DATABASE_URL > KPIDASH_* > .env > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"database.path":              DefaultDatabasePath,
		"database.conn_max_lifetime": DefaultConnMaxLifetime.String(),
		"server.addr":                DefaultServerAddr,
		"server.max_conns":           DefaultMaxConns,
		"seed.default_password":      DefaultSeedPassword,
		"log_level":                  DefaultLogLevel,
		"verbose":                    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. .env only fills variables the process does not already have
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
	}

	// 4. Environment variables (KPIDASH_ prefix, "__" nests)
	// Transform: KPIDASH_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. The conventional DATABASE_URL selects PostgreSQL
	if url := os.Getenv(DatabaseURLEnv); url != "" {
		if err := k.Load(confmap.Provider(map[string]any{"database.url": url}, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DatabaseURLEnv, err)
		}
	}

	// 6. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Database.URL = strings.TrimSpace(cfg.Database.URL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from ctx. Defaults are returned when
// none was stored.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}
	return &Config{
		Database: DatabaseConfig{Path: DefaultDatabasePath, ConnMaxLifetime: DefaultConnMaxLifetime},
		Server:   ServerConfig{Addr: DefaultServerAddr, MaxConns: DefaultMaxConns},
		Seed:     SeedConfig{DefaultPassword: DefaultSeedPassword},
		LogLevel: DefaultLogLevel,
	}
}

// NewLogger builds the process logger. Verbose forces debug level.
func NewLogger(w io.Writer, cfg *Config) *slog.Logger {
	level := ParseLevel(cfg.LogLevel)
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name onto slog; unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
