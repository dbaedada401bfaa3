package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/shopfloor/kpidash/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Adapter)
)

// Register adds an adapter factory to the registry.
// Called by adapter implementations in their init() functions.
func Register(name string, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves an adapter factory by name.
func Get(name string) (func(*slog.Logger) Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// SelectType decides which backend a config describes. An explicit Type wins;
// otherwise a connection URL selects PostgreSQL and its absence the embedded
// SQLite file.
func SelectType(cfg core.AdapterConfig) string {
	if cfg.Type != "" {
		return strings.ToLower(cfg.Type)
	}
	if strings.TrimSpace(cfg.URL) != "" {
		return core.TypePostgres
	}
	return core.TypeSQLite
}

// NewAdapter creates a new, unconnected adapter for the config.
// The logger parameter is passed to the adapter constructor (nil uses discard logger).
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	name := SelectType(cfg)

	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownAdapterError{
			Type:      name,
			Available: ListAdapters(),
		}
	}
	return factory(logger), nil
}

// ListAdapters returns all registered adapter names (sorted).
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: unset database.type or set DATABASE_URL to select postgres", e.Type, e.Available)
}
