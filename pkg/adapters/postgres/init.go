// Package postgres provides a PostgreSQL database adapter for kpidash.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/shopfloor/kpidash/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/shopfloor/kpidash/pkg/core"
)

func init() {
	adapter.Register(core.TypePostgres, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
