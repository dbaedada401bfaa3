package sqlite

import (
	"log/slog"

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/shopfloor/kpidash/pkg/core"
)

func init() {
	adapter.Register(core.TypeSQLite, func(logger *slog.Logger) adapter.Adapter { return New(logger) })
}
