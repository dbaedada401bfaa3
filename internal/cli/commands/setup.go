package commands

import (
	"log/slog"

	"github.com/shopfloor/kpidash/internal/cli/config"
	"github.com/shopfloor/kpidash/internal/db"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	DB     *db.DB
	Styles *Styles
}

// NewCommandContext opens the configured backend.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutDB(cmd)

	d, err := db.Open(cmd.Context(), cmdCtx.Cfg.Database.AdapterConfig(), cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.DB = d

	cleanup := func() {
		if err := d.Close(); err != nil {
			cmdCtx.Logger.Warn("failed to close database", "error", err)
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutDB creates a CommandContext without a database.
// Useful for commands that don't need database access.
func NewCommandContextWithoutDB(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    config.FromContext(cmd.Context()),
		Logger: config.GetLogger(cmd.Context()),
		Styles: NewStyles(cmd.OutOrStdout()),
	}
}
