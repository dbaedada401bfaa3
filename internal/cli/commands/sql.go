package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopfloor/kpidash/internal/db"
	"github.com/shopfloor/kpidash/pkg/dialect"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// SQLOptions holds options for the sql command.
type SQLOptions struct {
	Format string
	Input  string
}

// NewSQLCommand creates the sql command.
func NewSQLCommand() *cobra.Command {
	opts := &SQLOptions{}

	cmd := &cobra.Command{
		Use:   "sql [SQL]",
		Short: "Run canonical SQL against the configured backend",
		Long: `Run a statement written in the canonical (SQLite) dialect against the
configured backend. Statements go through the same translation as the
application, so "?" placeholders and inserts behave identically on SQLite
and PostgreSQL. CREATE, ALTER and DROP statements take the schema path and
get the same type substitutions and "already exists" tolerance as kpidash init.

When invoked without arguments on a terminal, enters interactive REPL mode.`,
		Example: `  # Query directly
  kpidash sql "SELECT code, name FROM departments"

  # Output as JSON
  kpidash sql "SELECT * FROM employees" --format json

  # From a file or a pipe
  kpidash sql -i report.sql
  echo "SELECT COUNT(*) AS n FROM attendance" | kpidash sql

  # Interactive mode
  kpidash sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runSQL(cmd *cobra.Command, args []string, opts *SQLOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var query string
	switch {
	case len(args) > 0 || opts.Input != "":
		query, err = readStatement(args, opts.Input, nil)
	case !isTerminal(os.Stdin):
		query, err = readStatement(nil, "", cmd.InOrStdin())
	default:
		// No input, TTY detected - enter REPL mode
		return runSQLREPL(cmd, cmdCtx, opts)
	}
	if err != nil {
		return err
	}

	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	if query == "" {
		return fmt.Errorf("no SQL given")
	}
	return executeStatement(cmd.Context(), cmd.OutOrStdout(), cmdCtx.DB, query, opts.Format)
}

// returnsRows reports whether a statement is answered with a row set.
func returnsRows(query string) bool {
	switch dialect.LeadingKeyword(query) {
	case "SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN", "SHOW":
		return true
	}
	return dialect.IsInsert(query) && dialect.ContainsKeyword(query, "RETURNING")
}

// isSchemaStatement reports whether a statement is DDL.
func isSchemaStatement(query string) bool {
	switch dialect.LeadingKeyword(query) {
	case "CREATE", "ALTER", "DROP":
		return true
	}
	return false
}

// executeStatement runs one statement through the facade and renders the outcome.
func executeStatement(ctx context.Context, w io.Writer, d *db.DB, query, format string) error {
	if isSchemaStatement(query) {
		if err := d.Exec(ctx, query); err != nil {
			return err
		}
		return renderSchemaDone(w, format)
	}
	if returnsRows(query) {
		rows, err := d.All(ctx, query)
		if err != nil {
			return err
		}
		return renderRows(w, rows, format)
	}

	res, err := d.Run(ctx, query)
	if err != nil {
		return err
	}
	return renderResult(w, res, format)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
