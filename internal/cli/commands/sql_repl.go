package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/shopfloor/kpidash/internal/db"
	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "kpidash> "
	replContinuing = "    ...> "
)

func runSQLREPL(cmd *cobra.Command, cmdCtx *CommandContext, opts *SQLOptions) error {
	ctx := cmd.Context()
	d := cmdCtx.DB

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyPath(),
		AutoComplete:    newTableCompleter(ctx, d),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kpidash SQL REPL (%s)\n", d.Dialect())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	// REPL loop
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), d, line, opts.Format); quit {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt(replContinuing)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()

		if err := executeStatement(ctx, cmd.OutOrStdout(), d, query, opts.Format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

// historyPath keeps REPL history in the user's config dir when there is one.
func historyPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "kpidash")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "sql_history")
}

// handleDotCommand runs a REPL meta command and reports whether to quit.
func handleDotCommand(ctx context.Context, out, errOut io.Writer, d *db.DB, line, format string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".tables":
		rows, err := d.All(ctx, tablesQuery(d.Dialect()))
		if err == nil {
			err = renderRows(out, rows, format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .schema <table>")
			return false
		}
		rows, err := d.All(ctx, columnsQuery(d.Dialect()), parts[1])
		if err == nil && len(rows) == 0 {
			err = fmt.Errorf("table '%s' not found", parts[1])
		}
		if err == nil {
			err = renderRows(out, rows, format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".dialect":
		_, _ = fmt.Fprintln(out, d.Dialect())

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// tablesQuery lists user tables as rows with a single "name" column.
func tablesQuery(dialectName string) string {
	if dialectName == core.TypePostgres {
		return `SELECT table_name AS name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name`
	}
	return `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
}

// columnsQuery describes one table. It takes the table name as its only argument.
func columnsQuery(dialectName string) string {
	if dialectName == core.TypePostgres {
		return `SELECT ordinal_position AS id, column_name AS name, data_type AS type,
			is_nullable AS nullable, column_default AS "default"
			FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ?
			ORDER BY ordinal_position`
	}
	return `SELECT cid AS id, name, type,
		CASE "notnull" WHEN 1 THEN 'NO' ELSE 'YES' END AS nullable, dflt_value AS "default"
		FROM pragma_table_info(?)
		ORDER BY cid`
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List all tables
  .schema <name>  Show the columns of a table
  .dialect        Show the connected backend
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Write "?" placeholders; they are translated for the backend
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, d *db.DB) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Completion is best effort; a failed lookup leaves only dot-commands.
	if rows, err := d.All(ctx, tablesQuery(d.Dialect())); err == nil {
		for _, r := range rows {
			if name, ok := r["name"].(string); ok {
				items = append(items, readline.PcItem(name))
			}
		}
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".dialect"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
