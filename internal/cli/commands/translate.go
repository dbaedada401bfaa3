package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopfloor/kpidash/pkg/core"
	"github.com/shopfloor/kpidash/pkg/dialect"
	"github.com/spf13/cobra"
)

// TranslateOptions holds options for the translate command.
type TranslateOptions struct {
	Dialect string
	Schema  bool
	Input   string
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	opts := &TranslateOptions{}

	cmd := &cobra.Command{
		Use:   "translate [SQL]",
		Short: "Show how a canonical statement is rewritten for a backend",
		Long: `Print a canonical (SQLite) statement as it would be sent to another backend.

Statements get their placeholders renumbered and, for inserts, the generated
id clause appended. With --schema the text is treated as DDL and the schema
substitution rules are applied instead; the rules that matched are listed.`,
		Example: `  kpidash translate "INSERT INTO employees (name, email) VALUES (?, ?)"
  kpidash translate --schema "CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, at DATETIME)"
  kpidash translate --schema -i schema.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := dialect.Get(opts.Dialect)
			if !ok {
				return fmt.Errorf("unknown dialect %q (available: %s)", opts.Dialect, strings.Join(dialect.List(), ", "))
			}

			text, err := readStatement(args, opts.Input, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no SQL given")
			}

			out, fired := translate(d, text, opts.Schema)
			printTranslation(cmd.OutOrStdout(), NewStyles(cmd.OutOrStdout()), d, out, fired, opts.Schema,
				dialect.CountPlaceholders(text))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", core.TypePostgres, "Target dialect")
	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "Treat input as DDL and apply schema rules")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	_ = cmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// readStatement takes SQL from args, then the input file, then stdin.
func readStatement(args []string, input string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	default:
		content, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), nil
	}
}

// translate rewrites text the way the backend adapter would and reports
// which schema rules changed it.
func translate(d *dialect.Dialect, text string, schema bool) (string, []string) {
	if !schema {
		return d.WithReturning(d.Rewrite(text)), nil
	}

	var fired []string
	for _, r := range d.SchemaRules() {
		next := r.Apply(text)
		if next != text {
			fired = append(fired, r.Name)
		}
		text = next
	}
	return text, fired
}

func parameterCount(n int) string {
	if n == 1 {
		return "1 parameter"
	}
	return fmt.Sprintf("%d parameters", n)
}

func printTranslation(w io.Writer, s *Styles, d *dialect.Dialect, out string, fired []string, schema bool, params int) {
	_, _ = fmt.Fprintln(w, s.Header.Render(d.Name))
	_, _ = fmt.Fprintln(w, s.Code.Render(strings.TrimSpace(out)))
	if !schema {
		_, _ = fmt.Fprintln(w, s.Muted.Render(parameterCount(params)))
		return
	}
	if len(fired) == 0 {
		_, _ = fmt.Fprintln(w, s.Warning.Render("no rules applied"))
		return
	}
	_, _ = fmt.Fprintln(w, s.Success.Render("rules: "+strings.Join(fired, ", ")))
}
