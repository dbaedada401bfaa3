package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/shopfloor/kpidash/internal/schema"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create tables and seed reference data",
		Long: `Bring the configured database up to the current schema.

Tables and indexes are created when missing, later columns are added to
older databases, and departments, KPI metrics and the starting roster are
seeded when absent. Running init repeatedly is safe.`,
		Example: `  # Initialize the default SQLite file
  kpidash init

  # Initialize PostgreSQL with a custom roster
  kpidash init --database-url postgres://localhost/kpidash --seed roster.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := schema.Options{DefaultPassword: cmdCtx.Cfg.Seed.DefaultPassword}
			if seedFile != "" {
				seed, err := loadSeedFile(seedFile)
				if err != nil {
					return err
				}
				opts.Seed = seed
			}

			report, err := schema.New(cmdCtx.DB, cmdCtx.Logger, opts).Run(cmd.Context())
			if err != nil {
				return err
			}
			printInitReport(cmd.OutOrStdout(), cmdCtx.Styles, cmdCtx.DB.Dialect(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML file replacing the built-in seed data")
	return cmd
}

func loadSeedFile(path string) (*schema.SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	seed, err := schema.ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return seed, nil
}

func printInitReport(w io.Writer, s *Styles, dialect string, r schema.Report) {
	_, _ = fmt.Fprintln(w, s.Header.Render("Schema ready ("+dialect+")"))
	line := func(label string, n int, what string) {
		value := s.Muted.Render("unchanged")
		if n > 0 {
			value = s.Success.Render(fmt.Sprintf("%d %s", n, what))
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", s.Label.Render(label), value)
	}
	_, _ = fmt.Fprintf(w, "%s%d statements\n", s.Label.Render("tables"), r.Tables)
	_, _ = fmt.Fprintf(w, "%s%d statements\n", s.Label.Render("indexes"), r.Indexes)
	_, _ = fmt.Fprintf(w, "%s%d statements\n", s.Label.Render("columns"), r.Columns)
	line("departments", r.DepartmentsSeeded, "seeded")
	line("kpi metrics", r.MetricsSeeded, "seeded")
	line("employees", r.EmployeesSeeded, "seeded")
	line("logins", r.UsersSeeded, "seeded")
	_, _ = fmt.Fprintln(w, s.Muted.Render("run "+r.RunID))
}
