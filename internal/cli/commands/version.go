package commands

import (
	"fmt"
	"strings"

	"github.com/shopfloor/kpidash/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, buildDate, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display kpidash version, build information and the compiled-in backends.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "kpidash v%s\n", version)
			_, _ = fmt.Fprintf(out, "commit %s, built %s\n", commit, buildDate)
			_, _ = fmt.Fprintf(out, "backends: %s\n", strings.Join(adapter.ListAdapters(), ", "))
		},
	}
}
