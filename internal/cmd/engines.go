package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ucisession "github.com/wagiedev/uci-session-go"
)

func newEnginesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the engines the tool knows how to find",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			_, _ = fmt.Fprintln(w, "ID\tNAME\tALIASES\tBINARIES\tREQUIRES")

			for _, e := range ucisession.Engines() {
				requires := make([]string, 0, len(e.Requires))
				for _, r := range e.Requires {
					requires = append(requires, string(r))
				}

				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.Name, dash(e.Aliases), dash(e.Binaries), dash(requires))
			}

			return w.Flush()
		},
	}
}

func dash(items []string) string {
	if len(items) == 0 {
		return "-"
	}

	return strings.Join(items, ",")
}
