package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wagiedev/uci-session-go/internal/settings"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View ucisession configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out := cmd.OutOrStdout()

				if used := a.v.ConfigFileUsed(); used != "" {
					_, _ = fmt.Fprintf(out, "# config file: %s\n", used)
				} else {
					_, _ = fmt.Fprintln(out, "# config file: (none - using defaults)")
				}

				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)

				if err := enc.Encode(a.settings); err != nil {
					return fmt.Errorf("render config: %w", err)
				}

				return enc.Close()
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), settings.ConfigFile())

				return err
			},
		},
	)

	return configCmd
}
