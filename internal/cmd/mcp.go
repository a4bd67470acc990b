package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	ucisession "github.com/wagiedev/uci-session-go"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Expose an engine session as MCP tools over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout backed by one
engine session. Tools: request_search, cancel_search, session_state and
best_move. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s := ucisession.NewSession(a.sessionOptions()...)

			defer func() {
				if err := s.Close(); err != nil {
					a.log.Warn("failed to close session", "error", err)
				}
			}()

			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}

			if err := s.WaitReady(ctx); err != nil {
				return fmt.Errorf("engine handshake: %w", err)
			}

			return ucisession.NewMCPServer(a.log, s, a.version).Serve(ctx)
		},
	}
}
