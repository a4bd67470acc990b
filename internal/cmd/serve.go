package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	ucisession "github.com/wagiedev/uci-session-go"
	"github.com/wagiedev/uci-session-go/internal/bridge"
	"github.com/wagiedev/uci-session-go/internal/config"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve engine sessions to browsers over WebSocket",
		Long: `Serve engine sessions over WebSocket.

Every connection to /ws gets its own engine process. Clients send
{"type":"search","payload":{"moves":["e2e4"],"movetime_ms":1000}} and
{"type":"stop"}, and receive state, bestmove, info and error messages.
GET /api/engine describes the configured engine and GET /metrics
exposes Prometheus metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.newBridge().ListenAndServe(cmd.Context(), a.settings.Serve.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	cmd.Flags().Duration("ping-interval", 0, "idle time before the server pings a client")

	return cmd
}

func (a *app) newBridge() *bridge.Server {
	options := &ucisession.Options{}
	for _, opt := range a.sessionOptions() {
		opt(options)
	}

	cfg := bridge.Config{
		Logger:         a.log,
		Options:        options,
		PingInterval:   a.settings.Serve.PingInterval,
		AllowedOrigins: a.settings.Serve.AllowedOrigins,
	}

	if a.newChannel != nil {
		cfg.NewChannel = func(*slog.Logger, *config.Options) config.Channel {
			return a.newChannel()
		}
	}

	return bridge.NewServer(cfg)
}

