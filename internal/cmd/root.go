// Package cmd implements the ucisession command line tool.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ucisession "github.com/wagiedev/uci-session-go"
	"github.com/wagiedev/uci-session-go/internal/settings"
)

// app carries the state shared by every command of one invocation.
type app struct {
	version  string
	cfgFile  string
	v        *viper.Viper
	settings *settings.Settings
	log      *slog.Logger

	// newChannel replaces the engine process when set.
	newChannel func() ucisession.Channel
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCmd(&app{version: version}).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ucisession",
		Short: "Drive UCI chess engines through a single-search session",
		Long: `ucisession runs a UCI chess engine behind a session that allows one
search at a time. New requests stop and replace the running search, and
the result of a stopped search is never reported.

Configuration is read from $XDG_CONFIG_HOME/ucisession/config.yaml (or
~/.config/ucisession/config.yaml, or ./config.yaml), then from UCISESSION_*
environment variables, then from flags.`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/ucisession/config.yaml)")
	flags.StringP("engine", "e", "", "catalog engine or alias (stockfish, lc0, fairy-stockfish)")
	flags.String("engine-path", "", "explicit engine binary")
	flags.StringArray("option", nil, "engine option as Name=Value (repeatable)")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newAnalyzeCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newEnginesCmd(a),
		newConfigCmd(a),
	)

	return root
}

// load reads the layered configuration and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	v, err := settings.New(a.cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()

	for key, flag := range map[string]string{
		"engine.name":         "engine",
		"engine.path":         "engine-path",
		"engine.options":      "option",
		"log.level":           "log-level",
		"serve.addr":          "addr",
		"serve.ping_interval": "ping-interval",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	s, err := settings.Load(v)
	if err != nil {
		return err
	}

	log, err := s.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.v = v
	a.settings = s
	a.log = log

	return nil
}

// sessionOptions translates the settings into session options.
func (a *app) sessionOptions() []ucisession.Option {
	engine := a.settings.Engine

	// Validated by settings.Load.
	engineOptions, _ := engine.EngineOptions()
	env, _ := engine.Environment()

	opts := []ucisession.Option{
		ucisession.WithLogger(a.log),
		ucisession.WithEngine(engine.Name),
		ucisession.WithEnginePath(engine.Path),
		ucisession.WithEngineArgs(engine.Args...),
		ucisession.WithEngineOptions(engineOptions),
		ucisession.WithEnv(env),
		ucisession.WithCwd(engine.Cwd),
		ucisession.WithHandshakeTimeout(a.settings.Session.HandshakeTimeout),
		ucisession.WithStopTimeout(a.settings.Session.StopTimeout),
		ucisession.WithShutdownTimeout(a.settings.Session.ShutdownTimeout),
	}

	if a.newChannel != nil {
		opts = append(opts, ucisession.WithChannel(a.newChannel()))
	}

	return opts
}
