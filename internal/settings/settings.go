// Package settings loads the command line tool's layered configuration:
// defaults, then a YAML config file, then UCISESSION_* environment
// variables, then flags.
package settings

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wagiedev/uci-session-go/internal/config"
)

// EnvPrefix prefixes every environment variable the tool reads.
const EnvPrefix = "UCISESSION"

// Settings is the complete tool configuration.
type Settings struct {
	Engine  EngineSettings  `mapstructure:"engine" yaml:"engine"`
	Session SessionSettings `mapstructure:"session" yaml:"session"`
	Serve   ServeSettings   `mapstructure:"serve" yaml:"serve"`
	Log     LogSettings     `mapstructure:"log" yaml:"log"`
}

// EngineSettings selects and configures the engine process.
type EngineSettings struct {
	// Name is a catalog engine id or alias.
	Name string `mapstructure:"name" yaml:"name"`

	// Path is an explicit engine binary. Empty searches PATH.
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	Args []string `mapstructure:"args" yaml:"args,omitempty"`

	// Options are "Name=Value" pairs sent as setoption lines. A list keeps
	// option names case-preserved.
	Options []string `mapstructure:"options" yaml:"options,omitempty"`

	// Env are "KEY=VALUE" pairs added to the engine environment.
	Env []string `mapstructure:"env" yaml:"env,omitempty"`

	Cwd string `mapstructure:"cwd" yaml:"cwd,omitempty"`
}

// SessionSettings holds the session timeouts.
type SessionSettings struct {
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" yaml:"handshake_timeout"`
	StopTimeout      time.Duration `mapstructure:"stop_timeout" yaml:"stop_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ServeSettings configures the WebSocket bridge.
type ServeSettings struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	PingInterval   time.Duration `mapstructure:"ping_interval" yaml:"ping_interval"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins,omitempty"`
}

// LogSettings configures the tool's logger.
type LogSettings struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Engine: EngineSettings{
			Name: "stockfish",
		},
		Session: SessionSettings{
			HandshakeTimeout: config.DefaultHandshakeTimeout,
			StopTimeout:      config.DefaultStopTimeout,
			ShutdownTimeout:  config.DefaultShutdownTimeout,
		},
		Serve: ServeSettings{
			Addr:         "127.0.0.1:8080",
			PingInterval: 30 * time.Second,
		},
		Log: LogSettings{
			Level:  "warn",
			Format: "text",
		},
	}
}

// SetDefaults registers the built-in settings with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("engine.name", defaults.Engine.Name)
	v.SetDefault("engine.path", defaults.Engine.Path)
	v.SetDefault("engine.args", []string{})
	v.SetDefault("engine.options", []string{})
	v.SetDefault("engine.env", []string{})
	v.SetDefault("engine.cwd", defaults.Engine.Cwd)

	v.SetDefault("session.handshake_timeout", defaults.Session.HandshakeTimeout)
	v.SetDefault("session.stop_timeout", defaults.Session.StopTimeout)
	v.SetDefault("session.shutdown_timeout", defaults.Session.ShutdownTimeout)

	v.SetDefault("serve.addr", defaults.Serve.Addr)
	v.SetDefault("serve.ping_interval", defaults.Serve.PingInterval)
	v.SetDefault("serve.allowed_origins", []string{})

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// New returns a viper instance with defaults, environment binding and the
// config file read. cfgFile overrides the search path; a missing file in
// the search path is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	// UCISESSION_ENGINE_PATH for engine.path
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := errors.AsType[viper.ConfigFileNotFoundError](err); !notFound || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if errs := s.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &s, nil
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ucisession")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".ucisession"
	}

	return filepath.Join(home, ".config", "ucisession")
}

// ConfigFile returns the path to the default config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// EngineOptions parses the "Name=Value" option list.
func (e EngineSettings) EngineOptions() (map[string]string, error) {
	return parsePairs("engine.options", e.Options)
}

// Environment parses the "KEY=VALUE" environment list.
func (e EngineSettings) Environment() (map[string]string, error) {
	return parsePairs("engine.env", e.Env)
}

func parsePairs(field string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, ValidationError{Field: field, Value: pair, Message: "expected Name=Value"}
		}

		out[name] = strings.TrimSpace(value)
	}

	return out, nil
}

// Logger builds the tool's logger writing to w.
func (l LogSettings) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, ValidationError{Field: "log.level", Value: l.Level, Message: "unknown level"}
	}

	opts := &slog.HandlerOptions{Level: level}

	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, ValidationError{Field: "log.format", Value: l.Format, Message: "must be text or json"}
	}
}
