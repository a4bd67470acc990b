package ucisession

import (
	"log/slog"
	"maps"
	"slices"
	"time"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEngine selects a catalog engine ("stockfish", "lc0", "fairy-stockfish")
// or an alias of one. Unknown names are looked up as binary names.
func WithEngine(name string) Option {
	return func(o *Options) {
		o.Engine = name
	}
}

// WithEnginePath sets the explicit path to the engine binary.
// If not set, the engine's binary names are searched in PATH.
func WithEnginePath(path string) Option {
	return func(o *Options) {
		o.EnginePath = path
	}
}

// WithEngineArgs sets extra command line arguments for the engine process.
func WithEngineArgs(args ...string) Option {
	return func(o *Options) {
		o.EngineArgs = slices.Clone(args)
	}
}

// WithEngineOption sets one engine option, sent as "setoption" after the
// handshake. It overrides the catalog default of the same name.
func WithEngineOption(name, value string) Option {
	return func(o *Options) {
		if o.EngineOptions == nil {
			o.EngineOptions = make(map[string]string, 4)
		}

		o.EngineOptions[name] = value
	}
}

// WithEngineOptions merges options into the engine options.
func WithEngineOptions(options map[string]string) Option {
	return func(o *Options) {
		if o.EngineOptions == nil {
			o.EngineOptions = make(map[string]string, len(options))
		}

		maps.Copy(o.EngineOptions, options)
	}
}

// WithEnv provides additional environment variables for the engine process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = maps.Clone(env)
	}
}

// WithCwd sets the working directory for the engine process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithChannel injects a custom channel instead of spawning a process.
func WithChannel(channel Channel) Option {
	return func(o *Options) {
		o.Channel = channel
	}
}

// ===== Timeouts =====

// WithHandshakeTimeout bounds the wait for "uciok". Zero disables it.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandshakeTimeout = &d
	}
}

// WithStopTimeout bounds the wait for the result of a stopped search.
// Zero disables it.
func WithStopTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.StopTimeout = &d
	}
}

// WithShutdownTimeout bounds the wait for the engine to exit on Close.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ShutdownTimeout = &d
	}
}

// ===== Callbacks =====

// WithOnResult sets the callback for delivered search results.
func WithOnResult(fn func(Move)) Option {
	return func(o *Options) {
		o.OnResult = fn
	}
}

// WithOnLine sets the callback for log events and engine lines outside the
// session grammar (info, id, option, ...).
func WithOnLine(fn func(Inbound)) Option {
	return func(o *Options) {
		o.OnLine = fn
	}
}

// WithOnStateChange sets the callback for state transitions.
func WithOnStateChange(fn func(from, to State)) Option {
	return func(o *Options) {
		o.OnStateChange = fn
	}
}

// WithOnError sets the callback for the fatal error that ends a session.
func WithOnError(fn func(error)) Option {
	return func(o *Options) {
		o.OnError = fn
	}
}

// WithStderr sets a callback for each line the engine writes to stderr.
func WithStderr(fn func(string)) Option {
	return func(o *Options) {
		o.Stderr = fn
	}
}
