// Package config provides configuration types for the UCI session library.
package config

import (
	"log/slog"
	"time"

	"github.com/wagiedev/uci-session-go/internal/uci"
)

const (
	// DefaultHandshakeTimeout bounds the wait for "uciok". Engines that load
	// network weights at startup can take a while.
	DefaultHandshakeTimeout = 60 * time.Second

	// DefaultStopTimeout bounds the wait for the "bestmove" that answers "stop".
	DefaultStopTimeout = 10 * time.Second

	// DefaultShutdownTimeout bounds the wait for the engine to exit after "quit".
	DefaultShutdownTimeout = 2 * time.Second
)

// Options configures an engine session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Engine selects a catalog entry ("stockfish", "lc0") used for binary
	// discovery and default engine options. Empty means "stockfish".
	Engine string

	// EnginePath is the explicit path to the engine binary.
	// If empty, the catalog binary names are searched in PATH.
	EnginePath string

	// EngineArgs are extra command line arguments for the engine process.
	EngineArgs []string

	// EngineOptions are sent as "setoption" lines once the handshake completes,
	// on top of the catalog defaults.
	EngineOptions map[string]string

	// Env provides additional environment variables for the engine process.
	Env map[string]string

	// Cwd sets the working directory for the engine process.
	Cwd string

	// Stderr is a callback for each line the engine writes to stderr.
	Stderr func(string)

	// HandshakeTimeout bounds the wait for "uciok".
	// If nil, DefaultHandshakeTimeout is used. Zero disables the timeout.
	HandshakeTimeout *time.Duration

	// StopTimeout bounds the wait for the result of a stopped search.
	// If nil, DefaultStopTimeout is used. Zero disables the timeout.
	StopTimeout *time.Duration

	// ShutdownTimeout bounds the wait for the engine to exit on Close.
	// If nil, DefaultShutdownTimeout is used.
	ShutdownTimeout *time.Duration

	// OnResult receives every search result delivered to the caller.
	OnResult func(uci.Move)

	// OnLine receives log events and engine lines that are not part of the
	// state machine (info, id, option, ...), unmodified.
	OnLine func(Inbound)

	// OnStateChange is called after every state transition.
	OnStateChange func(from, to State)

	// OnError receives the fatal error that ended the session.
	OnError func(error)

	// Channel allows injecting a custom channel implementation.
	// If nil, the default subprocess channel is created automatically.
	Channel Channel `json:"-"`
}

// ResolveDuration returns *d, or def when d is nil.
func ResolveDuration(d *time.Duration, def time.Duration) time.Duration {
	if d == nil {
		return def
	}

	return *d
}
