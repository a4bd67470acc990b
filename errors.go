package ucisession

import "github.com/wagiedev/uci-session-go/internal/errors"

// Re-export error types from internal package

// EngineNotFoundError indicates the engine binary was not found.
type EngineNotFoundError = errors.EngineNotFoundError

// ChannelError indicates the engine channel failed.
type ChannelError = errors.ChannelError

// ProcessError indicates the engine process exited with an error.
type ProcessError = errors.ProcessError

// ProtocolError indicates an engine line that matched no grammar rule.
type ProtocolError = errors.ProtocolError

// ConcurrencyViolation indicates an event arrived in a state that does not
// accept it.
type ConcurrencyViolation = errors.ConcurrencyViolation

// InvalidMoveError indicates a move that is not in coordinate notation.
type InvalidMoveError = errors.InvalidMoveError

// UCISessionError is the base interface for all session errors.
type UCISessionError = errors.UCISessionError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionNotStarted indicates Start has not been called yet.
	ErrSessionNotStarted = errors.ErrSessionNotStarted

	// ErrSessionAlreadyStarted indicates Start was called twice.
	ErrSessionAlreadyStarted = errors.ErrSessionAlreadyStarted

	// ErrSessionClosed indicates the session failed or was closed.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrChannelNotStarted indicates the engine channel has not been started.
	ErrChannelNotStarted = errors.ErrChannelNotStarted

	// ErrChannelClosed indicates the engine channel terminated.
	ErrChannelClosed = errors.ErrChannelClosed

	// ErrStopTimeout indicates the engine did not answer "stop" in time.
	ErrStopTimeout = errors.ErrStopTimeout

	// ErrHandshakeTimeout indicates the engine never sent "uciok".
	ErrHandshakeTimeout = errors.ErrHandshakeTimeout
)
