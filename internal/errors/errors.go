package errors

import (
	"errors"
	"fmt"
)

// UCISessionError is the base interface for all session errors.
type UCISessionError interface {
	error
	IsUCISessionError() bool
}

// Compile-time verification that all error types implement UCISessionError.
var (
	_ UCISessionError = (*EngineNotFoundError)(nil)
	_ UCISessionError = (*ChannelError)(nil)
	_ UCISessionError = (*ProcessError)(nil)
	_ UCISessionError = (*ProtocolError)(nil)
	_ UCISessionError = (*ConcurrencyViolation)(nil)
	_ UCISessionError = (*InvalidMoveError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionNotStarted indicates Start has not been called yet.
	ErrSessionNotStarted = errors.New("session not started")

	// ErrSessionAlreadyStarted indicates Start was called twice.
	ErrSessionAlreadyStarted = errors.New("session already started")

	// ErrSessionClosed indicates the session failed or was closed and cannot be reused.
	ErrSessionClosed = errors.New("session closed: sessions are single-use, create a new one with NewSession()")

	// ErrChannelNotStarted indicates the engine channel has not been started.
	ErrChannelNotStarted = errors.New("engine channel not started")

	// ErrChannelClosed indicates the engine channel terminated.
	ErrChannelClosed = errors.New("engine channel closed")

	// ErrStopTimeout indicates the engine did not answer "stop" in time.
	ErrStopTimeout = errors.New("engine did not acknowledge stop")

	// ErrHandshakeTimeout indicates the engine never answered "uci" with "uciok".
	ErrHandshakeTimeout = errors.New("engine handshake timeout")
)

// EngineNotFoundError indicates the engine binary was not found.
type EngineNotFoundError struct {
	SearchedPaths []string
}

func (e *EngineNotFoundError) Error() string {
	return fmt.Sprintf("engine binary not found in: %v", e.SearchedPaths)
}

// IsUCISessionError implements UCISessionError.
func (e *EngineNotFoundError) IsUCISessionError() bool { return true }

// ChannelError indicates the engine channel failed. It is fatal to the session.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("engine channel: %v", e.Err)
	}

	return fmt.Sprintf("engine channel %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// IsUCISessionError implements UCISessionError.
func (e *ChannelError) IsUCISessionError() bool { return true }

// ProcessError indicates the engine process exited abnormally.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("engine process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsUCISessionError implements UCISessionError.
func (e *ProcessError) IsUCISessionError() bool { return true }

// ProtocolError describes an engine line that is neither a handshake
// acknowledgement nor a search result. It is logged and never changes state.
type ProtocolError struct {
	Line string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unrecognized engine line: %q", e.Line)
}

// IsUCISessionError implements UCISessionError.
func (e *ProtocolError) IsUCISessionError() bool { return true }

// ConcurrencyViolation describes an event the current session state does not
// expect, such as a search result with nothing in flight. It is logged and ignored.
type ConcurrencyViolation struct {
	State string
	Event string
}

func (e *ConcurrencyViolation) Error() string {
	return fmt.Sprintf("unexpected %s in state %s", e.Event, e.State)
}

// IsUCISessionError implements UCISessionError.
func (e *ConcurrencyViolation) IsUCISessionError() bool { return true }

// InvalidMoveError indicates a move is not in coordinate notation.
type InvalidMoveError struct {
	Move string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid coordinate move %q", e.Move)
}

// IsUCISessionError implements UCISessionError.
func (e *InvalidMoveError) IsUCISessionError() bool { return true }
