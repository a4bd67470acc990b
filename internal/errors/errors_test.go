package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineNotFoundError(t *testing.T) {
	err := &EngineNotFoundError{
		SearchedPaths: []string{"/usr/bin/stockfish", "/usr/games/stockfish"},
	}

	require.Equal(
		t,
		"engine binary not found in: [/usr/bin/stockfish /usr/games/stockfish]",
		err.Error(),
	)
	require.True(t, err.IsUCISessionError())
}

func TestChannelError(t *testing.T) {
	root := errors.New("broken pipe")
	err := &ChannelError{Op: "send", Err: root}

	require.Equal(t, "engine channel send: broken pipe", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsUCISessionError())
}

func TestChannelError_WithoutOp(t *testing.T) {
	err := &ChannelError{Err: ErrStopTimeout}

	require.Equal(t, "engine channel: engine did not acknowledge stop", err.Error())
	require.ErrorIs(t, err, ErrStopTimeout)
}

func TestProcessError_WithUnderlyingError(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessError{
		ExitCode: -1,
		Stderr:   "ignored when Err is set",
		Err:      root,
	}

	require.Equal(t, "engine process failed (exit -1): signal: killed", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsUCISessionError())
}

func TestProcessError_WithStderrOnly(t *testing.T) {
	err := &ProcessError{
		ExitCode: 1,
		Stderr:   "weights file not found",
	}

	require.Equal(t, "engine process failed (exit 1): weights file not found", err.Error())
	require.NoError(t, err.Unwrap())
	require.True(t, err.IsUCISessionError())
}

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Line: "info depth 12 nodes 500"}

	require.Equal(t, `unrecognized engine line: "info depth 12 nodes 500"`, err.Error())
	require.True(t, err.IsUCISessionError())
}

func TestConcurrencyViolation(t *testing.T) {
	err := &ConcurrencyViolation{State: "Ready", Event: "SearchResult"}

	require.Equal(t, "unexpected SearchResult in state Ready", err.Error())
	require.True(t, err.IsUCISessionError())
}

func TestInvalidMoveError(t *testing.T) {
	err := &InvalidMoveError{Move: "e9e4"}

	require.Equal(t, `invalid coordinate move "e9e4"`, err.Error())
	require.True(t, err.IsUCISessionError())

	matched, ok := errors.AsType[*InvalidMoveError](error(err))
	require.True(t, ok)
	require.Equal(t, "e9e4", matched.Move)
}
