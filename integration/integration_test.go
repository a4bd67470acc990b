//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ucisession "github.com/wagiedev/uci-session-go"
)

// skipIfEngineNotInstalled skips the test if the error indicates the engine
// binary is not found.
func skipIfEngineNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*ucisession.EngineNotFoundError](err); ok {
		t.Skip("stockfish not installed")
	}
}

// recorder collects results and transitions from session callbacks.
type recorder struct {
	mu          sync.Mutex
	results     chan ucisession.Move
	transitions []string
}

func newRecorder() *recorder {
	return &recorder{results: make(chan ucisession.Move, 16)}
}

func (r *recorder) options() []ucisession.Option {
	return []ucisession.Option{
		ucisession.WithEngine("stockfish"),
		ucisession.WithEngineOption("Threads", "1"),
		ucisession.WithOnResult(func(m ucisession.Move) { r.results <- m }),
		ucisession.WithOnStateChange(func(from, to ucisession.State) {
			r.mu.Lock()
			defer r.mu.Unlock()

			r.transitions = append(r.transitions, from.String()+"->"+to.String())
		}),
	}
}

func (r *recorder) Transitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.transitions...)
}

// startSession starts a stockfish session, skipping when it is not installed.
func startSession(ctx context.Context, t *testing.T, opts ...ucisession.Option) ucisession.Session {
	t.Helper()

	s := ucisession.NewSession(opts...)
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Start(ctx); err != nil {
		skipIfEngineNotInstalled(t, err)
		t.Fatalf("Start failed: %v", err)
	}

	require.NoError(t, s.WaitReady(ctx))

	return s
}

// waitResult waits for one reported move.
func waitResult(t *testing.T, r *recorder, timeout time.Duration) ucisession.Move {
	t.Helper()

	select {
	case m := <-r.results:
		return m
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a search result")

		return ucisession.Move{}
	}
}
