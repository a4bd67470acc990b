package ucisession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/uci-session-go/internal/testutil"
)

func startSession(t *testing.T, opts ...Option) (Session, *testutil.ScriptedChannel) {
	t.Helper()

	ch := testutil.NewScriptedChannel()
	s := NewSession(append([]Option{WithChannel(ch)}, opts...)...)

	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.WaitReady(ctx))
	require.Equal(t, StateReady, s.State())

	return s, ch
}

func TestSession_SearchDeliversResult(t *testing.T) {
	results := make(chan Move, 4)
	s, ch := startSession(t, WithOnResult(func(m Move) { results <- m }))

	q, err := NewSearchFromMoves([]string{"d2d4"}, GoNodes(1000))
	require.NoError(t, err)
	require.NoError(t, s.RequestSearch(q))

	select {
	case m := <-results:
		require.Equal(t, "e2e4", m.String())
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}

	require.Eventually(t, func() bool { return s.State() == StateReady }, 5*time.Second, 5*time.Millisecond)

	last, ok := s.LastResult()
	require.True(t, ok)
	require.Equal(t, "e2e4", last.String())

	require.Equal(t, []string{"uci", "position startpos moves d2d4", "go nodes 1000"}, ch.Sent())
}

func TestSession_ReplacementDiscardsStoppedResult(t *testing.T) {
	results := make(chan Move, 4)
	s, ch := startSession(t, WithOnResult(func(m Move) { results <- m }))

	require.NoError(t, s.RequestSearch(SearchRequest{Setup: PositionStartpos(), Go: GoInfinite()}))

	q2, err := NewSearch(PositionStartpos("e2e4"), GoMovetime(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, s.RequestSearch(q2))

	select {
	case m := <-results:
		require.Equal(t, "e2e4", m.String(), "only the replacement's result is delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}

	require.Eventually(t, func() bool { return s.State() == StateReady }, 5*time.Second, 5*time.Millisecond)
	require.Empty(t, results)

	require.Equal(t, []string{
		"uci",
		"position startpos", "go infinite",
		"stop",
		"position startpos moves e2e4", "go movetime 50",
	}, ch.Sent())
}

func TestSession_CancelDiscardsResult(t *testing.T) {
	results := make(chan Move, 4)
	s, _ := startSession(t, WithOnResult(func(m Move) { results <- m }))

	require.NoError(t, s.RequestSearch(SearchRequest{Setup: PositionStartpos(), Go: GoInfinite()}))
	require.NoError(t, s.CancelSearch())

	require.Eventually(t, func() bool { return s.State() == StateReady }, 5*time.Second, 5*time.Millisecond)
	require.Empty(t, results)

	_, ok := s.LastResult()
	require.False(t, ok)
}

func TestSession_CloseSendsQuit(t *testing.T) {
	s, ch := startSession(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Close")
	}

	require.NoError(t, s.Err())
	require.Equal(t, StateOff, s.State())
	require.Equal(t, "quit", ch.Sent()[len(ch.Sent())-1])
	require.ErrorIs(t, s.RequestSearch(SearchRequest{Setup: "position startpos", Go: "go"}), ErrSessionClosed)
	require.ErrorIs(t, s.CancelSearch(), ErrSessionClosed)
}

func TestSession_IntentsBeforeStart(t *testing.T) {
	s := NewSession(WithChannel(testutil.NewScriptedChannel()))
	defer s.Close()

	require.ErrorIs(t, s.CancelSearch(), ErrSessionNotStarted)
	require.Equal(t, StateOff, s.State())
}

func TestSession_EngineNotFound(t *testing.T) {
	errs := make(chan error, 1)
	s := NewSession(
		WithEnginePath("/nonexistent/path/to/engine"),
		WithOnError(func(err error) { errs <- err }),
	)
	defer s.Close()

	err := s.Start(context.Background())
	require.Error(t, err)

	notFound, ok := errors.AsType[*EngineNotFoundError](err)
	require.True(t, ok, "expected EngineNotFoundError, got %v", err)
	require.Contains(t, notFound.SearchedPaths, "/nonexistent/path/to/engine")

	select {
	case reported := <-errs:
		require.ErrorAs(t, reported, &notFound)
	case <-time.After(5 * time.Second):
		t.Fatal("OnError not called")
	}

	<-s.Done()
	require.Error(t, s.Err())
}
