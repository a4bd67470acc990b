//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ucisession "github.com/wagiedev/uci-session-go"
)

// TestSession_CloseMidSearch tests that closing the session during an
// infinite search terminates the engine without hanging.
func TestSession_CloseMidSearch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	r := newRecorder()
	s := startSession(ctx, t, r.options()...)

	q, err := ucisession.NewSearchFromMoves(nil, ucisession.GoInfinite())
	require.NoError(t, err)
	require.NoError(t, s.RequestSearch(q))

	time.Sleep(300 * time.Millisecond)

	closeStart := time.Now()
	err = s.Close()
	closeDuration := time.Since(closeStart)

	require.NoError(t, err, "Close should succeed")
	t.Logf("Close completed in %v", closeDuration)

	require.Less(t, closeDuration, 10*time.Second, "Close should not wait for the search")
	require.Equal(t, ucisession.StateOff, s.State())

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed after Close")
	}
}

func TestWithSession_RealEngine(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	r := newRecorder()

	err := ucisession.WithSession(ctx, func(s ucisession.Session) error {
		require.Equal(t, ucisession.StateReady, s.State())

		return nil
	}, r.options()...)
	if err != nil {
		skipIfEngineNotInstalled(t, err)
	}

	require.NoError(t, err)
}
