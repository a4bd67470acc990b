package uci

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sessionerrors "github.com/wagiedev/uci-session-go/internal/errors"
)

func TestPositionStartpos(t *testing.T) {
	require.Equal(t, "position startpos", PositionStartpos())
	require.Equal(t, "position startpos moves e2e4 e7e5", PositionStartpos("e2e4", "e7e5"))
}

func TestPositionFEN(t *testing.T) {
	fen := "8/P7/8/8/8/8/8/k6K w - - 0 1"

	require.Equal(t, "position fen "+fen, PositionFEN(fen))
	require.Equal(t, "position fen "+fen+" moves a7a8q", PositionFEN(" "+fen+" ", "a7a8q"))
}

func TestGoCommands(t *testing.T) {
	require.Equal(t, "go infinite", GoInfinite())
	require.Equal(t, "go movetime 1500", GoMovetime(1500*time.Millisecond))
	require.Equal(t, "go nodes 800", GoNodes(800))
}

func TestSetOptions_SortedByName(t *testing.T) {
	lines := SetOptions(map[string]string{
		"Threads":     "2",
		"Hash":        "64",
		"WeightsFile": "/nets/t2.pb.gz",
	})

	require.Equal(t, []string{
		"setoption name Hash value 64",
		"setoption name Threads value 2",
		"setoption name WeightsFile value /nets/t2.pb.gz",
	}, lines)
}

func TestNewSearch(t *testing.T) {
	req, err := NewSearch(PositionStartpos("e2e4"), GoInfinite())
	require.NoError(t, err)
	require.Equal(t, SearchRequest{Setup: "position startpos moves e2e4", Go: "go infinite"}, req)
	require.Equal(t, []string{req.Setup, req.Go}, req.Lines())

	_, err = NewSearch("go infinite", "position startpos")
	require.Error(t, err)

	_, err = NewSearch(PositionStartpos(), "stop")
	require.Error(t, err)
}

func TestNewSearchFromMoves_RejectsBadSyntax(t *testing.T) {
	_, err := NewSearchFromMoves([]string{"e2e4", "e7e5x"}, GoInfinite())

	moveErr, ok := errors.AsType[*sessionerrors.InvalidMoveError](err)
	require.True(t, ok, "expected InvalidMoveError, got %v", err)
	require.Equal(t, "e7e5x", moveErr.Move)
}

func TestNewSearchFromMoves(t *testing.T) {
	req, err := NewSearchFromMoves([]string{"e2e4", "e7e5", "g1f3"}, GoNodes(100))
	require.NoError(t, err)
	require.Equal(t, "position startpos moves e2e4 e7e5 g1f3", req.Setup)
	require.Equal(t, "go nodes 100", req.Go)
}

func TestSearchSpec_Request(t *testing.T) {
	const fen = "8/8/8/8/8/8/4k3/4K3 w - - 0 1"

	tests := []struct {
		name    string
		spec    SearchSpec
		want    SearchRequest
		wantErr bool
	}{
		{
			name: "zero value searches startpos until stopped",
			want: SearchRequest{Setup: "position startpos", Go: "go infinite"},
		},
		{
			name: "fen with moves and movetime",
			spec: SearchSpec{FEN: fen, Moves: []string{"e1d1"}, Movetime: 250 * time.Millisecond},
			want: SearchRequest{Setup: "position fen " + fen + " moves e1d1", Go: "go movetime 250"},
		},
		{
			name: "movetime wins over nodes",
			spec: SearchSpec{Movetime: time.Second, Nodes: 10},
			want: SearchRequest{Setup: "position startpos", Go: "go movetime 1000"},
		},
		{
			name: "nodes",
			spec: SearchSpec{Moves: []string{"e2e4"}, Nodes: 5000},
			want: SearchRequest{Setup: "position startpos moves e2e4", Go: "go nodes 5000"},
		},
		{
			name:    "bad move",
			spec:    SearchSpec{Moves: []string{"e2-e4"}},
			wantErr: true,
		},
		{
			name:    "negative limit",
			spec:    SearchSpec{Nodes: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Request()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
