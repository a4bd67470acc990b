package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	ucisession "github.com/wagiedev/uci-session-go"
)

const defaultMovetime = time.Second

type analyzeFlags struct {
	fen      string
	movetime time.Duration
	nodes    int64
	timeout  time.Duration
	info     bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [moves...]",
		Short: "Search one position and print the best move",
		Long: `Search one position and print the engine's best move.

The position is the start position, or --fen, followed by the given moves
in coordinate notation. Without --movetime or --nodes the search runs for
one second.

Examples:
  ucisession analyze e2e4 e7e5
  ucisession analyze --nodes 200000 d2d4
  ucisession analyze --fen "8/8/8/8/8/8/4k3/4K2R w K - 0 1" --movetime 3s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, f)
		},
	}

	cmd.Flags().StringVar(&f.fen, "fen", "", "root position in FEN (default is the start position)")
	cmd.Flags().DurationVar(&f.movetime, "movetime", 0, "search time")
	cmd.Flags().Int64Var(&f.nodes, "nodes", 0, "search node limit")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "give up after this long")
	cmd.Flags().BoolVar(&f.info, "info", false, "print engine output while searching")

	return cmd
}

// syncWriter serializes writes from callbacks and the command goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

func (a *app) runAnalyze(cmd *cobra.Command, moves []string, f analyzeFlags) error {
	spec := ucisession.SearchSpec{FEN: f.fen, Moves: moves, Movetime: f.movetime, Nodes: f.nodes}
	if spec.Movetime == 0 && spec.Nodes == 0 {
		spec.Movetime = defaultMovetime
	}

	q, err := spec.Request()
	if err != nil {
		return err
	}

	out := &syncWriter{w: cmd.OutOrStdout()}
	results := make(chan ucisession.Move, 1)

	opts := append(a.sessionOptions(), ucisession.WithOnResult(func(m ucisession.Move) {
		select {
		case results <- m:
		default:
		}
	}))

	if f.info {
		opts = append(opts, ucisession.WithOnLine(func(in ucisession.Inbound) {
			if in.Kind == ucisession.EngineLine {
				_, _ = fmt.Fprintln(out, in.Text)
			}
		}))
	}

	ctx := cmd.Context()

	return ucisession.WithSession(ctx, func(s ucisession.Session) error {
		a.log.Debug("Requesting search", "setup", q.Setup, "go", q.Go)

		if err := s.RequestSearch(q); err != nil {
			return err
		}

		timer := time.NewTimer(f.timeout)
		defer timer.Stop()

		select {
		case m := <-results:
			_, err := fmt.Fprintf(out, "bestmove %s\n", m)

			return err

		case <-s.Done():
			if err := s.Err(); err != nil {
				return err
			}

			return ucisession.ErrSessionClosed

		case <-timer.C:
			_ = s.CancelSearch()

			return fmt.Errorf("no result after %s", f.timeout)

		case <-ctx.Done():
			_ = s.CancelSearch()

			return errors.Join(errors.New("analysis interrupted"), ctx.Err())
		}
	}, opts...)
}
