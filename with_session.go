package ucisession

import (
	"context"
	"fmt"
)

// WithSession manages session lifecycle with automatic cleanup.
//
// This helper creates a session, starts it, waits for the handshake, executes
// the callback and ensures Close runs when done. If Close fails, a warning is
// logged but does not override the callback's error.
//
// Example usage:
//
//	err := ucisession.WithSession(ctx, func(s ucisession.Session) error {
//	    q, err := ucisession.NewSearchFromMoves(nil, ucisession.GoMovetime(time.Second))
//	    if err != nil {
//	        return err
//	    }
//	    return s.RequestSearch(q)
//	},
//	    ucisession.WithLogger(log),
//	    ucisession.WithOnResult(func(m ucisession.Move) { fmt.Println(m) }),
//	)
func WithSession(ctx context.Context, fn func(Session) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	s := NewSession(opts...)

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			log.Warn("failed to close session", "error", closeErr)
		}
	}()

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if err := s.WaitReady(ctx); err != nil {
		return fmt.Errorf("engine handshake: %w", err)
	}

	return fn(s)
}
