// Package ucisession drives a UCI chess engine through a single session.
//
// A session owns one engine process for its whole life. Callers express
// intents (search this position, stop searching) and the session turns them
// into protocol traffic while upholding the engine's one-search-at-a-time
// rule: a new request while a search runs stops it and queues the new one,
// the stopped search's result is discarded, and only the latest queued
// request survives.
//
// # Basic Usage
//
//	s := ucisession.NewSession(
//	    ucisession.WithLogger(slog.Default()),
//	    ucisession.WithOnResult(func(m ucisession.Move) {
//	        fmt.Println("bestmove", m)
//	    }),
//	)
//	defer s.Close()
//
//	if err := s.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.WaitReady(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	q, err := ucisession.NewSearchFromMoves([]string{"e2e4", "e7e5"}, ucisession.GoMovetime(time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = s.RequestSearch(q)
//
// Or let WithSession manage the lifecycle:
//
//	err := ucisession.WithSession(ctx, func(s ucisession.Session) error {
//	    return s.RequestSearch(q)
//	}, ucisession.WithEngine("stockfish"))
//
// # Callbacks
//
// OnResult, OnLine, OnStateChange and OnError run on one goroutine owned by
// the session, in the order the transitions happened. A callback must not
// call Close.
//
// # Logging
//
// Sessions are silent unless a logger is supplied with WithLogger:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	s := ucisession.NewSession(ucisession.WithLogger(logger))
//
// # Error Handling
//
// Intents return immediately and only fail once the session is unusable.
// Fatal failures end the session and are reported through Err, OnError and
// Done:
//
//	if err := s.Start(ctx); err != nil {
//	    if nf, ok := errors.AsType[*ucisession.EngineNotFoundError](err); ok {
//	        log.Fatalf("engine not installed, searched: %v", nf.SearchedPaths)
//	    }
//	}
//
//	<-s.Done()
//	if errors.Is(s.Err(), ucisession.ErrStopTimeout) {
//	    // the engine ignored "stop"
//	}
package ucisession
