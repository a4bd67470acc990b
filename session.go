package ucisession

import (
	"context"

	"github.com/wagiedev/uci-session-go/internal/session"
	"github.com/wagiedev/uci-session-go/internal/subprocess"
)

// Session is a single engine session.
//
// A Session is single-use: once closed or failed, create a new one with
// NewSession. All methods are safe for concurrent use.
type Session interface {
	// Start brings up the engine channel and sends the handshake.
	// It does not wait for the handshake to complete; use WaitReady.
	Start(ctx context.Context) error

	// WaitReady blocks until the engine acknowledges the handshake, the
	// session ends or ctx is done.
	WaitReady(ctx context.Context) error

	// RequestSearch asks for a search and returns without waiting on the
	// engine. A search already in flight is stopped and replaced; its result
	// is discarded. Of several requests made while a stop is outstanding,
	// only the last is sent.
	RequestSearch(q SearchRequest) error

	// CancelSearch abandons the search in flight and any pending request.
	CancelSearch() error

	// State returns the current state.
	State() State

	// Pending returns the request queued behind a stopped search, if any.
	Pending() (SearchRequest, bool)

	// LastResult returns the most recently delivered move.
	LastResult() (Move, bool)

	// Done is closed when the session ends.
	Done() <-chan struct{}

	// Err returns the fatal error that ended the session, or nil.
	Err() error

	// Close sends "quit", shuts the engine down and releases resources.
	// It must not be called from a callback.
	Close() error
}

// Compile-time check that the controller implements the Session interface.
var _ Session = (*session.Controller)(nil)

// NewSession creates a session configured by opts. Nothing is started until
// Start.
func NewSession(opts ...Option) Session {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	channel := options.Channel
	if channel == nil {
		channel = subprocess.NewProcessChannel(log, options)
	}

	return session.New(log, channel, options)
}
