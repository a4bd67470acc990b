package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/engines"
	"github.com/wagiedev/uci-session-go/internal/errors"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

// Controller owns one engine channel for its whole life and drives it
// through the session state machine.
//
// The Controller handles:
//   - The "uci" handshake and the setoption lines that follow it
//   - Caller intents (RequestSearch, CancelSearch), which update state and
//     queue lines synchronously without waiting on the engine
//   - The event pump, which parses engine lines and applies them in order
//   - Stop and handshake timeouts, which fail the session
//   - Callback dispatch on a dedicated goroutine, in transition order
//
// Intents and the pump are serialized by one mutex. Lines are handed to the
// channel while it is held, so outbound order always equals transition order.
// Callbacks never run while it is held.
type Controller struct {
	log     *slog.Logger
	channel config.Channel
	options *config.Options
	engine  engines.Engine

	stopTimeout      time.Duration
	handshakeTimeout time.Duration

	mu             sync.Mutex
	machine        Machine
	started        bool
	closed         bool
	fatalErr       error
	searchID       string
	stopTimer      *time.Timer
	handshakeTimer *time.Timer
	last           *uci.Move
	notes          []func()

	wake  chan struct{}
	ready chan struct{}
	done  chan struct{}

	eg        *errgroup.Group
	closeOnce sync.Once
}

// New creates a controller bound to channel. The controller starts in Off
// and does nothing until Start.
func New(log *slog.Logger, channel config.Channel, options *config.Options) *Controller {
	return &Controller{
		log:              log.With("component", "session"),
		channel:          channel,
		options:          options,
		engine:           engines.Resolve(options.Engine),
		stopTimeout:      config.ResolveDuration(options.StopTimeout, config.DefaultStopTimeout),
		handshakeTimeout: config.ResolveDuration(options.HandshakeTimeout, config.DefaultHandshakeTimeout),
		wake:             make(chan struct{}, 1),
		ready:            make(chan struct{}),
		done:             make(chan struct{}),
		eg:               new(errgroup.Group),
	}
}

// Start brings up the channel, starts the event pump and sends "uci".
//
// A construction failure (engine missing, process cannot start) is returned
// and also reported through OnError; the controller is then terminal.
// The context bounds channel startup only.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()

	switch {
	case c.closed:
		c.mu.Unlock()

		return errors.ErrSessionClosed
	case c.started:
		c.mu.Unlock()

		return errors.ErrSessionAlreadyStarted
	}

	c.started = true
	c.mu.Unlock()

	c.eg.Go(c.notifyLoop)

	opts := c.engine.Options(c.options.EngineOptions)
	if missing := c.engine.Missing(opts); len(missing) > 0 {
		err := fmt.Errorf("engine %s requires option(s) %v", c.engine.ID, missing)
		c.fail(err)

		return err
	}

	c.log.Info("Starting session", "engine", c.engine.ID)

	if err := c.channel.Start(ctx); err != nil {
		c.log.Error("Failed to start engine channel", "error", err)
		c.fail(err)

		return fmt.Errorf("start engine channel: %w", err)
	}

	c.eg.Go(c.pump)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.ErrSessionClosed
	}

	if err := c.sendLocked(uci.CmdUCI); err != nil {
		return err
	}

	if c.handshakeTimeout > 0 {
		c.handshakeTimer = time.AfterFunc(c.handshakeTimeout, c.handshakeTimedOut)
	}

	c.log.Debug("Handshake sent", "timeout", c.handshakeTimeout)

	return nil
}

// WaitReady blocks until the handshake completes, the session ends or ctx
// is done.
func (c *Controller) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-c.done:
		if err := c.Err(); err != nil {
			return err
		}

		return errors.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestSearch asks for a search of q. It returns without waiting on the
// engine.
//
// In Ready the search starts at once. While a search is in flight it is
// stopped and q becomes the pending request, replacing any earlier pending
// one; q is sent when the stopped search reports its result. Before the
// handshake the request is ignored.
func (c *Controller) RequestSearch(q uci.SearchRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}

	from := c.machine.State()
	out := c.machine.RequestSearch(q)

	if out.Ignored {
		c.log.Debug("Search request ignored", "state", from)

		return nil
	}

	if out.Dropped {
		c.log.Debug("Pending search replaced", "setup", q.Setup, "go", q.Go)
	}

	return c.applyLocked(from, out)
}

// CancelSearch abandons the in-flight search, if any, and clears the
// pending request. The result of the abandoned search is discarded.
func (c *Controller) CancelSearch() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}

	from := c.machine.State()
	out := c.machine.CancelSearch()

	if out.Ignored {
		c.log.Debug("Cancel ignored, no search in flight", "state", from)

		return nil
	}

	if out.Dropped {
		c.log.Debug("Pending search discarded")
	}

	return c.applyLocked(from, out)
}

// State returns the current state. A terminated controller reports Off.
func (c *Controller) State() config.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.machine.State()
}

// Pending returns the queued replacement request, if any.
func (c *Controller) Pending() (uci.SearchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.machine.Pending()
}

// LastResult returns the most recently delivered move.
func (c *Controller) LastResult() (uci.Move, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		return uci.Move{}, false
	}

	return *c.last, true
}

// Done returns a channel that is closed when the controller terminates,
// through Close or a fatal error.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Err returns the fatal error that terminated the controller, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fatalErr
}

// Close sends "quit", closes the channel and waits for the pump and the
// callback goroutine to finish. It is safe to call more than once.
//
// Close must not be called from inside a callback; it waits for the
// goroutine that runs them.
func (c *Controller) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.mu.Lock()

		if !c.closed {
			from := c.machine.State()

			if c.started {
				if sendErr := c.channel.Send(uci.CmdQuit); sendErr != nil {
					c.log.Debug("Failed to send quit", "error", sendErr)
				}
			}

			c.machine.Reset()
			c.stopTimersLocked()
			c.emitStateLocked(from, config.Off)
			c.terminateLocked()
		}

		c.mu.Unlock()

		c.log.Info("Closing session")

		err = c.channel.Close()

		if waitErr := c.eg.Wait(); waitErr != nil && err == nil {
			err = waitErr
		}
	})

	return err
}

func (c *Controller) usableLocked() error {
	switch {
	case c.closed:
		return errors.ErrSessionClosed
	case !c.started:
		return errors.ErrSessionNotStarted
	}

	return nil
}

// applyLocked performs the effects of a transition out of from.
func (c *Controller) applyLocked(from config.State, out Outcome) error {
	if out.Finished {
		c.disarmStopLocked()
	}

	if out.Started {
		c.searchID = ulid.Make().String()
		c.log.Debug("Search started", "search_id", c.searchID)
	}

	if err := c.sendLocked(out.Send...); err != nil {
		return err
	}

	if out.Stopped {
		c.armStopLocked()
	}

	c.emitStateLocked(from, c.machine.State())

	return nil
}

// sendLocked hands lines to the channel in order. A send failure is fatal.
func (c *Controller) sendLocked(lines ...string) error {
	for _, line := range lines {
		if err := c.channel.Send(line); err != nil {
			chErr := asChannelError("write", err)
			c.failLocked(chErr)

			return chErr
		}

		c.log.Debug("Sent engine command", "line", line, "search_id", c.searchID)
	}

	return nil
}

func (c *Controller) emitStateLocked(from, to config.State) {
	if from == to {
		return
	}

	c.log.Debug("State transition", "from", from, "to", to, "search_id", c.searchID)

	if cb := c.options.OnStateChange; cb != nil {
		c.notifyLocked(func() { cb(from, to) })
	}
}

// pump consumes inbound events until the channel closes.
func (c *Controller) pump() error {
	defer c.log.Debug("Event pump stopped")

	for in := range c.channel.Inbound() {
		c.handleInbound(in)
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return nil
	}

	err := c.channel.Err()
	if err == nil {
		err = errors.ErrChannelClosed
	}

	c.fail(asChannelError("read", err))

	return nil
}

func (c *Controller) handleInbound(in config.Inbound) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if in.Kind == config.LogEvent {
		c.log.Debug("Engine log", "line", in.Text)
		c.forwardLocked(in)

		return
	}

	ev := uci.Parse(in.Text)

	switch ev.Kind {
	case uci.KindHandshakeComplete:
		c.onHandshakeLocked(ev)

	case uci.KindSearchResult:
		c.onResultLocked(ev)

	default:
		perr := &errors.ProtocolError{Line: ev.Raw}
		if strings.HasPrefix(ev.Raw, uci.TokenBest) {
			c.log.Warn("Malformed search result", "error", perr, "state", c.machine.State())
		} else {
			c.log.Debug("Engine output", "line", ev.Raw)
		}

		c.forwardLocked(in)
	}
}

func (c *Controller) forwardLocked(in config.Inbound) {
	if cb := c.options.OnLine; cb != nil {
		c.notifyLocked(func() { cb(in) })
	}
}

func (c *Controller) onHandshakeLocked(ev uci.Event) {
	from := c.machine.State()
	out := c.machine.HandshakeComplete()

	if out.Ignored {
		c.log.Warn("Ignoring engine event",
			"error", &errors.ConcurrencyViolation{State: from.String(), Event: ev.Kind.String()})

		return
	}

	if c.handshakeTimer != nil {
		c.handshakeTimer.Stop()
		c.handshakeTimer = nil
	}

	c.log.Info("Engine handshake complete", "engine", c.engine.ID)

	if err := c.sendLocked(uci.SetOptions(c.engine.Options(c.options.EngineOptions))...); err != nil {
		return
	}

	close(c.ready)
	c.emitStateLocked(from, c.machine.State())
}

func (c *Controller) onResultLocked(ev uci.Event) {
	from := c.machine.State()
	out := c.machine.SearchResult()

	if out.Ignored {
		c.log.Warn("Ignoring engine event",
			"error", &errors.ConcurrencyViolation{State: from.String(), Event: ev.Kind.String()},
			"line", ev.Raw)

		return
	}

	c.log.Debug("Search finished", "search_id", c.searchID, "move", ev.Move.String(), "delivered", out.Deliver)

	if out.Deliver {
		move := ev.Move
		c.last = &move

		if cb := c.options.OnResult; cb != nil {
			c.notifyLocked(func() { cb(move) })
		}
	}

	_ = c.applyLocked(from, out)
}

func (c *Controller) armStopLocked() {
	if c.stopTimeout <= 0 {
		return
	}

	id := c.searchID
	c.stopTimer = time.AfterFunc(c.stopTimeout, func() { c.stopTimedOut(id) })
}

func (c *Controller) disarmStopLocked() {
	if c.stopTimer != nil {
		c.stopTimer.Stop()
		c.stopTimer = nil
	}
}

func (c *Controller) stopTimersLocked() {
	c.disarmStopLocked()

	if c.handshakeTimer != nil {
		c.handshakeTimer.Stop()
		c.handshakeTimer = nil
	}
}

func (c *Controller) stopTimedOut(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.machine.State()
	if c.closed || c.searchID != id || (state != config.Cancelling && state != config.Replacing) {
		return
	}

	c.log.Error("Engine did not answer stop", "search_id", id, "timeout", c.stopTimeout)
	c.failLocked(fmt.Errorf("%w after %s", errors.ErrStopTimeout, c.stopTimeout))
}

func (c *Controller) handshakeTimedOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.machine.State() != config.Off {
		return
	}

	c.failLocked(fmt.Errorf("%w after %s", errors.ErrHandshakeTimeout, c.handshakeTimeout))
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failLocked(err)
}

// failLocked makes the controller terminal with err. Only the first failure
// is recorded. The channel is closed in the background so no caller blocks
// on process shutdown.
func (c *Controller) failLocked(err error) {
	if c.closed {
		return
	}

	from := c.machine.State()

	c.log.Error("Session failed", "error", err, "state", from, "search_id", c.searchID)

	c.fatalErr = err
	c.machine.Reset()
	c.stopTimersLocked()
	c.emitStateLocked(from, config.Off)

	if cb := c.options.OnError; cb != nil {
		c.notifyLocked(func() { cb(err) })
	}

	c.terminateLocked()

	go func() {
		if closeErr := c.channel.Close(); closeErr != nil {
			c.log.Debug("Closing failed channel", "error", closeErr)
		}
	}()
}

func (c *Controller) terminateLocked() {
	c.closed = true
	close(c.done)
	c.wakeLocked()
}

func (c *Controller) notifyLocked(fn func()) {
	if c.closed {
		return
	}

	c.notes = append(c.notes, fn)
	c.wakeLocked()
}

func (c *Controller) wakeLocked() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// notifyLoop runs queued callbacks one at a time, in the order they were
// queued. It returns once the controller is terminal and the queue is empty.
func (c *Controller) notifyLoop() error {
	for {
		c.mu.Lock()

		if len(c.notes) == 0 {
			closed := c.closed
			c.mu.Unlock()

			if closed {
				return nil
			}

			<-c.wake

			continue
		}

		fn := c.notes[0]
		c.notes[0] = nil
		c.notes = c.notes[1:]
		c.mu.Unlock()

		fn()
	}
}

func asChannelError(op string, err error) error {
	if _, ok := stderrors.AsType[errors.UCISessionError](err); ok {
		return err
	}

	return &errors.ChannelError{Op: op, Err: err}
}
