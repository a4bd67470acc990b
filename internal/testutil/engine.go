// Package testutil provides a scripted engine channel for tests that need a
// cooperative engine without spawning a process.
package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/errors"
)

// Replies the scripted engine sends.
const (
	BoundedMove  = "e2e4"
	StoppedMove  = "d2d4"
	EngineIDLine = "id name scripted"
	StderrLine   = "loading tables"
)

// ScriptedChannel answers like a cooperative engine: "uciok" for "uci", an
// immediate result for bounded searches and a result on "stop" for
// "go infinite". Replies are queued synchronously from Send, so their order
// follows the outbound order exactly.
type ScriptedChannel struct {
	// StartErr, when set, is returned by Start.
	StartErr error

	mu        sync.Mutex
	sent      []string
	inbound   chan config.Inbound
	started   bool
	closed    bool
	searching bool

	closeOnce sync.Once
}

var _ config.Channel = (*ScriptedChannel)(nil)

// NewScriptedChannel creates a channel whose engine has not started yet.
func NewScriptedChannel() *ScriptedChannel {
	return &ScriptedChannel{inbound: make(chan config.Inbound, 256)}
}

// Start implements config.Channel.
func (s *ScriptedChannel) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.StartErr != nil {
		return s.StartErr
	}

	s.started = true

	return nil
}

// Inbound implements config.Channel.
func (s *ScriptedChannel) Inbound() <-chan config.Inbound {
	return s.inbound
}

// Send implements config.Channel.
func (s *ScriptedChannel) Send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return errors.ErrChannelClosed
	case !s.started:
		return errors.ErrChannelNotStarted
	}

	s.sent = append(s.sent, line)

	switch {
	case line == "uci":
		s.line(EngineIDLine)
		s.log(StderrLine)
		s.line("uciok")
	case line == "go infinite":
		s.searching = true
		s.line("info depth 1 score cp 20")
	case strings.HasPrefix(line, "go"):
		s.line("info depth 1 score cp 20")
		s.line("bestmove " + BoundedMove + " ponder e7e5")
	case line == "stop" && s.searching:
		s.searching = false
		s.line("bestmove " + StoppedMove)
	}

	return nil
}

func (s *ScriptedChannel) line(text string) {
	s.inbound <- config.Inbound{Kind: config.EngineLine, Text: text}
}

func (s *ScriptedChannel) log(text string) {
	s.inbound <- config.Inbound{Kind: config.LogEvent, Text: text}
}

// Err implements config.Channel. An orderly scripted engine never fails.
func (s *ScriptedChannel) Err() error {
	return nil
}

// Close implements config.Channel.
func (s *ScriptedChannel) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
		close(s.inbound)
	})

	return nil
}

// Sent returns every line sent so far, in order.
func (s *ScriptedChannel) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.sent)
}

// Closed reports whether Close was called.
func (s *ScriptedChannel) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
