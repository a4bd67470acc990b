package session

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/errors"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

// mockChannel implements config.Channel for testing. Outbound lines are
// recorded; inbound lines are injected with emit. When a simulated engine is
// attached, every sent line is also handed to it in order.
type mockChannel struct {
	mu       sync.Mutex
	sent     []string
	startErr error
	sendErr  error
	err      error
	started  bool
	closed   bool
	inbound  chan config.Inbound
	engine   *simEngine

	closeOnce sync.Once
}

var _ config.Channel = (*mockChannel)(nil)

func newMockChannel() *mockChannel {
	return &mockChannel{inbound: make(chan config.Inbound, 1024)}
}

func (m *mockChannel) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	if m.engine != nil {
		go m.engine.run(m)
	}

	return nil
}

func (m *mockChannel) Inbound() <-chan config.Inbound {
	return m.inbound
}

func (m *mockChannel) Send(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.sendErr != nil:
		return m.sendErr
	case m.closed:
		return errors.ErrChannelClosed
	case !m.started:
		return errors.ErrChannelNotStarted
	}

	m.sent = append(m.sent, line)

	if m.engine != nil {
		m.engine.in <- line
	}

	return nil
}

func (m *mockChannel) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.err
}

func (m *mockChannel) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		engine := m.engine
		m.mu.Unlock()

		if engine != nil {
			close(engine.in)
			<-engine.stopped
		}

		close(m.inbound)
	})

	return nil
}

// emit injects engine lines through the inbound channel.
func (m *mockChannel) emit(lines ...string) {
	for _, line := range lines {
		m.inbound <- config.Inbound{Kind: config.EngineLine, Text: line}
	}
}

// die terminates the channel with err, as a crashed engine would.
func (m *mockChannel) die(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()

	_ = m.Close()
}

func (m *mockChannel) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.sent)
}

func (m *mockChannel) count(line string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0

	for _, s := range m.sent {
		if s == line {
			n++
		}
	}

	return n
}

// simEngine is a minimal engine: it answers "uci" with "uciok", finishes
// "go nodes"/"go movetime" searches at once and "go infinite" searches on
// "stop". It records protocol violations a real engine would trip over.
type simEngine struct {
	in      chan string
	stopped chan struct{}

	mu         sync.Mutex
	searching  bool
	searches   int
	violations []string
}

func newSimEngine() *simEngine {
	return &simEngine{
		in:      make(chan string, 1<<16),
		stopped: make(chan struct{}),
	}
}

func (e *simEngine) run(m *mockChannel) {
	defer close(e.stopped)

	for line := range e.in {
		for _, reply := range e.handle(line) {
			m.inbound <- config.Inbound{Kind: config.EngineLine, Text: reply}
		}
	}
}

func (e *simEngine) handle(line string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case line == uci.CmdUCI:
		return []string{"id name sim", "uciok"}

	case strings.HasPrefix(line, "position "):
		if e.searching {
			e.violations = append(e.violations, "position during search")
		}

	case strings.HasPrefix(line, "go"):
		if e.searching {
			e.violations = append(e.violations, "go during search")
		}

		e.searches++

		if line == uci.GoInfinite() {
			e.searching = true

			return []string{"info depth 1"}
		}

		return []string{"info depth 1", "bestmove e2e4"}

	case line == uci.CmdStop:
		if !e.searching {
			e.violations = append(e.violations, "stop with no search")

			return nil
		}

		e.searching = false

		return []string{"bestmove d2d4"}
	}

	return nil
}

func (e *simEngine) Violations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return slices.Clone(e.violations)
}
