package session

import (
	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

// Outcome describes the effects of one transition.
type Outcome struct {
	// Send lists the outbound lines, in order.
	Send []string

	// Ignored is set when the input does not apply to the current state.
	Ignored bool

	// Deliver is set when the search result belongs to the caller.
	Deliver bool

	// Started is set when a new search was sent to the engine.
	Started bool

	// Stopped is set when "stop" was sent for the in-flight search.
	Stopped bool

	// Finished is set when the in-flight search produced its result.
	Finished bool

	// Dropped is set when a pending request was overwritten or cleared
	// without ever being sent.
	Dropped bool
}

// Machine is the session state machine with no I/O attached. Every method
// applies one transition and reports its effects; the caller performs them.
//
// The zero value is a machine in Off with an empty pending slot.
// A Machine is not safe for concurrent use.
type Machine struct {
	state   config.State
	pending *uci.SearchRequest
}

// State returns the current state.
func (m *Machine) State() config.State {
	return m.state
}

// Pending returns the queued replacement request, if any.
func (m *Machine) Pending() (uci.SearchRequest, bool) {
	if m.pending == nil {
		return uci.SearchRequest{}, false
	}

	return *m.pending, true
}

// Reset returns the machine to Off and clears the pending slot.
func (m *Machine) Reset() {
	m.state = config.Off
	m.pending = nil
}

// RequestSearch applies the caller's intent to search q.
func (m *Machine) RequestSearch(q uci.SearchRequest) Outcome {
	switch m.state {
	case config.Ready:
		m.state = config.Running

		return Outcome{Send: q.Lines(), Started: true}

	case config.Running:
		m.state = config.Replacing
		m.pending = &q

		return Outcome{Send: []string{uci.CmdStop}, Stopped: true}

	case config.Cancelling:
		m.state = config.Replacing
		m.pending = &q

		return Outcome{}

	case config.Replacing:
		m.pending = &q

		return Outcome{Dropped: true}

	default:
		return Outcome{Ignored: true}
	}
}

// CancelSearch applies the caller's intent to abandon the current search.
func (m *Machine) CancelSearch() Outcome {
	switch m.state {
	case config.Running:
		m.state = config.Cancelling

		return Outcome{Send: []string{uci.CmdStop}, Stopped: true}

	case config.Replacing:
		m.state = config.Cancelling
		m.pending = nil

		return Outcome{Dropped: true}

	default:
		return Outcome{Ignored: true}
	}
}

// HandshakeComplete applies the engine's "uciok".
func (m *Machine) HandshakeComplete() Outcome {
	if m.state != config.Off {
		return Outcome{Ignored: true}
	}

	m.state = config.Ready

	return Outcome{}
}

// SearchResult applies the engine's "bestmove".
func (m *Machine) SearchResult() Outcome {
	switch m.state {
	case config.Running:
		m.state = config.Ready

		return Outcome{Deliver: true, Finished: true}

	case config.Cancelling:
		m.state = config.Ready

		return Outcome{Finished: true}

	case config.Replacing:
		next := *m.pending
		m.state = config.Running
		m.pending = nil

		return Outcome{Send: next.Lines(), Finished: true, Started: true}

	default:
		return Outcome{Ignored: true}
	}
}
