package config

import "context"

// Channel is the asynchronous, ordered transport to one engine.
//
// Send never blocks on the engine and never confirms delivery. Inbound
// yields every engine output line exactly once, in the order the engine
// produced it, and is closed when the channel terminates; Err then reports
// why (nil after an orderly Close). A terminated channel is not reusable.
//
// The default implementation is subprocess.ProcessChannel, which spawns the
// engine binary. Custom channels can be injected via Options.Channel for
// testing or for engines reached some other way.
type Channel interface {
	// Start brings the channel up. A failure here means the engine is
	// unavailable; no lines will ever be delivered.
	Start(ctx context.Context) error

	// Inbound returns the channel of inbound events. It is the same channel
	// on every call.
	Inbound() <-chan Inbound

	// Send queues one outbound line. It returns an error only when the
	// channel is not started or has terminated.
	Send(line string) error

	// Err returns the terminal error once Inbound is closed.
	Err() error

	// Close terminates the channel and releases resources.
	// It's safe to call Close multiple times.
	Close() error
}

// InboundKind discriminates the Inbound variants.
type InboundKind int

const (
	// EngineLine is a line from the engine's protocol stream.
	EngineLine InboundKind = iota
	// LogEvent is diagnostic output from the engine host (stderr, loader
	// messages). It never reaches the protocol parser.
	LogEvent
)

func (k InboundKind) String() string {
	if k == LogEvent {
		return "log"
	}

	return "engine"
}

// Inbound is one message received from the channel, resolved once at the
// channel boundary into either an engine line or a log event.
type Inbound struct {
	Kind InboundKind
	Text string
}
