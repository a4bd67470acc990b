package ucisession

import "github.com/wagiedev/uci-session-go/internal/config"

// Channel is the line-oriented duplex link to one engine.
// Implement this to drive a session against something other than a local
// process, such as a remote engine or a test double.
//
// The default implementation spawns the engine as a subprocess.
// Custom channels are injected with WithChannel.
type Channel = config.Channel

// Inbound is one item read from a Channel: an engine line or a log event.
type Inbound = config.Inbound

// InboundKind tags an Inbound item.
type InboundKind = config.InboundKind

const (
	// EngineLine is a line the engine wrote to its protocol stream.
	EngineLine = config.EngineLine

	// LogEvent is diagnostic output, such as engine stderr.
	LogEvent = config.LogEvent
)
