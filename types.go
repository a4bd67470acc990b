package ucisession

import (
	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/engines"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

// Options configures a session. Build it with the With* options.
type Options = config.Options

// State is the lifecycle state of a session.
type State = config.State

const (
	// StateOff means no handshake yet, or the session has ended.
	StateOff = config.Off
	// StateReady means the engine is idle.
	StateReady = config.Ready
	// StateRunning means one search is in flight.
	StateRunning = config.Running
	// StateCancelling means the search in flight was stopped and its result
	// will be discarded.
	StateCancelling = config.Cancelling
	// StateReplacing means the search in flight was stopped and a pending
	// search will follow it.
	StateReplacing = config.Replacing
)

// Move is a move in coordinate notation.
type Move = uci.Move

// SearchRequest pairs the position setup line with the go line.
type SearchRequest = uci.SearchRequest

// SearchSpec describes a search by position and limit.
type SearchSpec = uci.SearchSpec

// Event is the typed form of one engine line.
type Event = uci.Event

// EventKind discriminates Event variants.
type EventKind = uci.EventKind

const (
	// KindUnrecognized marks a line outside the session grammar.
	KindUnrecognized = uci.KindUnrecognized
	// KindHandshakeComplete marks "uciok".
	KindHandshakeComplete = uci.KindHandshakeComplete
	// KindSearchResult marks "bestmove".
	KindSearchResult = uci.KindSearchResult
)

// Engine is a catalog entry describing a known engine.
type Engine = engines.Engine

// Engines returns the engine catalog.
func Engines() []Engine {
	return engines.All()
}

// ParseLine parses one engine line.
func ParseLine(line string) Event {
	return uci.Parse(line)
}

// ParseMove parses a move in coordinate notation.
func ParseMove(token string) (Move, bool) {
	return uci.ParseMove(token)
}

// Position and go builders.
var (
	PositionStartpos   = uci.PositionStartpos
	PositionFEN        = uci.PositionFEN
	GoInfinite         = uci.GoInfinite
	GoMovetime         = uci.GoMovetime
	GoNodes            = uci.GoNodes
	NewSearch          = uci.NewSearch
	NewSearchFromMoves = uci.NewSearchFromMoves
	ValidateMoves      = uci.ValidateMoves
)
