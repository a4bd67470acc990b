package bridge

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

// Message types exchanged over the socket.
const (
	TypeSearch   = "search"
	TypeStop     = "stop"
	TypeStatus   = "status"
	TypeState    = "state"
	TypeBestMove = "bestmove"
	TypeInfo     = "info"
	TypeError    = "error"
	TypePing     = "ping"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SearchPayload is the body of a "search" message.
type SearchPayload struct {
	FEN        string   `json:"fen,omitempty"`
	Moves      []string `json:"moves,omitempty"`
	MovetimeMS int64    `json:"movetime_ms,omitempty"`
	Nodes      int64    `json:"nodes,omitempty"`
}

// Request builds the search request the payload describes.
func (p SearchPayload) Request() (uci.SearchRequest, error) {
	return uci.SearchSpec{
		FEN:      p.FEN,
		Moves:    p.Moves,
		Movetime: time.Duration(p.MovetimeMS) * time.Millisecond,
		Nodes:    p.Nodes,
	}.Request()
}

// StatePayload is the body of a "state" message.
type StatePayload struct {
	From config.State `json:"from"`
	To   config.State `json:"to"`
}

// StatusPayload is the body of a "status" reply.
type StatusPayload struct {
	State      config.State       `json:"state"`
	Pending    *uci.SearchRequest `json:"pending,omitempty"`
	LastResult string             `json:"last_result,omitempty"`
}

// BestMovePayload is the body of a "bestmove" message.
type BestMovePayload struct {
	Move string   `json:"move"`
	Raw  uci.Move `json:"raw"`
}

// InfoPayload is the body of an "info" message: one engine line or log
// event, unmodified.
type InfoPayload struct {
	Kind string `json:"kind"`
	Line string `json:"line"`
}

// ErrorPayload is the body of an "error" message. Fatal errors end the
// connection's session.
type ErrorPayload struct {
	Message string `json:"message"`
	Fatal   bool   `json:"fatal,omitempty"`
}

func encode(typ string, payload any) ([]byte, error) {
	msg := wsMessage{Type: typ}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
		}

		msg.Payload = raw
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %s message: %w", typ, err)
	}

	return data, nil
}
