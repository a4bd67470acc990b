package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/session"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

const (
	sendBufferSize = 64
	maxMessageSize = 64 * 1024
	writeWait      = 10 * time.Second
)

// client is one WebSocket connection and the session it owns.
type client struct {
	log          *slog.Logger
	conn         *websocket.Conn
	send         chan []byte
	ctx          context.Context
	pingInterval time.Duration
	metrics      *metrics
	session      *session.Controller
}

// post queues a message for the writer. It gives up once the connection is
// gone, so callbacks never block a session that outlives its socket.
func (c *client) post(typ string, payload any) {
	data, err := encode(typ, payload)
	if err != nil {
		c.log.Error("Failed to encode message", "type", typ, "error", err)

		return
	}

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	}
}

func (c *client) postError(err error, fatal bool) {
	c.post(TypeError, ErrorPayload{Message: err.Error(), Fatal: fatal})
}

// attach wires the session callbacks to the socket.
func (c *client) attach(options *config.Options) {
	options.OnResult = func(m uci.Move) {
		c.metrics.results.Inc()
		c.post(TypeBestMove, BestMovePayload{Move: m.String(), Raw: m})
	}

	options.OnLine = func(in config.Inbound) {
		c.post(TypeInfo, InfoPayload{Kind: in.Kind.String(), Line: in.Text})
	}

	options.OnStateChange = func(from, to config.State) {
		c.metrics.RecordTransition(to.String())
		c.post(TypeState, StatePayload{From: from, To: to})
	}

	options.OnError = func(err error) {
		c.metrics.failures.Inc()
		c.postError(err, true)
	}
}

// writeLoop drains the send queue and pings an idle peer.
func (c *client) writeLoop() error {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	lastWrite := time.Now()

	ping, err := encode(TypePing, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-c.ctx.Done():
			return nil

		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return err
			}

			lastWrite = time.Now()

		case <-ticker.C:
			if time.Since(lastWrite) < c.pingInterval {
				continue
			}

			if err := c.write(ping); err != nil {
				return err
			}

			lastWrite = time.Now()
		}
	}
}

func (c *client) write(msg []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// readLoop applies client messages to the session until the peer goes away.
func (c *client) readLoop() error {
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("WebSocket read failed", "error", err)
			}

			return nil
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.postError(errors.New("malformed message"), false)

			continue
		}

		c.handle(msg)
	}
}

func (c *client) handle(msg wsMessage) {
	switch msg.Type {
	case TypeSearch:
		var p SearchPayload

		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.postError(errors.New("malformed search payload"), false)

				return
			}
		}

		q, err := p.Request()
		if err != nil {
			c.postError(err, false)

			return
		}

		if err := c.session.RequestSearch(q); err != nil {
			c.postError(err, false)

			return
		}

		c.metrics.RecordRequest(TypeSearch)

	case TypeStop:
		if err := c.session.CancelSearch(); err != nil {
			c.postError(err, false)

			return
		}

		c.metrics.RecordRequest(TypeStop)

	case TypeStatus:
		c.post(TypeStatus, c.status())

	case TypePing:
		// keepalive

	default:
		c.log.Debug("Unknown message type", "type", msg.Type)
		c.postError(errors.New("unknown message type: "+msg.Type), false)
	}
}

func (c *client) status() StatusPayload {
	st := StatusPayload{State: c.session.State()}

	if q, ok := c.session.Pending(); ok {
		st.Pending = &q
	}

	if m, ok := c.session.LastResult(); ok {
		st.LastResult = m.String()
	}

	return st
}
