package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/uci-session-go/internal/config"
	"github.com/wagiedev/uci-session-go/internal/uci"
)

const (
	// DefaultName is the implementation name announced to MCP clients.
	DefaultName = "ucisession"

	// maxWait caps the best_move wait.
	maxWait = 5 * time.Minute

	pollInterval = 20 * time.Millisecond
)

// Session is the part of an engine session the tools drive.
type Session interface {
	RequestSearch(q uci.SearchRequest) error
	CancelSearch() error
	State() config.State
	Pending() (uci.SearchRequest, bool)
	LastResult() (uci.Move, bool)
}

// Status is the session_state tool result.
type Status struct {
	State      config.State       `json:"state"`
	Pending    *uci.SearchRequest `json:"pending,omitempty"`
	LastResult string             `json:"last_result,omitempty"`
}

// BestMove is the best_move tool result. Complete is false when the wait
// ended with a search still in flight; Move is then the previous result.
type BestMove struct {
	State    config.State `json:"state"`
	Move     string       `json:"move,omitempty"`
	Complete bool         `json:"complete"`
}

type searchArgs struct {
	FEN        string   `json:"fen"`
	Moves      []string `json:"moves"`
	MovetimeMS int64    `json:"movetime_ms"`
	Nodes      int64    `json:"nodes"`
}

type bestMoveArgs struct {
	WaitMS int64 `json:"wait_ms"`
}

// Server serves one session's tools over an MCP transport.
type Server struct {
	log     *slog.Logger
	session Session
	server  *mcp.Server
}

// NewServer creates a server exposing session. An empty version reports
// "dev".
func NewServer(log *slog.Logger, session Session, version string) *Server {
	if version == "" {
		version = "dev"
	}

	log = log.With("component", "mcp_server")

	s := &Server{
		log:     log,
		session: session,
		server: mcp.NewServer(
			&mcp.Implementation{Name: DefaultName, Version: version},
			&mcp.ServerOptions{Logger: log},
		),
	}

	for _, def := range s.tools() {
		tool, err := NewTool(def.name, def.description, def.params...)
		if err != nil {
			// Static definitions; AddTool panics on bad schemas too.
			panic(err)
		}

		s.server.AddTool(tool, def.handler)
	}

	return s
}

type toolDef struct {
	name        string
	description string
	params      []Param
	handler     mcp.ToolHandler
}

func (s *Server) tools() []toolDef {
	return []toolDef{
		{
			name:        "request_search",
			description: "Search a position. A search already in flight is stopped and replaced; its result is discarded.",
			params: []Param{
				{Name: "fen", Type: "string", Description: "Root position in FEN. Omit for the standard start position."},
				{Name: "moves", Type: "[]string", Description: "Moves from the root in coordinate notation, e.g. [\"e2e4\", \"e7e5\"]."},
				{Name: "movetime_ms", Type: "int64", Description: "Search time in milliseconds.", Default: 0},
				{Name: "nodes", Type: "int64", Description: "Node limit. Used when movetime_ms is 0; with neither the search is infinite.", Default: 0},
			},
			handler: s.requestSearch,
		},
		{
			name:        "cancel_search",
			description: "Stop the search in flight and drop any queued replacement. The stopped search's result is discarded.",
			handler:     s.cancelSearch,
		},
		{
			name:        "session_state",
			description: "Report the session state, the queued replacement search and the last delivered best move.",
			handler:     s.sessionState,
		},
		{
			name:        "best_move",
			description: "Wait up to wait_ms for the search in flight to finish, then report the last delivered best move.",
			params: []Param{
				{Name: "wait_ms", Type: "int64", Description: "Longest wait in milliseconds, capped at five minutes.", Default: 0},
			},
			handler: s.bestMove,
		},
	}
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves the tools over t until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.log.Info("Serving MCP tools")

	if err := s.server.Run(ctx, t); err != nil {
		return fmt.Errorf("run mcp server: %w", err)
	}

	return nil
}

// Serve runs the server over stdin and stdout.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) requestSearch(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := ParseArguments(req, &args); err != nil {
		return ErrorResult(err.Error()), nil
	}

	q, err := uci.SearchSpec{
		FEN:      args.FEN,
		Moves:    args.Moves,
		Movetime: time.Duration(args.MovetimeMS) * time.Millisecond,
		Nodes:    args.Nodes,
	}.Request()
	if err != nil {
		return ErrorResult(err.Error()), nil
	}

	if err := s.session.RequestSearch(q); err != nil {
		s.log.Warn("request_search failed", "error", err)

		return ErrorResult(err.Error()), nil
	}

	s.log.Debug("request_search", "setup", q.Setup, "go", q.Go)

	return JSONResult(s.status())
}

func (s *Server) cancelSearch(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.session.CancelSearch(); err != nil {
		s.log.Warn("cancel_search failed", "error", err)

		return ErrorResult(err.Error()), nil
	}

	return JSONResult(s.status())
}

func (s *Server) sessionState(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return JSONResult(s.status())
}

func (s *Server) bestMove(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args bestMoveArgs
	if err := ParseArguments(req, &args); err != nil {
		return ErrorResult(err.Error()), nil
	}

	wait := min(time.Duration(max(args.WaitMS, 0))*time.Millisecond, maxWait)

	state := s.waitIdle(ctx, wait)

	out := BestMove{State: state, Complete: !state.Busy()}
	if move, ok := s.session.LastResult(); ok {
		out.Move = move.String()
	}

	return JSONResult(out)
}

// waitIdle polls the session until no search is in flight, wait elapses or
// ctx is done, and returns the last observed state.
func (s *Server) waitIdle(ctx context.Context, wait time.Duration) config.State {
	state := s.session.State()
	if !state.Busy() || wait <= 0 {
		return state
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.session.State()
		case <-timer.C:
			return s.session.State()
		case <-ticker.C:
			if state = s.session.State(); !state.Busy() {
				return state
			}
		}
	}
}

func (s *Server) status() Status {
	st := Status{State: s.session.State()}

	if q, ok := s.session.Pending(); ok {
		st.Pending = &q
	}

	if move, ok := s.session.LastResult(); ok {
		st.LastResult = move.String()
	}

	return st
}
