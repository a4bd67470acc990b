package ucisession

import (
	"log/slog"

	"github.com/wagiedev/uci-session-go/internal/mcp"
)

// MCPServer exposes a session as MCP tools: request_search, cancel_search,
// session_state and best_move. Run it with Serve (stdio) or Run.
type MCPServer = mcp.Server

// NewMCPServer creates an MCP server over s. A nil logger is silent.
//
// Example usage:
//
//	s := ucisession.NewSession(ucisession.WithEngine("stockfish"))
//	defer s.Close()
//	...
//	srv := ucisession.NewMCPServer(nil, s, "1.0.0")
//	if err := srv.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
func NewMCPServer(log *slog.Logger, s Session, version string) *MCPServer {
	if log == nil {
		log = NopLogger()
	}

	return mcp.NewServer(log, s, version)
}
