// Package mcp exposes an engine session as Model Context Protocol tools.
//
// The server wraps the official MCP SDK server and registers four tools
// over one session: request_search, cancel_search, session_state and
// best_move. Intents are forwarded unchanged, so the session's replacement
// and cancellation rules apply to tool calls exactly as they do to direct
// callers.
package mcp
