// Package bridge serves engine sessions to browsers over WebSocket.
//
// Every WebSocket connection owns exactly one engine channel and one
// session controller for its whole life; nothing is shared between
// connections. Clients send "search" and "stop" messages and receive
// "state", "bestmove", "info" and "error" messages, plus a "ping" after a
// period of silence. GET /metrics serves Prometheus metrics for the server.
package bridge
