// Package subprocess provides the process-backed engine channel.
//
// ProcessChannel spawns a UCI engine as a child process and exchanges
// newline-delimited text over its stdin and stdout. Stderr lines are surfaced
// as log events. Outbound lines are queued and written by a dedicated
// goroutine, so Send never blocks on the engine.
package subprocess
