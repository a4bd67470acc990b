// Package session implements the engine session state machine and the
// controller that drives one engine channel through it.
//
// Machine is the pure transition table:
//
//	Event \ State      Off     Ready            Running                 Cancelling          Replacing
//	RequestSearch(q)   -       Running; q       Replacing; pending=q;   Replacing;          pending=q
//	                                            stop                    pending=q
//	CancelSearch()     -       -                Cancelling; stop        -                   Cancelling; pending=none
//	HandshakeComplete  Ready   -                -                       -                   -
//	SearchResult(m)    -       -                Ready; deliver m        Ready; discard m    Running; send pending
//
// Controller adds the I/O: it owns the channel, serializes caller intents
// with the event pump and dispatches callbacks.
package session
