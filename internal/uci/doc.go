// Package uci implements the line grammar of the Universal Chess Interface as
// seen from the GUI side of a session.
//
// Inbound engine lines are classified by Parse into exactly one Event:
//
//	uciok                      -> HandshakeComplete
//	bestmove e7e8q ponder d1d2 -> SearchResult{Move: e7-e8=q}
//	info depth 12 nodes 500    -> Unrecognized
//
// Outbound lines are produced by the command builders:
//
//	req, err := uci.NewSearch(uci.PositionStartpos("e2e4", "e7e5"), uci.GoMovetime(time.Second))
//	// req.Setup == "position startpos moves e2e4 e7e5"
//	// req.Go    == "go movetime 1000"
package uci
