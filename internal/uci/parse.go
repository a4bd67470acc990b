package uci

import (
	"strings"
)

// Parse classifies one inbound engine line.
//
// The grammar is:
//
//	line      = handshake | result | other
//	handshake = "uciok" [ " " rest ]
//	result    = "bestmove" " " move [ " " rest ]
//	move      = square square [ promotion ]
//	square    = file rank
//	file      = "a" … "h"
//	rank      = "1" … "8"
//	promotion = "n" | "b" | "r" | "q"
//
// Matching is case-sensitive. A line matching neither rule is returned as
// KindUnrecognized with Raw set; Parse never fails.
func Parse(line string) Event {
	if head, _, _ := strings.Cut(line, " "); head == TokenUCIOK {
		return Event{Kind: KindHandshakeComplete, Raw: line}
	}

	rest, ok := strings.CutPrefix(line, TokenBest+" ")
	if !ok {
		return Event{Kind: KindUnrecognized, Raw: line}
	}

	token, _, _ := strings.Cut(rest, " ")

	move, ok := ParseMove(token)
	if !ok {
		return Event{Kind: KindUnrecognized, Raw: line}
	}

	return Event{Kind: KindSearchResult, Move: move, Raw: line}
}

// ParseMove parses a single coordinate move token such as "e2e4" or "e7e8q".
// The second result is false when the token does not match the move rule.
func ParseMove(token string) (Move, bool) {
	if len(token) != 2*squareLength && len(token) != 2*squareLength+1 {
		return Move{}, false
	}

	from, to := token[:squareLength], token[squareLength:2*squareLength]
	if !isSquare(from) || !isSquare(to) {
		return Move{}, false
	}

	move := Move{From: from, To: to}

	if len(token) == 2*squareLength+1 {
		p := token[2*squareLength]
		if !isPromotion(p) {
			return Move{}, false
		}

		promo := string(p)
		move.Promotion = &promo
	}

	return move, true
}

func isSquare(s string) bool {
	return len(s) == squareLength && isFile(s[0]) && isRank(s[1])
}

func isFile(b byte) bool {
	return b >= 'a' && b <= 'h'
}

func isRank(b byte) bool {
	return b >= '1' && b <= '8'
}

func isPromotion(b byte) bool {
	switch b {
	case 'n', 'b', 'r', 'q':
		return true
	default:
		return false
	}
}
