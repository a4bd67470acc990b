package uci

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/wagiedev/uci-session-go/internal/errors"
)

// PositionStartpos builds "position startpos[ moves m1 m2 …]".
// Moves are not checked; use ValidateMoves or NewSearchFromMoves for that.
func PositionStartpos(moves ...string) string {
	return withMoves("position startpos", moves)
}

// PositionFEN builds "position fen <fen>[ moves m1 m2 …]".
func PositionFEN(fen string, moves ...string) string {
	return withMoves("position fen "+strings.TrimSpace(fen), moves)
}

func withMoves(prefix string, moves []string) string {
	if len(moves) == 0 {
		return prefix
	}

	return prefix + " moves " + strings.Join(moves, " ")
}

// GoInfinite builds "go infinite". The search runs until "stop".
func GoInfinite() string {
	return "go infinite"
}

// GoMovetime builds "go movetime <milliseconds>".
func GoMovetime(d time.Duration) string {
	return "go movetime " + strconv.FormatInt(d.Milliseconds(), 10)
}

// GoNodes builds "go nodes <count>".
func GoNodes(nodes int64) string {
	return "go nodes " + strconv.FormatInt(nodes, 10)
}

// SetOption builds "setoption name <name> value <value>".
func SetOption(name, value string) string {
	return fmt.Sprintf("setoption name %s value %s", name, value)
}

// SetOptions builds one setoption line per entry, ordered by option name.
func SetOptions(options map[string]string) []string {
	names := slices.Sorted(maps.Keys(options))

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, SetOption(name, options[name]))
	}

	return lines
}

// ValidateMoves checks that every move is in coordinate notation.
// Legality is not checked.
func ValidateMoves(moves []string) error {
	for _, m := range moves {
		if _, ok := ParseMove(m); !ok {
			return &errors.InvalidMoveError{Move: m}
		}
	}

	return nil
}

// NewSearch pairs a setup line and a go line into a SearchRequest.
func NewSearch(setup, goCmd string) (SearchRequest, error) {
	if !strings.HasPrefix(setup, "position ") {
		return SearchRequest{}, fmt.Errorf("setup line must start with \"position\": %q", setup)
	}

	if goCmd != "go" && !strings.HasPrefix(goCmd, "go ") {
		return SearchRequest{}, fmt.Errorf("go line must start with \"go\": %q", goCmd)
	}

	return SearchRequest{Setup: setup, Go: goCmd}, nil
}

// NewSearchFromMoves validates the move list and builds a search from the
// start position.
func NewSearchFromMoves(moves []string, goCmd string) (SearchRequest, error) {
	if err := ValidateMoves(moves); err != nil {
		return SearchRequest{}, err
	}

	return NewSearch(PositionStartpos(moves...), goCmd)
}

// SearchSpec describes a search in terms of a position and a limit. The zero
// value searches the start position until stopped.
type SearchSpec struct {
	// FEN is the root position. Empty means the start position.
	FEN string `json:"fen,omitempty"`

	// Moves are played from the root position, in coordinate notation.
	Moves []string `json:"moves,omitempty"`

	// Movetime limits the search by time. It takes precedence over Nodes.
	Movetime time.Duration `json:"movetime,omitempty"`

	// Nodes limits the search by node count.
	Nodes int64 `json:"nodes,omitempty"`
}

// Request validates the spec and builds its SearchRequest.
func (s SearchSpec) Request() (SearchRequest, error) {
	if err := ValidateMoves(s.Moves); err != nil {
		return SearchRequest{}, err
	}

	setup := PositionStartpos(s.Moves...)
	if strings.TrimSpace(s.FEN) != "" {
		setup = PositionFEN(s.FEN, s.Moves...)
	}

	var goCmd string

	switch {
	case s.Movetime < 0 || s.Nodes < 0:
		return SearchRequest{}, fmt.Errorf("search limits must not be negative")
	case s.Movetime > 0:
		goCmd = GoMovetime(s.Movetime)
	case s.Nodes > 0:
		goCmd = GoNodes(s.Nodes)
	default:
		goCmd = GoInfinite()
	}

	return NewSearch(setup, goCmd)
}
