package uci

// Protocol tokens exchanged with the engine.
const (
	CmdUCI     = "uci"
	CmdStop    = "stop"
	CmdQuit    = "quit"
	TokenUCIOK = "uciok"
	TokenBest  = "bestmove"

	squareLength = 2
)

// Move is a move in coordinate notation as reported by the engine.
type Move struct {
	// From is the origin square, e.g. "e7".
	From string `json:"from"`

	// To is the destination square, e.g. "e8".
	To string `json:"to"`

	// Promotion is the promotion piece letter (n, b, r or q), or nil.
	Promotion *string `json:"promotion,omitempty"`
}

// String renders the move back into coordinate notation ("e7e8q").
func (m Move) String() string {
	if m.Promotion == nil {
		return m.From + m.To
	}

	return m.From + m.To + *m.Promotion
}

// EventKind discriminates the Event variants.
type EventKind int

const (
	// KindUnrecognized marks a line that matched no rule of the grammar.
	KindUnrecognized EventKind = iota
	// KindHandshakeComplete marks the "uciok" acknowledgement.
	KindHandshakeComplete
	// KindSearchResult marks a "bestmove" line.
	KindSearchResult
)

func (k EventKind) String() string {
	switch k {
	case KindHandshakeComplete:
		return "HandshakeComplete"
	case KindSearchResult:
		return "SearchResult"
	default:
		return "Unrecognized"
	}
}

// Event is the typed form of one inbound engine line.
//
// Exactly one variant is meaningful per Kind: Move for KindSearchResult and
// Raw for every kind (the original line, unmodified).
type Event struct {
	Kind EventKind
	Move Move
	Raw  string
}

// SearchRequest is the pair of lines that starts one search: the position
// setup followed by the go command. It is a value and is never mutated.
type SearchRequest struct {
	Setup string `json:"setup"`
	Go    string `json:"go"`
}

// Lines returns the two outbound lines in send order.
func (r SearchRequest) Lines() []string {
	return []string{r.Setup, r.Go}
}
