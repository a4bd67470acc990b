package config

// State is the lifecycle state of an engine session. Exactly one state holds
// at a time.
type State int

const (
	// Off means the engine has not acknowledged the handshake, or the session
	// has ended.
	Off State = iota
	// Ready means the engine is idle and accepts a search.
	Ready
	// Running means exactly one search is in flight with no stop sent.
	Running
	// Cancelling means a stop was sent and the result will be discarded.
	Cancelling
	// Replacing means a stop was sent and a pending search is queued behind it.
	Replacing
)

func (s State) String() string {
	switch s {
	case Off:
		return "Off"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Cancelling:
		return "Cancelling"
	case Replacing:
		return "Replacing"
	default:
		return "Unknown"
	}
}

// Busy reports whether a search is in flight.
func (s State) Busy() bool {
	return s == Running || s == Cancelling || s == Replacing
}

// MarshalText renders the state name, so states read naturally in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
