package engines

// DefaultID is the engine used when none is configured.
const DefaultID = "stockfish"

// registry is the internal list of all known engines.
var registry = []Engine{
	{
		ID:       "stockfish",
		Name:     "Stockfish",
		Aliases:  []string{"sf"},
		Binaries: []string{"stockfish"},
	},
	{
		ID:       "lc0",
		Name:     "Leela Chess Zero",
		Aliases:  []string{"leela", "lczero"},
		Binaries: []string{"lc0"},
		DefaultOptions: map[string]string{
			"Threads": "2",
		},
		Requires: []Requirement{RequiresWeights},
	},
	{
		ID:       "fairy-stockfish",
		Name:     "Fairy-Stockfish",
		Aliases:  []string{"fairy"},
		Binaries: []string{"fairy-stockfish"},
		DefaultOptions: map[string]string{
			"UCI_Variant": "chess",
		},
	},
}
