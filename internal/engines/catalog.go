// Package engines provides a catalog of known UCI engines: the binary names
// to search for, the aliases accepted on the command line and the options a
// session sends after the handshake.
package engines

import (
	"maps"
	"slices"
	"strings"
)

// Requirement names an engine option a session cannot run without.
type Requirement string

const (
	// RequiresWeights indicates the engine needs a network weights file
	// (the "WeightsFile" option) before it can search.
	RequiresWeights Requirement = "WeightsFile"
)

// Engine holds metadata for a single engine.
type Engine struct {
	// ID is the catalog identifier (e.g. "lc0").
	ID string `json:"id"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Aliases are shorthand names accepted by the CLI (e.g. "leela").
	Aliases []string `json:"aliases,omitempty"`

	// Binaries are the executable names searched in PATH, in order.
	Binaries []string `json:"binaries"`

	// DefaultOptions are sent as setoption lines unless overridden.
	DefaultOptions map[string]string `json:"default_options,omitempty"`

	// Requires lists options that must be supplied by the caller.
	Requires []Requirement `json:"requires,omitempty"`
}

// Options merges the catalog defaults with caller overrides.
func (e Engine) Options(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(e.DefaultOptions)+len(overrides))
	maps.Copy(out, e.DefaultOptions)
	maps.Copy(out, overrides)

	return out
}

// Missing returns the required options absent from opts.
func (e Engine) Missing(opts map[string]string) []Requirement {
	var out []Requirement

	for _, r := range e.Requires {
		if opts[string(r)] == "" {
			out = append(out, r)
		}
	}

	return out
}

// All returns a copy of every known engine in the catalog.
func All() []Engine {
	out := make([]Engine, len(registry))
	copy(out, registry)

	return out
}

// ByID looks up an engine by its identifier. It checks in order:
//  1. Exact match on ID
//  2. Alias match
//  3. Binary name match (case-insensitive, for paths like "/opt/Stockfish")
//
// Returns nil if no engine is found.
func ByID(id string) *Engine {
	for i := range registry {
		if registry[i].ID == id {
			e := registry[i]

			return &e
		}
	}

	for i := range registry {
		if slices.Contains(registry[i].Aliases, id) {
			e := registry[i]

			return &e
		}
	}

	lower := strings.ToLower(id)

	for i := range registry {
		if slices.Contains(registry[i].Binaries, lower) {
			e := registry[i]

			return &e
		}
	}

	return nil
}

// Default returns the engine used when none is configured.
func Default() Engine {
	return *ByID(DefaultID)
}

// Resolve returns the catalog entry for name. An empty name selects the
// default engine; an unknown name is treated as a bare binary name with no
// default options.
func Resolve(name string) Engine {
	if name == "" {
		return Default()
	}

	if e := ByID(name); e != nil {
		return *e
	}

	return Engine{ID: name, Name: name, Binaries: []string{name}}
}
