// Package errors defines error types for the UCI session library.
//
// This package provides structured error types for the failure scenarios of
// an engine session: a missing engine binary, a channel or process failure,
// unparseable engine output and events that arrive in the wrong state. All
// error types support error unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
