package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config key (e.g. "session.stop_timeout")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))

	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}

	return sb.String()
}

// Validate checks the settings and returns every problem found.
func (s *Settings) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(s.Engine.Name) == "" && strings.TrimSpace(s.Engine.Path) == "" {
		errs = append(errs, ValidationError{
			Field:   "engine.name",
			Value:   s.Engine.Name,
			Message: "an engine name or path is required",
		})
	}

	for _, parse := range []func() (map[string]string, error){s.Engine.EngineOptions, s.Engine.Environment} {
		if _, err := parse(); err != nil {
			if verr, ok := errors.AsType[ValidationError](err); ok {
				errs = append(errs, verr)
			}
		}
	}

	for field, d := range map[string]int64{
		"session.handshake_timeout": int64(s.Session.HandshakeTimeout),
		"session.stop_timeout":      int64(s.Session.StopTimeout),
		"session.shutdown_timeout":  int64(s.Session.ShutdownTimeout),
		"serve.ping_interval":       int64(s.Serve.PingInterval),
	} {
		if d < 0 {
			errs = append(errs, ValidationError{Field: field, Value: d, Message: "must not be negative"})
		}
	}

	if strings.TrimSpace(s.Serve.Addr) == "" {
		errs = append(errs, ValidationError{Field: "serve.addr", Value: s.Serve.Addr, Message: "must not be empty"})
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.Log.Level)); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Value: s.Log.Level, Message: "must be debug, info, warn or error"})
	}

	if !slices.Contains([]string{"text", "json"}, s.Log.Format) {
		errs = append(errs, ValidationError{Field: "log.format", Value: s.Log.Format, Message: "must be text or json"})
	}

	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })

	return errs
}
