package matcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch indicates that no configured route matches the target.
	ErrNoMatch = errors.New("no route matches")

	// ErrUnknownRoute indicates a named target whose name is not registered.
	ErrUnknownRoute = errors.New("unknown route name")

	// ErrMissingParam indicates a named or relative target lacking a required param.
	ErrMissingParam = errors.New("missing route param")

	// ErrInvalidPattern indicates a route path that cannot be compiled.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrDuplicateName indicates two routes registered under the same name.
	ErrDuplicateName = errors.New("duplicate route name")
)

// MatchError describes a target that could not be resolved.
type MatchError struct {
	Target string // Path, name or pattern that was being resolved
	Param  string // Offending param, if any
	Err    error  // One of the package sentinels
}

func (e *MatchError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("matcher: %v %q for %s", e.Err, e.Param, e.Target)
	}
	return fmt.Sprintf("matcher: %v: %s", e.Err, e.Target)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// PatternError is returned when a route path cannot be compiled.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("matcher: invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e *PatternError) Unwrap() error {
	return ErrInvalidPattern
}

// IsNoMatch reports whether err means the target matched no route.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
