package config

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat = errors.New("unknown document format")
	ErrUnknownKey    = errors.New("unknown key")
	ErrTooLarge      = errors.New("document too large")

	// ErrUnknownGuard indicates a route referring to a guard missing from the Registry.
	ErrUnknownGuard = errors.New("unknown guard")

	// ErrDuplicateName indicates two routes declared under the same name.
	ErrDuplicateName = errors.New("duplicate route name")
)

// LoadError wraps a failure to load a document with its source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FieldError is a single failed validation rule.
type FieldError struct {
	Field string // Namespaced field, e.g. "File.Routes[0].Path"
	Rule  string
	Param string
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s fails %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s fails %s", e.Field, e.Rule)
}

// RouteError describes a problem with one route of a document.
type RouteError struct {
	Path string // Full path of the route
	Item string // Offending guard or name
	Err  error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %s: %v %q", e.Path, e.Err, e.Item)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}
