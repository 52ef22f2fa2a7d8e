package waypoint

import (
	"errors"
	"fmt"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Navigation outcomes that callers routinely check for.
var (
	// ErrCancelled indicates a newer navigation superseded this one.
	// This is a normal flow control error, not a failure.
	ErrCancelled = router.ErrCancelled

	// ErrAborted indicates a guard stopped the navigation.
	ErrAborted = router.ErrAborted
)

// SetupError represents a failure to build a Navigator: a route document that
// does not load, a guard missing from the registry or a route table the
// matcher rejects. Navigation failures are never SetupErrors.
type SetupError struct {
	Op  string // Operation that failed (e.g., "load", "routes", "matcher")
	Err error  // Underlying error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("waypoint: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("waypoint: %s", e.Op)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// NewSetupError creates a new setup error.
func NewSetupError(op string, err error) *SetupError {
	return &SetupError{Op: op, Err: err}
}

// IsSetupError checks if an error is a setup error.
func IsSetupError(err error) bool {
	var setupErr *SetupError
	return errors.As(err, &setupErr)
}

// IsCancelled checks if an error is a superseded navigation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsAborted checks if an error is a navigation stopped by a guard.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
