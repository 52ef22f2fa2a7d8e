package router

import (
	"errors"
	"fmt"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// Sentinel errors matched by NavigationError through errors.Is.
var (
	// ErrAborted indicates a guard stopped the navigation.
	// This is a normal routing outcome, not an infrastructure failure.
	ErrAborted = errors.New("navigation aborted")

	// ErrCancelled indicates a newer navigation superseded this one before it
	// could be committed.
	ErrCancelled = errors.New("navigation cancelled")

	// ErrRedirected indicates a guard sent the navigation somewhere else.
	// Push and Replace follow redirects themselves, so callers normally only
	// see this inside error handlers of custom pipelines.
	ErrRedirected = errors.New("navigation redirected")

	// ErrRedirectLoop indicates a chain of redirects longer than the router allows.
	ErrRedirectLoop = errors.New("too many redirects")

	// ErrClosed is returned by navigations started after Close.
	ErrClosed = errors.New("router is closed")
)

// FailureKind classifies a NavigationError.
type FailureKind int

const (
	KindAborted      FailureKind = iota // A guard returned route.Abort
	KindCancelled                       // A newer navigation started first
	KindRedirected                      // A guard returned route.Redirect
	KindFailed                          // A guard returned an error or the context ended
	KindRedirectLoop                    // The redirect hop limit was reached
	KindUnmatched                       // The target could not be resolved
)

func (k FailureKind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindCancelled:
		return "cancelled"
	case KindRedirected:
		return "redirected"
	case KindFailed:
		return "failed"
	case KindRedirectLoop:
		return "redirect_loop"
	case KindUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

// NavigationError describes why a navigation did not commit.
type NavigationError struct {
	Kind FailureKind
	To   *route.Location // Target of the failed navigation; nil when it never resolved
	From *route.Location // Current location when the failure was detected

	// Superseding is the pending location that replaced To. Set for KindCancelled.
	Superseding *route.Location

	// Redirect is where a guard asked to go. Set for KindRedirected and, when
	// the limit was hit by a guard, KindRedirectLoop.
	Redirect route.Raw

	// Phase is the guard phase that stopped the navigation.
	Phase Phase

	// Err is the underlying error: the guard's own error for KindFailed, the
	// matcher error for KindUnmatched.
	Err error
}

func (e *NavigationError) Error() string {
	switch e.Kind {
	case KindAborted:
		return fmt.Sprintf("router: navigation from %s to %s aborted by %s guard", e.From, e.To, e.Phase)
	case KindCancelled:
		return fmt.Sprintf("router: navigation to %s cancelled by newer navigation to %s", e.To, e.Superseding)
	case KindRedirected:
		return fmt.Sprintf("router: navigation to %s redirected to %s by %s guard", e.To, rawString(e.Redirect), e.Phase)
	case KindRedirectLoop:
		return fmt.Sprintf("router: %v navigating to %s", ErrRedirectLoop, e.To)
	case KindUnmatched:
		return fmt.Sprintf("router: cannot resolve target: %v", e.Err)
	default:
		return fmt.Sprintf("router: navigation to %s failed in %s guard: %v", e.To, e.Phase, e.Err)
	}
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels against the failure kind.
func (e *NavigationError) Is(target error) bool {
	switch target {
	case ErrAborted:
		return e.Kind == KindAborted
	case ErrCancelled:
		return e.Kind == KindCancelled
	case ErrRedirected:
		return e.Kind == KindRedirected
	case ErrRedirectLoop:
		return e.Kind == KindRedirectLoop
	}
	return false
}

// IsCancelled reports whether err is a navigation superseded by a newer one.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsAborted reports whether err is a navigation stopped by a guard.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// IsRedirect reports whether err is a guard redirect.
func IsRedirect(err error) bool {
	return errors.Is(err, ErrRedirected)
}

// FailureOf extracts the NavigationError from err.
func FailureOf(err error) (*NavigationError, bool) {
	var nerr *NavigationError
	if errors.As(err, &nerr) {
		return nerr, true
	}
	return nil, false
}

func rawString(r route.Raw) string {
	switch {
	case r.Path != "":
		return route.StringifyURL(r.Path, r.Query, r.Hash)
	case r.Name != "":
		return fmt.Sprintf("route %q", r.Name)
	default:
		return "relative location"
	}
}
