package route

import (
	"context"
	"sync"
)

// Outcome is what a guard decided about a pending navigation.
type Outcome int

const (
	OutcomeContinue Outcome = iota // Let the navigation proceed to the next guard
	OutcomeAbort                   // Stop the navigation and stay where we are
	OutcomeRedirect                // Stop the navigation and start a new one to Target
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeAbort:
		return "abort"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of a single guard.
type Decision struct {
	Outcome Outcome
	Target  Raw // Only meaningful for OutcomeRedirect
}

// Continue lets the navigation proceed.
func Continue() Decision {
	return Decision{Outcome: OutcomeContinue}
}

// Abort stops the navigation.
func Abort() Decision {
	return Decision{Outcome: OutcomeAbort}
}

// Redirect stops the navigation and navigates to target instead.
func Redirect(target Raw) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target}
}

// RedirectPath is Redirect for a string target.
func RedirectPath(target string) Decision {
	return Redirect(Path(target))
}

// Guard inspects a pending navigation from one location to another.
//
// A returned error is treated as a failure of the guard itself. It stops the
// navigation like an abort does but is reported as the error it is, never as a
// routing decision.
type Guard func(ctx context.Context, to, from *Location) (Decision, error)

// AfterHook is called once a navigation has been committed.
type AfterHook func(to, from *Location)

// AllowIf adapts a predicate into a guard that aborts when it returns false.
func AllowIf(allow func(to, from *Location) bool) Guard {
	return func(_ context.Context, to, from *Location) (Decision, error) {
		if allow(to, from) {
			return Continue(), nil
		}
		return Abort(), nil
	}
}

// Next is the continuation handed to callback style guards.
type Next func(Decision)

// NextGuard adapts a guard written in continuation style, where the guard calls
// next exactly once, possibly from another goroutine. Only the first call to next
// counts. If next is never called the guard waits until ctx is done.
func NextGuard(fn func(ctx context.Context, to, from *Location, next Next)) Guard {
	return func(ctx context.Context, to, from *Location) (Decision, error) {
		decided := make(chan Decision, 1)
		var once sync.Once
		next := func(d Decision) {
			once.Do(func() { decided <- d })
		}

		fn(ctx, to, from, next)

		select {
		case d := <-decided:
			return d, nil
		case <-ctx.Done():
			return Decision{}, ctx.Err()
		}
	}
}
