package router

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// Phase identifies a stage of the guard pipeline.
type Phase int

const (
	PhaseNone        Phase = iota
	PhaseLeave             // Leave guards of records being left, leaf to root
	PhaseBeforeEach        // Global guards, in registration order
	PhaseUpdate            // Update guards of records reused by the target
	PhaseBeforeEnter       // BeforeEnter guards of records being entered, root to leaf
	PhaseEnter             // Enter guards of records being entered
)

func (p Phase) String() string {
	switch p {
	case PhaseLeave:
		return "leave"
	case PhaseBeforeEach:
		return "before_each"
	case PhaseUpdate:
		return "update"
	case PhaseBeforeEnter:
		return "before_enter"
	case PhaseEnter:
		return "enter"
	default:
		return "none"
	}
}

// navigate runs every guard phase for a move from from to to. Phases and the
// guards inside them run one after another; the first guard that does not
// continue ends the pipeline with a *NavigationError.
func (r *Router) navigate(ctx context.Context, to, from *route.Location) error {
	var guards []route.Guard
	for i := len(from.Matched) - 1; i >= 0; i-- {
		if rec := from.Matched[i]; !to.Has(rec) {
			guards = append(guards, rec.LeaveGuards...)
		}
	}
	if err := r.runQueue(ctx, PhaseLeave, guards, to, from); err != nil {
		return err
	}

	r.mu.Lock()
	guards = r.beforeGuards.snapshot()
	r.mu.Unlock()
	if err := r.runQueue(ctx, PhaseBeforeEach, guards, to, from); err != nil {
		return err
	}

	guards = nil
	for _, rec := range to.Matched {
		if from.Has(rec) {
			guards = append(guards, rec.UpdateGuards...)
		}
	}
	if err := r.runQueue(ctx, PhaseUpdate, guards, to, from); err != nil {
		return err
	}

	// Reused records do not run their enter guards again.
	guards = nil
	for _, rec := range to.Matched {
		if !from.Has(rec) {
			guards = append(guards, rec.BeforeEnter...)
		}
	}
	if err := r.runQueue(ctx, PhaseBeforeEnter, guards, to, from); err != nil {
		return err
	}

	guards = nil
	for _, rec := range to.Matched {
		if !from.Has(rec) {
			guards = append(guards, rec.EnterGuards...)
		}
	}
	return r.runQueue(ctx, PhaseEnter, guards, to, from)
}

// runQueue runs guards in order and stops at the first one that does not continue.
func (r *Router) runQueue(ctx context.Context, phase Phase, guards []route.Guard, to, from *route.Location) error {
	for _, guard := range guards {
		if err := ctx.Err(); err != nil {
			return &NavigationError{Kind: KindFailed, To: to, From: from, Phase: phase, Err: err}
		}

		recordGuard(phase)
		decision, err := guard(ctx, to, from)
		if err != nil {
			return &NavigationError{Kind: KindFailed, To: to, From: from, Phase: phase, Err: err}
		}

		switch decision.Outcome {
		case route.OutcomeContinue:
			continue
		case route.OutcomeAbort:
			return &NavigationError{Kind: KindAborted, To: to, From: from, Phase: phase}
		case route.OutcomeRedirect:
			return &NavigationError{Kind: KindRedirected, To: to, From: from, Phase: phase, Redirect: decision.Target}
		default:
			return &NavigationError{
				Kind:  KindFailed,
				To:    to,
				From:  from,
				Phase: phase,
				Err:   fmt.Errorf("unknown guard outcome %d", decision.Outcome),
			}
		}
	}
	return nil
}
