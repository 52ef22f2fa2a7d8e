package router

import (
	"time"

	"github.com/google/uuid"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/history"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// onHistory handles timeline moves the router did not make itself, such as a
// user going back. The timeline already shows the new entry, so a successful
// navigation commits without touching it. There is no caller to return a
// failure to. Redirects start a fresh push and cancellations are dropped.
// Every other failure only reaches the error handlers, and an abort also moves
// the timeline back to where it was.
func (r *Router) onHistory(toURL, fromURL string, info history.Info) {
	if r.isClosed() {
		return
	}

	id := uuid.NewString()
	started := time.Now()
	ctx, span := startNavigationSpan(r.ctx, id, triggerHistory, toURL)

	var (
		loc    *route.Location
		err    error
		result string
	)
	defer func() {
		endNavigationSpan(span, loc, err, result == KindRedirected.String())
		if result == "" {
			result = resultOf(err)
		}
		recordNavigation(triggerHistory, result, time.Since(started))
	}()

	to, err := r.Resolve(route.Path(toURL))
	if err != nil {
		r.fail(err)
		return
	}

	nav := r.begin(ctx, id, triggerHistory, to)
	defer nav.cancel()

	err = r.navigate(nav.ctx, to, nav.from)
	if err == nil {
		loc, err = r.commit(nav, false)
		return
	}

	if r.superseded(nav) {
		err = r.cancelled(nav)
		return
	}

	nerr, _ := FailureOf(err)
	switch {
	case nerr != nil && nerr.Kind == KindRedirected:
		result = KindRedirected.String()
		recordRedirect("guard")
		// The redirected push reports its own failures to the error handlers.
		next, perr := r.push(r.ctx, nerr.Redirect, 1)
		if perr == nil && r.history.Location() != next.FullPath {
			// Redirected to the current location, so the push committed nothing.
			r.history.Replace(next.FullPath)
		}

	case nerr != nil && nerr.Kind == KindAborted:
		r.logger.Debug("history navigation aborted, restoring timeline",
			"id", id, "from", fromURL, "to", toURL, "direction", info.Direction.String())
		recordCorrection(info.Direction)
		if info.Direction == history.DirectionBack {
			r.history.Forward(false)
		} else {
			r.history.Back(false)
		}
		r.fail(err)

	default:
		r.fail(err)
	}
}
