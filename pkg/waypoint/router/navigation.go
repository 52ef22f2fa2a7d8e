package router

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

type trigger string

const (
	triggerPush    trigger = "push"
	triggerReplace trigger = "replace"
	triggerHistory trigger = "history"
)

// navigation is one attempt to move to a resolved location.
type navigation struct {
	id      string
	gen     uint64
	trigger trigger
	to      *route.Location
	from    *route.Location
	ctx     context.Context
	cancel  context.CancelFunc
}

// Push navigates to the target, adding an entry to the history timeline.
//
// Navigating to the location that is already current returns it without
// running any guard. Redirects requested by guards are followed and the result
// of the redirected navigation is returned. Any other failure is handed to the
// error handlers and returned as a *NavigationError, except cancellations which
// are only returned to the caller whose navigation was superseded.
func (r *Router) Push(ctx context.Context, to route.Raw) (*route.Location, error) {
	return r.push(ctx, to, 0)
}

// Replace is Push replacing the current history entry instead of adding one.
func (r *Router) Replace(ctx context.Context, to route.Raw) (*route.Location, error) {
	to.Replace = true
	return r.push(ctx, to, 0)
}

// PushPath is Push for a string target.
func (r *Router) PushPath(ctx context.Context, target string) (*route.Location, error) {
	return r.Push(ctx, route.Path(target))
}

// ReplacePath is Replace for a string target.
func (r *Router) ReplacePath(ctx context.Context, target string) (*route.Location, error) {
	return r.Replace(ctx, route.Path(target))
}

// Start performs the initial navigation to the location the history timeline
// is currently at, replacing that entry.
func (r *Router) Start(ctx context.Context) (*route.Location, error) {
	return r.ReplacePath(ctx, r.history.Location())
}

// Resolve resolves the target the way Push would, following route redirects,
// without navigating or notifying error handlers.
func (r *Router) Resolve(to route.Raw) (*route.Location, error) {
	return r.matchLocation(route.NormalizeRaw(to), r.CurrentRoute(), nil, 0)
}

func (r *Router) push(ctx context.Context, raw route.Raw, redirects int) (loc *route.Location, err error) {
	if r.isClosed() {
		return nil, ErrClosed
	}

	trig := triggerPush
	if raw.Replace {
		trig = triggerReplace
	}
	id := uuid.NewString()
	started := time.Now()
	redirected, skipped := false, false

	ctx, span := startNavigationSpan(ctx, id, trig, rawString(raw))
	defer func() {
		endNavigationSpan(span, loc, err, redirected)
		result := resultOf(err)
		switch {
		case redirected:
			result = KindRedirected.String()
		case skipped:
			result = "duplicate"
		}
		recordNavigation(trig, result, time.Since(started))
	}()

	to, err := r.Resolve(raw)
	if err != nil {
		return nil, r.fail(err)
	}

	current := r.CurrentRoute()
	if !route.IsStart(current) && current.FullPath == to.FullPath {
		r.logger.Debug("navigation skipped, already current", "id", id, "to", to.FullPath)
		skipped = true
		return current, nil
	}

	nav := r.begin(ctx, id, trig, to)
	defer nav.cancel()

	if err := r.navigate(nav.ctx, to, nav.from); err != nil {
		if r.superseded(nav) {
			return nil, r.cancelled(nav)
		}

		nerr, _ := FailureOf(err)
		if nerr == nil || nerr.Kind != KindRedirected {
			return nil, r.fail(err)
		}

		if redirects >= r.maxRedirects {
			return nil, r.fail(&NavigationError{
				Kind:     KindRedirectLoop,
				To:       to,
				From:     nav.from,
				Redirect: nerr.Redirect,
				Phase:    nerr.Phase,
				Err:      ErrRedirectLoop,
			})
		}

		recordRedirect("guard")
		r.logger.Debug("navigation redirected by guard",
			"id", id, "to", to.FullPath, "redirect", rawString(nerr.Redirect), "phase", nerr.Phase.String())

		next := nerr.Redirect
		if !next.Replace {
			next.Replace = raw.Replace
		}
		redirected = true
		return r.push(ctx, next, redirects+1)
	}

	return r.commit(nav, true)
}

// matchLocation resolves raw through the matcher, following route redirects.
// Each hop records the location it redirected from.
func (r *Router) matchLocation(raw route.Raw, current, redirectedFrom *route.Location, hops int) (*route.Location, error) {
	res, err := r.matcher.Resolve(raw, current)
	if err != nil {
		return nil, &NavigationError{Kind: KindUnmatched, From: current, Err: err}
	}

	loc := res.Location
	loc.Query = route.NormalizeQuery(raw.Query)
	loc.Hash = raw.Hash
	loc.FullPath = route.StringifyURL(loc.Path, loc.Query, loc.Hash)
	loc.RedirectedFrom = redirectedFrom

	if res.Redirect == nil {
		return loc, nil
	}

	if hops >= r.maxRedirects {
		return nil, &NavigationError{Kind: KindRedirectLoop, To: loc, From: current, Err: ErrRedirectLoop}
	}

	recordRedirect("route")
	next := route.NormalizeRaw(res.Redirect(loc))
	return r.matchLocation(next, current, loc, hops+1)
}

// begin records to as the pending location and cancels the context of the
// navigation it supersedes.
func (r *Router) begin(ctx context.Context, id string, trig trigger, to *route.Location) *navigation {
	navCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancelPending != nil {
		r.cancelPending()
	}
	gen := r.generation.Inc()
	r.pendingGen.Store(gen)
	r.pending = to
	r.cancelPending = cancel
	from := r.current
	r.mu.Unlock()

	r.logger.Debug("navigation started", "id", id, "trigger", string(trig), "from", from.FullPath, "to", to.FullPath)

	return &navigation{
		id:      id,
		gen:     gen,
		trigger: trig,
		to:      to,
		from:    from,
		ctx:     navCtx,
		cancel:  cancel,
	}
}

func (r *Router) superseded(nav *navigation) bool {
	return r.pendingGen.Load() != nav.gen
}

// commit makes nav's target the current location. When reflect is set the
// history timeline gets a new entry, or a replaced one for replace navigations.
// Nothing is committed once the router is closed.
func (r *Router) commit(nav *navigation, reflect bool) (*route.Location, error) {
	r.mu.Lock()
	if r.superseded(nav) {
		r.mu.Unlock()
		return nil, r.cancelled(nav)
	}
	if r.closed {
		r.mu.Unlock()
		r.logger.Debug("navigation dropped, router closed", "id", nav.id, "to", nav.to.FullPath)
		return nil, ErrClosed
	}

	if reflect {
		if nav.trigger == triggerReplace {
			r.history.Replace(nav.to.FullPath)
		} else {
			r.history.Push(nav.to.FullPath)
		}
	}

	from := r.current
	r.current = nav.to
	r.cancelPending = nil
	onChange := r.onChange
	hooks := r.afterHooks.snapshot()
	r.mu.Unlock()

	r.logger.Info("navigation committed", "id", nav.id, "trigger", string(nav.trigger), "from", from.FullPath, "to", nav.to.FullPath)

	if onChange != nil {
		onChange(nav.to.Snapshot())
	}
	for _, hook := range hooks {
		hook(nav.to, from)
	}
	return nav.to, nil
}

func (r *Router) cancelled(nav *navigation) *NavigationError {
	r.mu.Lock()
	current, pending := r.current, r.pending
	r.mu.Unlock()

	r.logger.Debug("navigation cancelled", "id", nav.id, "to", nav.to.FullPath, "superseded_by", pending.FullPath)

	return &NavigationError{
		Kind:        KindCancelled,
		To:          nav.to,
		From:        current,
		Superseding: pending,
	}
}

// fail reports err to the error handlers and returns it.
func (r *Router) fail(err error) error {
	r.logger.Warn("navigation failed", "error", err)
	r.triggerError(err)
	return err
}

func resultOf(err error) string {
	if err == nil {
		return "committed"
	}
	if errors.Is(err, ErrClosed) {
		return "closed"
	}
	if nerr, ok := FailureOf(err); ok {
		return nerr.Kind.String()
	}
	return KindFailed.String()
}
