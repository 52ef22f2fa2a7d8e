package router

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/history"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/matcher"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// DefaultMaxRedirects is the redirect hop limit used unless WithMaxRedirects is given.
const DefaultMaxRedirects = 10

// Matcher resolves raw targets into locations. *matcher.Matcher implements it.
type Matcher interface {
	Resolve(raw route.Raw, current *route.Location) (matcher.Result, error)
}

// History is the navigation timeline the router reflects committed locations
// into. *history.Memory implements it.
//
// Push and Replace must not notify listeners. Back and Forward notify them only
// when trigger is true.
type History interface {
	Listen(fn history.Listener) (unlisten func())
	Push(url string)
	Replace(url string)
	Back(trigger bool)
	Forward(trigger bool)
	Location() string
}

// ErrorHandler receives every navigation failure that is not a cancellation.
type ErrorHandler func(err error)

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. Defaults to the internal waypoint logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithMaxRedirects sets how many redirects a single navigation may follow,
// counting both route redirects and guard redirects.
func WithMaxRedirects(n int) Option {
	return func(r *Router) {
		if n >= 0 {
			r.maxRedirects = n
		}
	}
}

// WithRouteChange sets the route change hook. See SetRouteChange.
func WithRouteChange(fn func(route.Location)) Option {
	return func(r *Router) { r.onChange = fn }
}

// Router resolves navigation targets, runs them through the guard pipeline and
// commits the ones that are not superseded.
//
// A Router is safe for concurrent use. Any number of navigations may be in
// flight at once; the one started last wins and every earlier one that has not
// committed yet fails with ErrCancelled.
type Router struct {
	matcher      Matcher
	history      History
	logger       *slog.Logger
	maxRedirects int

	// generation numbers navigations in start order. pendingGen holds the
	// number of the newest one; a navigation is superseded once they differ.
	generation atomic.Uint64
	pendingGen atomic.Uint64

	ctx      context.Context
	stop     context.CancelFunc
	unlisten func()

	mu            sync.Mutex
	current       *route.Location
	pending       *route.Location
	cancelPending context.CancelFunc
	beforeGuards  registry[route.Guard]
	afterHooks    registry[route.AfterHook]
	errorHandlers registry[ErrorHandler]
	onChange      func(route.Location)
	closed        bool
}

// New creates a Router at its own Start location and subscribes it to
// timeline moves of h.
func New(m Matcher, h History, opts ...Option) *Router {
	start := route.NewStart()
	r := &Router{
		matcher:      m,
		history:      h,
		maxRedirects: DefaultMaxRedirects,
		current:      start,
		pending:      start,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = internal.GetInternalLogger()
	}

	r.ctx, r.stop = context.WithCancel(context.Background())
	r.unlisten = h.Listen(r.onHistory)
	return r
}

// CurrentRoute returns the last committed location.
func (r *Router) CurrentRoute() *route.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// PendingRoute returns the target of the newest navigation, which equals
// CurrentRoute once it has committed.
func (r *Router) PendingRoute() *route.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// BeforeEach registers a guard run for every navigation, after leave guards and
// before update guards. Guards run in registration order.
func (r *Router) BeforeEach(guard route.Guard) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.beforeGuards.add(guard)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.beforeGuards.remove(id)
	}
}

// AfterEach registers a hook called after every committed navigation.
func (r *Router) AfterEach(hook route.AfterHook) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.afterHooks.add(hook)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.afterHooks.remove(id)
	}
}

// OnError registers a handler for navigation failures. Handlers run in
// registration order, once per failure.
func (r *Router) OnError(handler ErrorHandler) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.errorHandlers.add(handler)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.errorHandlers.remove(id)
	}
}

// SetRouteChange sets the single hook notified with a copy of every newly
// committed location. Passing nil removes it.
func (r *Router) SetRouteChange(fn func(route.Location)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Close unsubscribes from the timeline and cancels the context of the
// navigation in flight, if any. Navigations started afterwards fail with ErrClosed.
func (r *Router) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.cancelPending != nil {
		r.cancelPending()
	}
	r.mu.Unlock()

	r.unlisten()
	r.stop()
}

func (r *Router) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// triggerError hands err to every registered error handler.
func (r *Router) triggerError(err error) {
	r.mu.Lock()
	handlers := r.errorHandlers.snapshot()
	r.mu.Unlock()

	for _, h := range handlers {
		h(err)
	}
}

type registered[T any] struct {
	id uint64
	fn T
}

// registry keeps callbacks in registration order. Callers hold Router.mu.
type registry[T any] struct {
	items  []registered[T]
	nextID uint64
}

func (l *registry[T]) add(fn T) uint64 {
	l.nextID++
	l.items = append(l.items, registered[T]{id: l.nextID, fn: fn})
	return l.nextID
}

func (l *registry[T]) remove(id uint64) {
	for i, item := range l.items {
		if item.id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *registry[T]) snapshot() []T {
	out := make([]T, len(l.items))
	for i, item := range l.items {
		out[i] = item.fn
	}
	return out
}
