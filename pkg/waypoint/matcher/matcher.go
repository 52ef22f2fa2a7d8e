// Package matcher resolves navigation targets against a tree of route
// definitions.
//
// Paths are matched segment by segment. A segment is either static text, a
// param (":id"), an optional param (":id?") or, as the last segment only, a
// catch-all ("*") captured under CatchAllParam. When several routes match, static
// segments beat params, params beat optional params, and those beat catch-alls.
// Remaining ties go to the route declared first.
package matcher

import (
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// RouteConfig declares one node of the route tree.
type RouteConfig struct {
	Path     string // Absolute, or relative to the parent when nested
	Name     string
	Meta     map[string]any
	Redirect route.RedirectFunc

	BeforeEnter []route.Guard
	Leave       []route.Guard
	Update      []route.Guard
	Enter       []route.Guard

	Children []RouteConfig
}

// Result is the outcome of Resolve. When Redirect is set, Location is the
// location that matched the redirecting record, before following the redirect.
type Result struct {
	Location *route.Location
	Redirect route.RedirectFunc
}

type options struct {
	caseSensitive bool
	strict        bool
}

// Option configures a Matcher.
type Option func(*options)

// CaseSensitive makes static segments compare case-sensitively.
func CaseSensitive() Option {
	return func(o *options) { o.caseSensitive = true }
}

// Strict makes a trailing slash significant.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

type compiled struct {
	record  *route.Record
	pattern *pattern
}

type table struct {
	ranked   []*compiled
	byName   map[string]*compiled
	byRecord map[*route.Record]*compiled
}

// Matcher resolves raw targets to locations. It is safe for concurrent use and
// its route table may be swapped at runtime with SetRoutes.
type Matcher struct {
	opts options

	mu    sync.RWMutex
	table *table
}

// New compiles routes into a Matcher.
func New(routes []RouteConfig, opts ...Option) (*Matcher, error) {
	m := &Matcher{}
	for _, opt := range opts {
		opt(&m.opts)
	}
	if err := m.SetRoutes(routes); err != nil {
		return nil, err
	}
	return m, nil
}

// SetRoutes replaces the route table. On error the previous table stays active.
// Locations resolved against the old table keep referencing the old records.
func (m *Matcher) SetRoutes(routes []RouteConfig) error {
	t := &table{
		byName:   make(map[string]*compiled),
		byRecord: make(map[*route.Record]*compiled),
	}
	for _, rc := range routes {
		if err := t.add(rc, nil); err != nil {
			return err
		}
	}

	slices.SortStableFunc(t.ranked, func(a, b *compiled) int {
		switch {
		case a.pattern.outranks(b.pattern):
			return -1
		case b.pattern.outranks(a.pattern):
			return 1
		default:
			return 0
		}
	})

	m.mu.Lock()
	m.table = t
	m.mu.Unlock()
	return nil
}

func (t *table) add(rc RouteConfig, parent *route.Record) error {
	full := rc.Path
	if parent != nil && !strings.HasPrefix(full, "/") {
		full = path.Join(parent.Path, full)
	}

	p, err := compilePattern(full)
	if err != nil {
		return err
	}

	rec := &route.Record{
		Path:         full,
		Name:         rc.Name,
		Meta:         maps.Clone(rc.Meta),
		Parent:       parent,
		BeforeEnter:  rc.BeforeEnter,
		LeaveGuards:  rc.Leave,
		UpdateGuards: rc.Update,
		EnterGuards:  rc.Enter,
		Redirect:     rc.Redirect,
	}
	c := &compiled{record: rec, pattern: p}

	if rc.Name != "" {
		if _, dup := t.byName[rc.Name]; dup {
			return &MatchError{Target: rc.Name, Err: ErrDuplicateName}
		}
		t.byName[rc.Name] = c
	}
	t.byRecord[rec] = c
	t.ranked = append(t.ranked, c)

	for _, child := range rc.Children {
		if err := t.add(child, rec); err != nil {
			return err
		}
	}
	return nil
}

// Resolve matches raw against the route table. current is the location the
// navigation starts from; it is only consulted for relative targets.
func (m *Matcher) Resolve(raw route.Raw, current *route.Location) (Result, error) {
	m.mu.RLock()
	t := m.table
	m.mu.RUnlock()

	raw = route.NormalizeRaw(raw)

	var (
		c      *compiled
		target string
		params map[string]string
		err    error
	)

	switch {
	case raw.Name != "":
		c = t.byName[raw.Name]
		if c == nil {
			return Result{}, &MatchError{Target: raw.Name, Err: ErrUnknownRoute}
		}
		params = maps.Clone(raw.Params)
		if target, err = c.pattern.build(params); err != nil {
			return Result{}, err
		}

	case raw.Path != "":
		target = raw.Path
		for _, candidate := range t.ranked {
			if p, ok := candidate.pattern.match(target, m.opts.caseSensitive, m.opts.strict); ok {
				c, params = candidate, p
				break
			}
		}
		if c == nil {
			return Result{}, &MatchError{Target: target, Err: ErrNoMatch}
		}

	default:
		if current == nil || current.Leaf() == nil {
			return Result{}, &MatchError{Target: "relative location", Err: ErrNoMatch}
		}
		c = t.byRecord[current.Leaf()]
		if c == nil && current.Name != "" {
			c = t.byName[current.Name]
		}
		if c == nil {
			return Result{}, &MatchError{Target: current.Path, Err: ErrNoMatch}
		}
		params = maps.Clone(current.Params)
		if params == nil {
			params = make(map[string]string)
		}
		maps.Copy(params, raw.Params)
		if target, err = c.pattern.build(params); err != nil {
			return Result{}, err
		}
	}

	if params == nil {
		params = make(map[string]string)
	}

	chain := c.record.Chain()
	loc := &route.Location{
		Path:    target,
		Name:    c.record.Name,
		Params:  params,
		Query:   raw.Query,
		Hash:    raw.Hash,
		Matched: chain,
		Meta:    mergeMeta(chain),
	}
	loc.FullPath = route.StringifyURL(loc.Path, loc.Query, loc.Hash)

	return Result{Location: loc, Redirect: c.record.Redirect}, nil
}

// Routes returns the records of the active table in match order.
func (m *Matcher) Routes() []*route.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*route.Record, 0, len(m.table.ranked))
	for _, c := range m.table.ranked {
		records = append(records, c.record)
	}
	return records
}

// Record returns the record registered under name.
func (m *Matcher) Record(name string) (*route.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.table.byName[name]
	if !ok {
		return nil, false
	}
	return c.record, true
}

func mergeMeta(chain []*route.Record) map[string]any {
	meta := make(map[string]any)
	for _, rec := range chain {
		maps.Copy(meta, rec.Meta)
	}
	return meta
}
