// Package route defines the values that flow through a navigation: raw targets,
// resolved locations, route records and the guard contract.
//
// Nothing in this package performs navigation. The matcher package turns a Raw
// into a Location, and the router package runs guards and commits the result.
package route

import "maps"

// Raw is an unresolved navigation request. It is either a path (which may carry a
// query string and hash) or a named route with params. Relative targets set
// neither Path nor Name and reuse the current location with Params merged in.
type Raw struct {
	Path    string
	Name    string
	Params  map[string]string
	Query   Query
	Hash    string
	Replace bool // Replace the current history entry instead of pushing a new one
}

// Path returns a Raw for a string target such as "/users/1?tab=posts#top".
func Path(target string) Raw {
	return NormalizeRaw(Raw{Path: target})
}

// Named returns a Raw that targets the route registered under name.
func Named(name string, params map[string]string) Raw {
	return Raw{Name: name, Params: params}
}

// IsRelative reports whether the target names neither a path nor a route.
func (r Raw) IsRelative() bool {
	return r.Path == "" && r.Name == ""
}

// NormalizeRaw moves any query string or hash embedded in Path into the Query and
// Hash fields. Explicit Query values win over ones parsed from the path.
func NormalizeRaw(r Raw) Raw {
	if r.Path == "" {
		r.Query = NormalizeQuery(r.Query)
		return r
	}

	path, query, hash := ParseURL(r.Path)
	r.Path = path
	if r.Hash == "" {
		r.Hash = hash
	}
	for k, v := range NormalizeQuery(r.Query) {
		query[k] = v
	}
	r.Query = query
	return r
}

// Location is a fully resolved navigation target.
//
// Matched holds the route records of the nesting chain, root to leaf. It is only
// empty for a Start location. FullPath is always StringifyURL(Path, Query, Hash).
type Location struct {
	Path     string
	Name     string
	Params   map[string]string
	Query    Query
	Hash     string
	FullPath string
	Matched  []*Record
	Meta     map[string]any

	// RedirectedFrom points at the location that redirected here, if any.
	// It is kept for diagnostics only.
	RedirectedFrom *Location

	start bool
}

// NewStart returns a fresh Start location: the root path with no matched
// records. Every router begins at its own.
func NewStart() *Location {
	return &Location{
		Path:     "/",
		Params:   map[string]string{},
		Query:    Query{},
		FullPath: "/",
		Meta:     map[string]any{},
		start:    true,
	}
}

// Start is a Start location for resolving targets outside a router. Treat it
// as read-only.
var Start = NewStart()

// IsStart reports whether l is a Start location.
func IsStart(l *Location) bool {
	return l != nil && l.start
}

// Leaf returns the deepest matched record, or nil for the Start location.
func (l *Location) Leaf() *Record {
	if len(l.Matched) == 0 {
		return nil
	}
	return l.Matched[len(l.Matched)-1]
}

// Has reports whether rec is part of the matched chain. Records are compared by
// identity, so two matchers never share records.
func (l *Location) Has(rec *Record) bool {
	for _, m := range l.Matched {
		if m == rec {
			return true
		}
	}
	return false
}

// RedirectChain returns the locations that redirected to l, closest first.
func (l *Location) RedirectChain() []*Location {
	var chain []*Location
	for from := l.RedirectedFrom; from != nil; from = from.RedirectedFrom {
		chain = append(chain, from)
	}
	return chain
}

// Snapshot returns a copy of l whose maps and slices are not shared with l.
// Route records are shared since they are owned by the matcher.
func (l *Location) Snapshot() Location {
	c := *l
	c.Params = maps.Clone(l.Params)
	c.Query = l.Query.Clone()
	c.Meta = maps.Clone(l.Meta)
	c.Matched = append([]*Record(nil), l.Matched...)
	return c
}

// Raw converts the location back into a path target, keeping query and hash.
func (l *Location) Raw() Raw {
	return Raw{Path: l.Path, Query: l.Query.Clone(), Hash: l.Hash}
}

func (l *Location) String() string {
	if l == nil {
		return "<nil>"
	}
	return l.FullPath
}
