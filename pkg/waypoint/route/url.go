package route

import (
	"net/url"
	"strings"
)

// Query holds the query parameters of a location. A key maps to one or more
// values; a single value is stored as a one-element slice.
type Query map[string][]string

// Get returns the first value for key, or "".
func (q Query) Get(key string) string {
	if v := q[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (q Query) Clone() Query {
	if q == nil {
		return Query{}
	}
	c := make(Query, len(q))
	for k, v := range q {
		c[k] = append([]string(nil), v...)
	}
	return c
}

// Encode serializes the query with keys in sorted order, so equal queries
// always produce the same string.
func (q Query) Encode() string {
	return url.Values(q).Encode()
}

// NormalizeQuery returns a copy of q without empty keys or nil value lists.
// A nil query normalizes to an empty one.
func NormalizeQuery(q Query) Query {
	out := make(Query, len(q))
	for k, v := range q {
		if k == "" || v == nil {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

// ParseURL splits a target such as "/a/b?x=1&x=2#top" into its path, query and
// hash. The hash is returned without the leading '#'. An empty path becomes "/".
func ParseURL(target string) (path string, query Query, hash string) {
	query = Query{}

	rest := target
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		hash = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		query = parseQuery(rest[i+1:])
		rest = rest[:i]
	}

	path = rest
	if path == "" {
		path = "/"
	}
	return path, query, hash
}

// parseQuery splits raw on '&' only. A key or value that does not unescape is
// kept as written, so one bad pair never drops the others.
func parseQuery(raw string) Query {
	query := Query{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		query[key] = append(query[key], unescape(value))
	}
	return query
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// StringifyURL is the inverse of ParseURL.
func StringifyURL(path string, query Query, hash string) string {
	var b strings.Builder
	b.WriteString(path)
	if encoded := query.Encode(); encoded != "" {
		b.WriteByte('?')
		b.WriteString(encoded)
	}
	if hash != "" {
		b.WriteByte('#')
		b.WriteString(hash)
	}
	return b.String()
}
