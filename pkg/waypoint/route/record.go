package route

// Record is a node of the configured route tree. Records are created and owned by
// the matcher; the router only reads them.
type Record struct {
	Path   string // Full path pattern including parent segments
	Name   string
	Meta   map[string]any
	Parent *Record

	// BeforeEnter runs when the record is entered from a location that did not
	// already match it. Guards run in order.
	BeforeEnter []Guard

	// View hooks. LeaveGuards run when navigating away from the record,
	// UpdateGuards when the record is reused by the next location and
	// EnterGuards after BeforeEnter when the record is entered.
	LeaveGuards  []Guard
	UpdateGuards []Guard
	EnterGuards  []Guard

	// Redirect, when set, makes every location matching this record resolve
	// somewhere else before any guard runs.
	Redirect RedirectFunc
}

// Chain returns the records from the root of the tree down to r.
func (r *Record) Chain() []*Record {
	var chain []*Record
	for rec := r; rec != nil; rec = rec.Parent {
		chain = append([]*Record{rec}, chain...)
	}
	return chain
}

// RedirectFunc computes the target of a redirect from the location that was
// about to be matched.
type RedirectFunc func(to *Location) Raw

// RedirectTo redirects to a fixed path target.
func RedirectTo(target string) RedirectFunc {
	return func(*Location) Raw {
		return Path(target)
	}
}

// RedirectToRaw redirects to a fixed structured target. Missing query and hash
// are filled with empty values.
func RedirectToRaw(target Raw) RedirectFunc {
	return func(*Location) Raw {
		return NormalizeRaw(target)
	}
}
