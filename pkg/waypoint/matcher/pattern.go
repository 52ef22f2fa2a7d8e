package matcher

import (
	"fmt"
	"net/url"
	"strings"
)

// CatchAllParam is the param a trailing "*" segment is captured under.
const CatchAllParam = "pathMatch"

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentOptional
	segmentCatchAll
)

// rank used when ordering patterns; higher wins.
func (k segmentKind) rank() int {
	switch k {
	case segmentStatic:
		return 4
	case segmentParam:
		return 2
	case segmentOptional:
		return 1
	default:
		return 0
	}
}

type segment struct {
	kind  segmentKind
	value string // literal text for static segments, param name otherwise
}

type pattern struct {
	source   string
	segments []segment
}

func compilePattern(source string) (*pattern, error) {
	if !strings.HasPrefix(source, "/") {
		return nil, &PatternError{Pattern: source, Reason: "must start with /"}
	}

	p := &pattern{source: source}
	seen := make(map[string]bool)

	parts := splitPath(source)
	for i, part := range parts {
		var seg segment
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return nil, &PatternError{Pattern: source, Reason: "* must be the last segment"}
			}
			seg = segment{kind: segmentCatchAll, value: CatchAllParam}
		case strings.HasPrefix(part, ":"):
			name := strings.TrimPrefix(part, ":")
			kind := segmentParam
			if strings.HasSuffix(name, "?") {
				name = strings.TrimSuffix(name, "?")
				kind = segmentOptional
			}
			if name == "" {
				return nil, &PatternError{Pattern: source, Reason: "empty param name"}
			}
			if seen[name] {
				return nil, &PatternError{Pattern: source, Reason: fmt.Sprintf("param %q repeated", name)}
			}
			seen[name] = true
			seg = segment{kind: kind, value: name}
		default:
			seg = segment{kind: segmentStatic, value: part}
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// match reports whether path matches the pattern and returns the captured params.
func (p *pattern) match(path string, caseSensitive, strict bool) (map[string]string, bool) {
	if strict && len(path) > 1 && strings.HasSuffix(path, "/") && !p.endsWithCatchAll() {
		return nil, false
	}

	parts := splitPath(path)
	for i, part := range parts {
		if decoded, err := url.PathUnescape(part); err == nil {
			parts[i] = decoded
		}
	}

	params := make(map[string]string)
	j := 0
	for i, seg := range p.segments {
		switch seg.kind {
		case segmentStatic:
			if j >= len(parts) || !equalSegment(seg.value, parts[j], caseSensitive) {
				return nil, false
			}
			j++
		case segmentParam:
			if j >= len(parts) {
				return nil, false
			}
			params[seg.value] = parts[j]
			j++
		case segmentOptional:
			// Only consume a part if the segments after this one can still match.
			if len(parts)-j > p.required(i+1) {
				params[seg.value] = parts[j]
				j++
			}
		case segmentCatchAll:
			params[seg.value] = strings.Join(parts[j:], "/")
			j = len(parts)
		}
	}

	if j != len(parts) {
		return nil, false
	}
	return params, true
}

func (p *pattern) endsWithCatchAll() bool {
	return len(p.segments) > 0 && p.segments[len(p.segments)-1].kind == segmentCatchAll
}

// required counts the segments from index from onward that must consume a part.
func (p *pattern) required(from int) int {
	n := 0
	for _, seg := range p.segments[from:] {
		if seg.kind == segmentStatic || seg.kind == segmentParam {
			n++
		}
	}
	return n
}

func equalSegment(want, got string, caseSensitive bool) bool {
	if caseSensitive {
		return want == got
	}
	return strings.EqualFold(want, got)
}

// build renders the pattern with params filled in.
func (p *pattern) build(params map[string]string) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, seg := range p.segments {
		switch seg.kind {
		case segmentStatic:
			b.WriteByte('/')
			b.WriteString(seg.value)
		case segmentParam:
			v, ok := params[seg.value]
			if !ok || v == "" {
				return "", &MatchError{Target: p.source, Param: seg.value, Err: ErrMissingParam}
			}
			b.WriteByte('/')
			b.WriteString(url.PathEscape(v))
		case segmentOptional:
			if v := params[seg.value]; v != "" {
				b.WriteByte('/')
				b.WriteString(url.PathEscape(v))
			}
		case segmentCatchAll:
			if v := params[seg.value]; v != "" {
				b.WriteByte('/')
				b.WriteString(v)
			}
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// outranks reports whether p should be tried before other.
func (p *pattern) outranks(other *pattern) bool {
	n := min(len(p.segments), len(other.segments))
	for i := 0; i < n; i++ {
		a, b := p.segments[i].kind.rank(), other.segments[i].kind.rank()
		if a != b {
			return a > b
		}
	}

	// One pattern extends the other. Trailing optional or catch-all segments
	// make the longer pattern the fallback for the shorter one.
	switch {
	case len(p.segments) > n:
		return p.required(n) > 0
	case len(other.segments) > n:
		return other.required(n) == 0
	default:
		return false
	}
}
