package config

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/matcher"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

// Registry maps the guard names used in documents to guards.
type Registry map[string]route.Guard

// Register adds guard under name, replacing any guard already there.
func (r Registry) Register(name string, guard route.Guard) Registry {
	r[name] = guard
	return r
}

// Missing lists the guard names used by f that are not registered, in the
// order they first appear.
func (r Registry) Missing(f *File) []string {
	seen := map[string]bool{}
	var missing []string
	walk(f.Routes, "", func(spec RouteSpec, _ string) {
		for _, list := range [][]string{spec.BeforeEnter, spec.Leave, spec.Update, spec.Enter} {
			for _, name := range list {
				if _, ok := r[name]; !ok && !seen[name] {
					seen[name] = true
					missing = append(missing, name)
				}
			}
		}
	})
	return missing
}

// Routes converts the document into matcher route configs. Unknown guard names
// and duplicate route names are all reported together.
func (f *File) Routes(reg Registry) ([]matcher.RouteConfig, error) {
	var errs error
	names := map[string]bool{}

	var convert func(specs []RouteSpec, parent string) []matcher.RouteConfig
	convert = func(specs []RouteSpec, parent string) []matcher.RouteConfig {
		out := make([]matcher.RouteConfig, 0, len(specs))
		for _, spec := range specs {
			full := joinPath(parent, spec.Path)

			if spec.Name != "" {
				if names[spec.Name] {
					errs = multierr.Append(errs, &RouteError{Path: full, Item: spec.Name, Err: ErrDuplicateName})
				}
				names[spec.Name] = true
			}

			guards := func(list []string) []route.Guard {
				var gs []route.Guard
				for _, name := range list {
					g, ok := reg[name]
					if !ok {
						errs = multierr.Append(errs, &RouteError{Path: full, Item: name, Err: ErrUnknownGuard})
						continue
					}
					gs = append(gs, g)
				}
				return gs
			}

			rc := matcher.RouteConfig{
				Path:        spec.Path,
				Name:        spec.Name,
				Meta:        spec.Meta,
				BeforeEnter: guards(spec.BeforeEnter),
				Leave:       guards(spec.Leave),
				Update:      guards(spec.Update),
				Enter:       guards(spec.Enter),
				Children:    convert(spec.Children, full),
			}
			if spec.Redirect != "" {
				rc.Redirect = route.RedirectTo(spec.Redirect)
			}
			out = append(out, rc)
		}
		return out
	}

	routes := convert(f.Routes, "")
	if errs != nil {
		return nil, errs
	}
	return routes, nil
}

// walk visits every route depth first with its full path.
func walk(specs []RouteSpec, parent string, fn func(spec RouteSpec, full string)) {
	for _, spec := range specs {
		full := joinPath(parent, spec.Path)
		fn(spec, full)
		walk(spec.Children, full, fn)
	}
}

func joinPath(parent, p string) string {
	if strings.HasPrefix(p, "/") || parent == "" {
		return p
	}
	return strings.TrimSuffix(parent, "/") + "/" + p
}
