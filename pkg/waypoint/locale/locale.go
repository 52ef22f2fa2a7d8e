// Package locale turns navigation failures into messages for people.
package locale

import (
	"embed"
	"errors"
	"io/fs"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/matcher"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

//go:embed messages/*.toml
var messages embed.FS

// Catalog holds the message files of every supported language.
type Catalog struct {
	bundle  *i18n.Bundle
	matcher language.Matcher
}

// New creates a catalog from the embedded messages plus any TOML message files
// in extra. English is the fallback language.
func New(extra ...fs.FS) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	sources := append([]fs.FS{messages}, extra...)
	for _, fsys := range sources {
		files, err := fs.Glob(fsys, "messages/*.toml")
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
				return nil, err
			}
		}
	}

	return &Catalog{
		bundle:  bundle,
		matcher: language.NewMatcher(bundle.LanguageTags()),
	}, nil
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the catalog of embedded messages.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New()
		if err != nil {
			// The embedded files are part of the build.
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Describe is Default().Describe.
func Describe(err error, langs ...string) string {
	return Default().Describe(err, langs...)
}

// Languages returns the tags the catalog has messages for.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Match picks the supported language closest to the preferences given, in the
// same formats as an Accept-Language header.
func (c *Catalog) Match(prefs ...string) language.Tag {
	_, i := language.MatchStrings(c.matcher, prefs...)
	return c.Languages()[i]
}

// Describe renders err in the first of langs the catalog supports.
func (c *Catalog) Describe(err error, langs ...string) string {
	if err == nil {
		return ""
	}

	id, data := messageFor(err)
	localizer := i18n.NewLocalizer(c.bundle, c.Match(langs...).String())
	msg, lerr := localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if lerr != nil {
		internal.GetInternalLogger().Warn("failed to localize navigation error", "message_id", id, "error", lerr)
		return err.Error()
	}
	return msg
}

func messageFor(err error) (string, map[string]any) {
	if errors.Is(err, router.ErrClosed) {
		return "NavigationClosed", nil
	}

	nerr, ok := router.FailureOf(err)
	if !ok {
		return "NavigationUnknown", map[string]any{"Err": err.Error()}
	}

	data := map[string]any{
		"To":          nerr.To.String(),
		"From":        nerr.From.String(),
		"Superseding": nerr.Superseding.String(),
		"Phase":       nerr.Phase.String(),
		"Redirect":    nerr.Redirect.Path,
	}
	if nerr.Err != nil {
		data["Err"] = nerr.Err.Error()
	}

	switch nerr.Kind {
	case router.KindAborted:
		return "NavigationAborted", data
	case router.KindCancelled:
		return "NavigationCancelled", data
	case router.KindRedirected:
		if nerr.Redirect.Path == "" {
			data["Redirect"] = nerr.Redirect.Name
		}
		return "NavigationRedirected", data
	case router.KindRedirectLoop:
		return "NavigationRedirectLoop", data
	case router.KindUnmatched:
		data["Target"] = nerr.Err.Error()
		var merr *matcher.MatchError
		if errors.As(nerr.Err, &merr) {
			data["Target"] = merr.Target
		}
		return "NavigationUnmatched", data
	default:
		return "NavigationFailed", data
	}
}
