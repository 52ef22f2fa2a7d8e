package waypoint

import (
	"context"
	"log/slog"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/config"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/history"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/locale"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/matcher"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Setup describes a Navigator.
type Setup struct {
	Sources  []string              // Route documents, files or http(s) URLs, loaded in order
	Document *config.File          // Already loaded document; Sources are not read when set
	Routes   []matcher.RouteConfig // Routes declared in code, matched after the documents' routes
	Guards   config.Registry       // Guards the documents refer to by name

	InitialURL     string // First history entry; defaults to "/"
	MaxRedirects   int    // Overrides the documents' max_redirects when set
	MatcherOptions []matcher.Option
	Logger         *slog.Logger

	// Start performs the initial navigation to InitialURL before New returns.
	Start bool
}

// Navigator is a Router wired to a Matcher and an in-memory History.
type Navigator struct {
	*router.Router
	Matcher *matcher.Matcher
	History *history.Memory

	setup  Setup
	logger *slog.Logger
}

// New loads the route documents and builds the Navigator. Every failure is a
// *SetupError, except that of the initial navigation when Start is set.
func New(ctx context.Context, setup Setup) (*Navigator, error) {
	logger := setup.Logger
	if logger == nil {
		logger = internal.GetInternalLogger()
	}

	doc, routes, err := loadRoutes(ctx, setup)
	if err != nil {
		return nil, err
	}

	opts := append(doc.Options.MatcherOptions(), setup.MatcherOptions...)
	m, err := matcher.New(routes, opts...)
	if err != nil {
		return nil, NewSetupError("matcher", err)
	}

	maxRedirects := doc.Options.MaxRedirects
	if setup.MaxRedirects != 0 {
		maxRedirects = setup.MaxRedirects
	}
	routerOpts := []router.Option{router.WithLogger(logger)}
	if maxRedirects != 0 {
		routerOpts = append(routerOpts, router.WithMaxRedirects(maxRedirects))
	}

	h := history.NewMemory(setup.InitialURL)
	n := &Navigator{
		Router:  router.New(m, h, routerOpts...),
		Matcher: m,
		History: h,
		setup:   setup,
		logger:  logger,
	}
	logger.Debug("navigator ready", "routes", len(m.Routes()), "sources", len(setup.Sources))

	if setup.Start {
		if _, err := n.Router.Start(ctx); err != nil {
			n.Close()
			return nil, err
		}
	}
	return n, nil
}

// Reload reloads the route documents and swaps the matcher's table. On failure
// the current table stays in place. Navigations already in flight keep the
// locations they resolved. A Navigator built from Setup.Document rebuilds the
// table from that document.
func (n *Navigator) Reload(ctx context.Context) error {
	_, routes, err := loadRoutes(ctx, n.setup)
	if err != nil {
		return err
	}
	if err := n.Matcher.SetRoutes(routes); err != nil {
		return NewSetupError("matcher", err)
	}
	n.logger.Info("route table reloaded", "routes", len(n.Matcher.Routes()))
	return nil
}

// Watch reloads the route table whenever the route document at path, usually
// one of Setup.Sources, changes. It blocks until ctx is done. A document that
// fails to load leaves the table as it was.
func (n *Navigator) Watch(ctx context.Context, path string) error {
	return config.Watch(ctx, path, func(_ *config.File, err error) {
		if err != nil {
			return
		}
		if err := n.Reload(ctx); err != nil {
			n.logger.Warn("route table reload failed", "path", path, "error", err)
		}
	})
}

// Describe renders a navigation failure for people, in the first supported
// language of langs.
func (n *Navigator) Describe(err error, langs ...string) string {
	return locale.Describe(err, langs...)
}

// Back moves the history one entry back, running the guards for the move.
func (n *Navigator) Back() *route.Location {
	n.History.Back(true)
	return n.CurrentRoute()
}

// Forward moves the history one entry forward, running the guards for the move.
func (n *Navigator) Forward() *route.Location {
	n.History.Forward(true)
	return n.CurrentRoute()
}

func loadRoutes(ctx context.Context, setup Setup) (*config.File, []matcher.RouteConfig, error) {
	doc := setup.Document
	if doc == nil && len(setup.Sources) > 0 {
		var err error
		doc, err = config.LoadAll(ctx, setup.Sources...)
		if err != nil {
			return nil, nil, NewSetupError("load", err)
		}
	}
	if doc == nil {
		return &config.File{}, setup.Routes, nil
	}

	routes, err := doc.Routes(setup.Guards)
	if err != nil {
		return nil, nil, NewSetupError("routes", err)
	}
	return doc, append(routes, setup.Routes...), nil
}
