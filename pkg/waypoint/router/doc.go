// Package router runs navigations between resolved locations.
//
// A navigation resolves its target through a Matcher, following route redirects,
// and then runs the guard pipeline. Guards decide whether the navigation
// continues, aborts or redirects somewhere else. Once every guard has let it
// through, the target is committed: it becomes the current route and the
// History timeline is updated.
//
// # Basic Usage
//
//	m, err := matcher.New([]matcher.RouteConfig{
//	    {Path: "/", Name: "home"},
//	    {Path: "/login", Name: "login"},
//	    {Path: "/account", Name: "account", Meta: map[string]any{"auth": true}},
//	})
//	if err != nil {
//	    return err
//	}
//
//	r := router.New(m, history.NewMemory("/"))
//	defer r.Close()
//
//	r.BeforeEach(func(ctx context.Context, to, from *route.Location) (route.Decision, error) {
//	    if to.Meta["auth"] == true && !loggedIn() {
//	        return route.RedirectPath("/login"), nil
//	    }
//	    return route.Continue(), nil
//	})
//
//	loc, err := r.PushPath(ctx, "/account") // loc.FullPath == "/login"
//
// # Guard Pipeline
//
// Guards run one at a time, in this order:
//
//  1. Leave guards of the records being left, deepest first
//  2. Global guards registered with BeforeEach
//  3. Update guards of the records the target shares with the current location
//  4. BeforeEnter guards of the records being entered, outermost first
//  5. Enter guards of the records being entered
//
// The first guard that aborts, redirects or returns an error ends the pipeline.
//
// # Supersession
//
// Starting a navigation while another is still running its guards supersedes
// the older one. The older navigation's context is cancelled, and when its
// pipeline returns it fails with a *NavigationError of KindCancelled naming the
// newer target. It never touches the current route or the timeline. Error
// handlers registered with OnError are not told about cancellations.
//
// # History Events
//
// Moving through the timeline with Back, Forward or Go runs the same pipeline
// for the entry moved to. If a guard aborts such a move, the router moves the
// timeline back to where it was without notifying itself.
package router
