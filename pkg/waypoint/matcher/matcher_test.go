package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/route"
)

func testRoutes() []RouteConfig {
	return []RouteConfig{
		{Path: "/", Name: "home"},
		{Path: "/users/:id", Name: "user", Meta: map[string]any{"auth": true}, Children: []RouteConfig{
			{Path: "posts", Name: "user-posts", Meta: map[string]any{"tab": "posts"}},
			{Path: "settings/:section?", Name: "user-settings"},
		}},
		{Path: "/users/new", Name: "user-new"},
		{Path: "/old", Redirect: route.RedirectTo("/new")},
		{Path: "/new", Name: "new"},
		{Path: "/docs/*", Name: "docs"},
		{Path: "/*", Name: "not-found"},
	}
}

func newTestMatcher(t *testing.T, opts ...Option) *Matcher {
	t.Helper()
	m, err := New(testRoutes(), opts...)
	require.NoError(t, err)
	return m
}

func TestResolve_Paths(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name       string
		target     string
		wantName   string
		wantParams map[string]string
		wantChain  []string
	}{
		{"root", "/", "home", map[string]string{}, []string{"/"}},
		{"param", "/users/42", "user", map[string]string{"id": "42"}, []string{"/users/:id"}},
		{"static beats param", "/users/new", "user-new", map[string]string{}, []string{"/users/new"}},
		{"nested child", "/users/42/posts", "user-posts", map[string]string{"id": "42"}, []string{"/users/:id", "/users/:id/posts"}},
		{"optional absent", "/users/1/settings", "user-settings", map[string]string{"id": "1"}, []string{"/users/:id", "/users/:id/settings/:section?"}},
		{"optional present", "/users/1/settings/mail", "user-settings", map[string]string{"id": "1", "section": "mail"}, []string{"/users/:id", "/users/:id/settings/:section?"}},
		{"catch-all", "/docs/guide/intro", "docs", map[string]string{CatchAllParam: "guide/intro"}, []string{"/docs/*"}},
		{"fallback", "/nowhere/at/all", "not-found", map[string]string{CatchAllParam: "nowhere/at/all"}, []string{"/*"}},
		{"case insensitive", "/USERS/new", "user-new", map[string]string{}, []string{"/users/new"}},
		{"trailing slash", "/users/new/", "user-new", map[string]string{}, []string{"/users/new"}},
		{"escaped param", "/users/a%20b", "user", map[string]string{"id": "a b"}, []string{"/users/:id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Resolve(route.Path(tt.target), route.Start)
			require.NoError(t, err)
			require.Nil(t, res.Redirect)

			loc := res.Location
			assert.Equal(t, tt.wantName, loc.Name)
			assert.Equal(t, tt.wantParams, loc.Params)

			var chain []string
			for _, rec := range loc.Matched {
				chain = append(chain, rec.Path)
			}
			assert.Equal(t, tt.wantChain, chain)
		})
	}
}

func TestResolve_QueryAndHash(t *testing.T) {
	m := newTestMatcher(t)

	res, err := m.Resolve(route.Path("/users/7?b=2&a=1#top"), route.Start)
	require.NoError(t, err)

	assert.Equal(t, "/users/7", res.Location.Path)
	assert.Equal(t, "top", res.Location.Hash)
	assert.Equal(t, "/users/7?a=1&b=2#top", res.Location.FullPath)
}

func TestResolve_MetaMergedRootToLeaf(t *testing.T) {
	m := newTestMatcher(t)

	res, err := m.Resolve(route.Path("/users/1/posts"), route.Start)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"auth": true, "tab": "posts"}, res.Location.Meta)
}

func TestResolve_Redirect(t *testing.T) {
	m := newTestMatcher(t)

	res, err := m.Resolve(route.Path("/old?x=1"), route.Start)
	require.NoError(t, err)
	require.NotNil(t, res.Redirect)

	assert.Equal(t, "/old?x=1", res.Location.FullPath)
	assert.Equal(t, "/new", res.Redirect(res.Location).Path)
}

func TestResolve_Named(t *testing.T) {
	m := newTestMatcher(t)

	res, err := m.Resolve(route.Named("user-posts", map[string]string{"id": "9"}), route.Start)
	require.NoError(t, err)
	assert.Equal(t, "/users/9/posts", res.Location.Path)
	assert.Len(t, res.Location.Matched, 2)

	res, err = m.Resolve(route.Named("docs", map[string]string{CatchAllParam: "a/b"}), route.Start)
	require.NoError(t, err)
	assert.Equal(t, "/docs/a/b", res.Location.Path)
}

func TestResolve_NamedErrors(t *testing.T) {
	m := newTestMatcher(t)

	_, err := m.Resolve(route.Named("nope", nil), route.Start)
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = m.Resolve(route.Named("user", nil), route.Start)
	assert.ErrorIs(t, err, ErrMissingParam)

	var matchErr *MatchError
	require.ErrorAs(t, err, &matchErr)
	assert.Equal(t, "id", matchErr.Param)
}

func TestResolve_Relative(t *testing.T) {
	m := newTestMatcher(t)

	current, err := m.Resolve(route.Path("/users/1/posts"), route.Start)
	require.NoError(t, err)

	res, err := m.Resolve(route.Raw{Params: map[string]string{"id": "2"}}, current.Location)
	require.NoError(t, err)
	assert.Equal(t, "/users/2/posts", res.Location.Path)

	_, err = m.Resolve(route.Raw{}, route.Start)
	assert.True(t, IsNoMatch(err))
}

func TestResolve_NoMatch(t *testing.T) {
	m, err := New([]RouteConfig{{Path: "/a"}})
	require.NoError(t, err)

	_, err = m.Resolve(route.Path("/b"), route.Start)
	assert.True(t, IsNoMatch(err))
	assert.EqualError(t, err, "matcher: no route matches: /b")
}

func TestOptions(t *testing.T) {
	m := newTestMatcher(t, CaseSensitive(), Strict())

	res, err := m.Resolve(route.Path("/USERS/new"), route.Start)
	require.NoError(t, err)
	assert.Equal(t, "not-found", res.Location.Name)

	res, err = m.Resolve(route.Path("/users/new/"), route.Start)
	require.NoError(t, err)
	assert.Equal(t, "not-found", res.Location.Name)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		routes []RouteConfig
		want   error
	}{
		{"relative root", []RouteConfig{{Path: "users"}}, ErrInvalidPattern},
		{"catch-all not last", []RouteConfig{{Path: "/*/x"}}, ErrInvalidPattern},
		{"empty param", []RouteConfig{{Path: "/a/:"}}, ErrInvalidPattern},
		{"repeated param", []RouteConfig{{Path: "/:id/:id"}}, ErrInvalidPattern},
		{"duplicate name", []RouteConfig{{Path: "/a", Name: "x"}, {Path: "/b", Name: "x"}}, ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.routes)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSetRoutes_KeepsTableOnError(t *testing.T) {
	m := newTestMatcher(t)

	err := m.SetRoutes([]RouteConfig{{Path: "bad"}})
	require.Error(t, err)

	_, ok := m.Record("user")
	assert.True(t, ok)

	require.NoError(t, m.SetRoutes([]RouteConfig{{Path: "/only", Name: "only"}}))
	_, ok = m.Record("user")
	assert.False(t, ok)
	assert.Len(t, m.Routes(), 1)
}

func TestRoutes_RankOrder(t *testing.T) {
	m := newTestMatcher(t)

	var names []string
	for _, rec := range m.Routes() {
		if rec.Name != "" {
			names = append(names, rec.Name)
		}
	}
	assert.Less(t, indexOf(names, "user-new"), indexOf(names, "user"))
	assert.Equal(t, "not-found", names[len(names)-1])
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
