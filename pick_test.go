package vgnav

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {

	var tlist = []struct {
		route Route
		score int
	}{
		{PathRoute("/", nil), 5},
		{PathRoute("/users", nil), 7},
		{PathRoute("/users/:id", nil), 13},
		{PathRoute("/users/me", nil), 14},
		{PathRoute("/*", nil), -1},
		{PathRoute("/files/*", nil), 6},
		{DefaultRoute(nil), 0},
	}

	for _, ti := range tlist {
		t.Run(ti.route.Kind.String()+" "+ti.route.Path, func(t *testing.T) {
			score, err := Rank(ti.route)
			require.NoError(t, err)
			assert.Equal(t, ti.score, score)
		})
	}
}

func TestRankRoutes(t *testing.T) {
	ranked, err := RankRoutes([]Route{
		DefaultRoute("default"),
		PathRoute("/a/*", "splat"),
		PathRoute("/a/:x", "dynamic"),
		PathRoute("/a/b", "static"),
	})
	require.NoError(t, err)

	var got []any
	for _, rr := range ranked {
		got = append(got, rr.Route.Value)
	}
	assert.Equal(t, []any{"static", "dynamic", "splat", "default"}, got)
	assert.Equal(t, 0, ranked[3].Index)
	assert.Equal(t, "", ranked[3].Pattern())

	_, err = RankRoutes([]Route{PathRoute("/*/a", nil)})
	assert.ErrorIs(t, err, ErrSplatNotLast)
}

func testRoutes() []Route {
	return []Route{
		PathRoute("/", "root"),
		PathRoute("/groups/:groupId", "group"),
		PathRoute("/groups/:groupId/users/:userId", "user"),
		PathRoute("/groups/:groupId/users/me", "me"),
		PathRoute("/files/*", "files"),
		PathRoute("/docs/*rest", "docs"),
		DefaultRoute("notfound"),
	}
}

func TestPick(t *testing.T) {

	var tlist = []struct {
		uri      string
		value    string
		params   Params
		matchURI string
	}{
		{"/", "root", Params{}, "/"},
		{"/groups/42", "group", Params{"groupId": "42"}, "/groups/42"},
		{"/groups/42/users/me", "me", Params{"groupId": "42"}, "/groups/42/users/me"},
		{"/groups/42/users/7", "user", Params{"groupId": "42", "userId": "7"}, "/groups/42/users/7"},
		{"/groups/42?tab=x", "group", Params{"groupId": "42"}, "/groups/42"},
		{"/files/a/b/c", "files", Params{"*": "a/b/c"}, "/files"},
		{"/files", "files", Params{"*": ""}, "/files"},
		{"/docs/intro/setup", "docs", Params{"rest": "intro/setup"}, "/docs"},
		{"/nowhere/at/all", "notfound", Params{}, "/nowhere/at/all"},
		{"/groups/%zz", "notfound", Params{}, "/groups/%zz"},
	}

	rs := MustRouteSet(testRoutes())

	for _, ti := range tlist {
		t.Run(ti.uri, func(t *testing.T) {
			m := rs.Pick(ti.uri)
			require.NotNil(t, m)
			assert.Equal(t, ti.value, m.Route.Value, spew.Sdump(m))
			assert.Equal(t, ti.params, m.Params)
			assert.Equal(t, ti.matchURI, m.URI)
		})
	}
}

func TestPickUsers(t *testing.T) {
	routes := []Route{
		PathRoute("/users/:id", "user"),
		PathRoute("/users/me", "me"),
		PathRoute("/users/*", "rest"),
		DefaultRoute("notfound"),
	}
	reversed := make([]Route, len(routes))
	for i, r := range routes {
		reversed[len(routes)-1-i] = r
	}

	var tlist = []struct {
		uri    string
		value  string
		params Params
	}{
		{"/users/me", "me", Params{}},
		{"/users/123", "user", Params{"id": "123"}},
		{"/users/a/b/c", "rest", Params{"*": "a/b/c"}},
		{"/nothing/here", "notfound", Params{}},
	}

	for _, decl := range [][]Route{routes, reversed} {
		rs := MustRouteSet(decl)
		for _, ti := range tlist {
			t.Run(ti.uri, func(t *testing.T) {
				m := rs.Pick(ti.uri)
				require.NotNil(t, m)
				assert.Equal(t, ti.value, m.Route.Value, spew.Sdump(m))
				assert.Equal(t, ti.params, m.Params)
			})
		}
	}
}

func TestPickNoMatch(t *testing.T) {
	m, err := Pick([]Route{PathRoute("/a", nil)}, "/b")
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestPickRootOnly(t *testing.T) {
	rs := MustRouteSet([]Route{PathRoute("/:id", "id"), PathRoute("/", "root")})

	m := rs.Pick("/")
	require.NotNil(t, m)
	assert.Equal(t, "root", m.Route.Value)

	m = rs.Pick("")
	require.NotNil(t, m)
	assert.Equal(t, "root", m.Route.Value)
}

func TestPickDefaultFirstDeclared(t *testing.T) {
	rs := MustRouteSet([]Route{DefaultRoute("one"), PathRoute("/a", "a"), DefaultRoute("two")})
	m := rs.Pick("/b")
	require.NotNil(t, m)
	assert.Equal(t, "one", m.Route.Value)
}

func TestPickTiesKeepDeclarationOrder(t *testing.T) {
	rs := MustRouteSet([]Route{PathRoute("/users/:a", "first"), PathRoute("/users/:b", "second")})
	m := rs.Pick("/users/1")
	require.NotNil(t, m)
	assert.Equal(t, "first", m.Route.Value)
	assert.Equal(t, Params{"a": "1"}, m.Params)
}

func TestPickDeterministic(t *testing.T) {
	routes := testRoutes()
	uris := []string{"/", "/groups/1", "/groups/1/users/me", "/groups/1/users/2", "/files/x", "/docs", "/zzz"}

	want := make(map[string]any, len(uris))
	rs := MustRouteSet(routes)
	for _, u := range uris {
		want[u] = rs.Pick(u).Route.Value
	}

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]Route, len(routes))
		copy(shuffled, routes)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		rs := MustRouteSet(shuffled)
		for _, u := range uris {
			assert.Equal(t, want[u], rs.Pick(u).Route.Value, "uri %s with %s", u, spew.Sdump(rs.Patterns()))
		}
	}
}

func TestPickReservedName(t *testing.T) {
	_, err := Pick([]Route{PathRoute("/a", nil), PathRoute("/users/:uri", nil)}, "/a")
	assert.True(t, errors.Is(err, ErrReservedName))
}

func TestRouteSetOrder(t *testing.T) {
	rs := MustRouteSet(testRoutes())
	assert.Equal(t, []string{
		"/groups/:groupId/users/me",
		"/groups/:groupId/users/:userId",
		"/groups/:groupId",
		"/files/*",
		"/docs/*rest",
		"/",
	}, rs.Patterns())

	ranked := rs.Ranked()
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestMatchInsertRoundTrip(t *testing.T) {
	var tlist = []struct {
		pattern string
		params  Params
	}{
		{"/users/:id", Params{"id": "a b"}},
		{"/users/:id/posts/:post", Params{"id": "ümlaut", "post": "1"}},
		{"/files/*", Params{"*": "dir/file name.txt"}},
	}

	for _, ti := range tlist {
		t.Run(ti.pattern, func(t *testing.T) {
			uri, err := InsertParams(ti.pattern, ti.params)
			require.NoError(t, err)
			m, err := Match(ti.pattern, uri)
			require.NoError(t, err)
			require.NotNil(t, m, uri)
			assert.Equal(t, ti.params, m.Params)
		})
	}
}
