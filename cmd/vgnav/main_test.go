package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesYAML = `
basepath: /
routes:
  - path: /
    handler: Home
  - path: groups/:groupId
    handler: Group
    children:
      - path: users/:userId
        handler: GroupUser
      - path: users/me
        handler: Me
  - redirect: {from: /old/:id, to: /groups/:id}
  - default: true
    handler: NotFound
`

func writeRoutes(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "web")
	require.NoError(t, os.MkdirAll(dir, 0755))
	name := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(name, []byte(routesYAML), 0644))
	return name
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRank(t *testing.T) {
	out, err := run(t, "rank", writeRoutes(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "/", lines[0])
	assert.Contains(t, lines[1], "/old/:id")
	assert.Contains(t, lines[2], "/groups/:groupId/*")
	assert.Contains(t, lines[3], "Home")
	assert.Contains(t, lines[4], "(default)")
	assert.Contains(t, out, "  /groups/:groupId\n")
	assert.Less(t, strings.Index(out, "/groups/:groupId/users/me"), strings.Index(out, "/groups/:groupId/users/:userId"))
}

func TestMatch(t *testing.T) {
	name := writeRoutes(t)

	out, err := run(t, "match", name, "/groups/42/users/me?tab=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Group")
	assert.Contains(t, out, "Me")
	assert.Contains(t, out, "groupId=42")

	out, err = run(t, "match", name, "/old/7")
	require.NoError(t, err)
	assert.Contains(t, out, "redirect -> /groups/7")

	out, err = run(t, "match", name, "https://example.com/nope")
	require.NoError(t, err)
	assert.Contains(t, out, "NotFound")
}

func TestMatchNothing(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(name, []byte("routes:\n  - path: /a\n    handler: A\n"), 0644))

	_, err := run(t, "match", name, "/b")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestGen(t *testing.T) {
	name := writeRoutes(t)

	out, err := run(t, "gen", "--stdout", name)
	require.NoError(t, err)
	assert.Contains(t, out, "package web")
	assert.Contains(t, out, "func MakeRoutes() []vgnav.Declaration")

	out, err = run(t, "gen", name)
	require.NoError(t, err)
	assert.Contains(t, out, "0_routes_vgen.go")
	_, err = os.Stat(filepath.Join(filepath.Dir(name), "0_routes_vgen.go"))
	assert.NoError(t, err)
}

func TestBadRouteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(name, []byte("routes:\n  - path: /users/:uri\n"), 0644))

	_, err := run(t, "rank", name)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R005")
}
