package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathnames(locs []Location) []string {
	ret := make([]string, len(locs))
	for i, l := range locs {
		ret[i] = l.Pathname
	}
	return ret
}

func TestMemorySourceTruncatesForward(t *testing.T) {
	s := NewMemorySource("/")
	require.NoError(t, s.Push("/a", EntryState{}))
	require.NoError(t, s.Push("/b", EntryState{}))
	s.Go(-2)
	assert.Equal(t, 0, s.Index())

	require.NoError(t, s.Push("/c", EntryState{}))
	assert.Equal(t, []string{"/", "/c"}, pathnames(s.Entries()))
	assert.Equal(t, 1, s.Index())
}

func TestMemorySourceGoOutOfRange(t *testing.T) {
	s := NewMemorySource("/")
	var pops int
	s.OnPop(func() { pops++ })

	s.Go(-1)
	s.Go(1)
	s.Go(0)
	assert.Equal(t, 0, pops)
	assert.Equal(t, "/", s.Location().Pathname)

	require.NoError(t, s.Push("/a", EntryState{}))
	s.Go(-1)
	assert.Equal(t, 1, pops)
}

func TestMemorySourceOnPopRemove(t *testing.T) {
	s := NewMemorySource("/")
	require.NoError(t, s.Push("/a", EntryState{}))

	var a, b int
	removeA := s.OnPop(func() { a++ })
	s.OnPop(func() { b++ })

	s.Go(-1)
	removeA()
	s.Go(1)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestMemorySourceSnapshot(t *testing.T) {
	s := NewMemorySource("/")
	require.NoError(t, s.Push("/a?x=1#h", EntryState{Key: "k1", Value: "hello"}))
	require.NoError(t, s.Push("/b", EntryState{Key: "k2"}))
	s.Go(-1)

	b, err := s.Snapshot()
	require.NoError(t, err)

	r, err := RestoreMemorySource(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/a", "/b"}, pathnames(r.Entries()))
	assert.Equal(t, 1, r.Index())

	loc := r.Location()
	assert.Equal(t, "?x=1", loc.Search)
	assert.Equal(t, "#h", loc.Hash)
	assert.Equal(t, "k1", loc.Key)
	assert.Equal(t, "hello", loc.State)

	_, err = RestoreMemorySource([]byte{0xc1})
	assert.Error(t, err)
}

func TestLocationNormalize(t *testing.T) {

	var tlist = []struct {
		in, out string
	}{
		{"", "/"},
		{"/", "/"},
		{"abc", "/abc"},
		{"/p%C3%A5ge", "/p%C3%A5ge"},
		{"/påge", "/p%C3%A5ge"},
		{"/a b", "/a%20b"},
		{"/bad/%zz", "/bad/%zz"},
		{"/a,b", "/a,b"},
		{"/a%2Cb", "/a,b"},
		{"/about(us)", "/about(us)"},
		{"/about%28us%29", "/about(us)"},
		{"/x*y", "/x*y"},
		{"/it's", "/it's"},
		{"/go!;x=1", "/go!;x=1"},
		{"/a%2Fb", "/a%2Fb"},
		{"/q%3F", "/q%3F"},
		{"/%22quoted%22", "/%22quoted%22"},
	}

	for _, ti := range tlist {
		t.Run(ti.in, func(t *testing.T) {
			out := NormalizePathname(ti.in)
			assert.Equal(t, ti.out, out)
			assert.Equal(t, out, NormalizePathname(out))
		})
	}
}

func TestParseLocation(t *testing.T) {
	loc := parseLocation("/a/b?x=1&y=2#frag")
	assert.Equal(t, "/a/b", loc.Pathname)
	assert.Equal(t, "?x=1&y=2", loc.Search)
	assert.Equal(t, "#frag", loc.Hash)
	assert.Equal(t, "/a/b?x=1&y=2#frag", loc.String())

	loc = parseLocation("/a?#")
	assert.Equal(t, Location{Pathname: "/a"}, loc)
}

func TestStateCodec(t *testing.T) {
	s, err := encodeState(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	v, err := decodeState(s)
	require.NoError(t, err)
	assert.Nil(t, v)

	s, err = encodeState(map[string]any{"n": "x"})
	require.NoError(t, err)
	v, err = decodeState(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": "x"}, v)

	_, err = decodeState("!!!")
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "push", ActionPush.String())
	assert.Equal(t, "replace", ActionReplace.String())
	assert.Equal(t, "pop", ActionPop.String())
	assert.Equal(t, "unknown", Action(0).String())
}
