package history

import (
	"net/url"
	"strings"
)

// Location is a decomposed history entry.
type Location struct {
	Pathname string // always starts with "/"
	Search   string // "" or "?..."
	Hash     string // "" or "#..."

	// State is the opaque payload the entry was created with.
	State any

	// Key distinguishes entries, even two entries for the same URL with equal state.
	Key string
}

// String returns the path, query and fragment of the location.
func (l Location) String() string {
	return l.Pathname + l.Search + l.Hash
}

// Action describes how the current location was reached.
type Action int

const (
	ActionPush Action = iota + 1
	ActionReplace
	ActionPop
)

func (a Action) String() string {
	switch a {
	case ActionPush:
		return "push"
	case ActionReplace:
		return "replace"
	case ActionPop:
		return "pop"
	}
	return "unknown"
}

// EntryState is what a Source stores alongside each entry.
type EntryState struct {
	Key   string
	Value any
}

// parseLocation splits "path?query#hash" into a Location.
// The pathname is normalised with NormalizePathname.
func parseLocation(pathAndQuery string) Location {
	rest, hash, hasHash := strings.Cut(pathAndQuery, "#")
	pathname, search, hasSearch := strings.Cut(rest, "?")

	loc := Location{Pathname: NormalizePathname(pathname)}
	if hasSearch && search != "" {
		loc.Search = "?" + search
	}
	if hasHash && hash != "" {
		loc.Hash = "#" + hash
	}
	return loc
}

// resolveAgainst resolves to against the current location the way a browser
// resolves the url argument of pushState.
func resolveAgainst(cur Location, to string) string {
	if strings.HasPrefix(to, "/") {
		return to
	}
	ref, err := url.Parse(to)
	if err != nil {
		return to
	}
	base := &url.URL{Path: cur.Pathname, RawQuery: strings.TrimPrefix(cur.Search, "?")}
	u := base.ResolveReference(ref)
	ret := u.EscapedPath()
	if u.RawQuery != "" {
		ret += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		ret += "#" + u.EscapedFragment()
	}
	return ret
}

// NormalizePathname decodes then re-encodes each segment of p exactly once so
// already-encoded input maps to itself: "/p%C3%A5ge" and "/påge" both yield
// "/p%C3%A5ge". Only bytes a browser escapes in location.pathname are
// re-encoded; sub-delimiters such as "," "(" and "'" stay literal.
// Segments with malformed escapes are kept as they are.
func NormalizePathname(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			continue
		}
		segs[i] = escapeSegment(decoded)
	}
	return strings.Join(segs, "/")
}

const upperhex = "0123456789ABCDEF"

// escapeSegment percent-encodes the bytes of s that cannot appear literally in
// a path segment, following the browser's path percent-encode set plus % and /.
func escapeSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c <= ' ', c >= 0x7f, c == '%', c == '/', c == '?', c == '#',
			c == '"', c == '<', c == '>', c == '`', c == '{', c == '}':
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
