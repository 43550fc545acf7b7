package vgnav

import (
	"sort"
	"strings"
)

// Resolve resolves a link target against a base path.
//
// Absolute targets are returned unchanged. Plain relative targets are appended
// to the base as though the base is a directory:
//
//	Resolve("settings", "/users/123")    // "/users/123/settings"
//	Resolve("contacts/ryan", "/")        // "/contacts/ryan"
//
// Dot-relative targets start from the parent of the base, the way a file
// relative reference does, and then apply "." and ".." segments:
//
//	Resolve(".", "/a/b")                 // "/a"
//	Resolve("..", "/a/b/c")              // "/a"
//	Resolve("../x", "/a/b/c")            // "/a/x"
//
// A query-only target keeps the base pathname. The base query is never carried over.
func Resolve(to, base string) string {
	if strings.HasPrefix(to, "/") {
		return to
	}

	toPathname, toQuery, _ := strings.Cut(to, "?")
	basePathname := stripQuery(base)

	toSegments := segmentize(toPathname)
	baseSegments := dirSegments(basePathname)

	// ?a=b, /users?b=c => /users?a=b
	if toSegments[0] == "" {
		if basePathname == "" {
			basePathname = "/"
		}
		return addQuery(basePathname, toQuery)
	}

	// profile, /users/789 => /users/789/profile
	if !strings.HasPrefix(toSegments[0], ".") {
		all := make([]string, 0, len(baseSegments)+len(toSegments))
		all = append(all, baseSegments...)
		all = append(all, toSegments...)
		return addQuery("/"+strings.Join(all, "/"), toQuery)
	}

	// .          /users/123  =>  /users
	// ..         /users/123  =>  /
	// ../../one  /a/b/c/d    =>  /a/one
	// .././one   /a/b/c/d    =>  /a/b/one
	segments := make([]string, 0, len(baseSegments)+len(toSegments))
	if len(baseSegments) > 0 {
		segments = append(segments, baseSegments[:len(baseSegments)-1]...)
	}
	for _, seg := range toSegments {
		switch seg {
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		case ".", "":
		default:
			segments = append(segments, seg)
		}
	}

	return addQuery("/"+strings.Join(segments, "/"), toQuery)
}

// dirSegments returns the segments of an absolute pathname, nil for the root.
func dirSegments(pathname string) []string {
	segs := segmentize(pathname)
	if len(segs) == 1 && segs[0] == "" {
		return nil
	}
	return segs
}

func addQuery(pathname string, query ...string) string {
	var nonEmpty []string
	for _, q := range query {
		if q != "" {
			nonEmpty = append(nonEmpty, q)
		}
	}
	if len(nonEmpty) == 0 {
		return pathname
	}
	return pathname + "?" + strings.Join(nonEmpty, "&")
}

// InsertParams substitutes params into the dynamic and splat segments of
// pattern, percent-encoding each value, so that matching the result against
// pattern yields params again. A query string on pattern is preserved.
// Missing or empty dynamic values produce ErrMissingParam along with a best-effort path.
func InsertParams(pattern string, params Params) (string, error) {
	mp, err := parseMpath(pattern)
	if err != nil {
		return "", err
	}
	p, err := mp.merge(params)
	_, query, _ := strings.Cut(pattern, "?")
	return addQuery(p, query), err
}

// ValidateRedirect reports whether from and to declare exactly the same set of
// dynamic segment names.
func ValidateRedirect(from, to string) bool {
	a, b := dynamicNames(from), dynamicNames(to)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dynamicNames(pattern string) []string {
	var names []string
	for _, part := range segmentize(stripQuery(pattern)) {
		if m := paramRe.FindStringSubmatch(part); m != nil {
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}
