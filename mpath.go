package vgnav

import (
	"errors"
	"net/url"
	"strings"

	"github.com/grafana/regexp"
)

type segmentKind int

const (
	segRoot    segmentKind = iota // empty segment, e.g. the whole of "/"
	segStatic                     // literal text
	segDynamic                    // ":name"
	segSplat                      // "*" or "*name", always last
)

func (k segmentKind) String() string {
	switch k {
	case segRoot:
		return "root"
	case segStatic:
		return "static"
	case segDynamic:
		return "dynamic"
	case segSplat:
		return "splat"
	}
	return "unknown"
}

// segment is one parsed, "/"-delimited piece of a route pattern.
type segment struct {
	kind segmentKind
	text string // as declared
	name string // param name for dynamic and splat segments
}

var paramRe = regexp.MustCompile(`^:(.+)`)

// reservedNames cannot be used as param names, hosts hand "uri" and "path"
// to matched handlers alongside the params.
var reservedNames = []string{"uri", "path"}

func isReserved(name string) bool {
	for _, r := range reservedNames {
		if r == name {
			return true
		}
	}
	return false
}

// segmentize strips leading and trailing slashes and splits on "/".
// Both "" and "/" produce a single empty (root) segment.
func segmentize(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// stripQuery returns p without any "?query" part.
func stripQuery(p string) string {
	pathname, _, _ := strings.Cut(p, "?")
	return pathname
}

// parseMpath parses a route pattern into its typed segments.
// The only errors are declaration errors: reserved param names and a splat
// that is not the final segment.
func parseMpath(p string) (mpath, error) {
	parts := segmentize(stripQuery(p))
	ret := make(mpath, 0, len(parts))

	for i, part := range parts {
		seg := segment{text: part}
		switch {
		case part == "":
			seg.kind = segRoot
		case part[0] == '*':
			seg.kind = segSplat
			seg.name = part[1:]
			if seg.name == "" {
				seg.name = "*"
			}
			if i != len(parts)-1 {
				return nil, newDeclarationError(ErrSplatNotLast, p, part)
			}
		default:
			if m := paramRe.FindStringSubmatch(part); m != nil {
				seg.kind = segDynamic
				seg.name = m[1]
			} else {
				seg.kind = segStatic
			}
		}
		if (seg.kind == segDynamic || seg.kind == segSplat) && isReserved(seg.name) {
			return nil, newDeclarationError(ErrReservedName, p, seg.name)
		}
		ret = append(ret, seg)
	}

	return ret, nil
}

// mpath is a matchable-path: a route pattern split into typed segments.
type mpath []segment

// String returns the re-assembled path pattern.
func (mp mpath) String() string {
	texts := make([]string, len(mp))
	for i, seg := range mp {
		texts[i] = seg.text
	}
	return "/" + strings.Join(texts, "/")
}

// ErrMissingParam is returned by InsertParams when a dynamic segment has no
// value or an empty one; an empty segment could never match the pattern again.
var ErrMissingParam = errors.New("missing param")

// merge will use the values provided for the dynamic and splat segments and
// return the constructed path. Values are percent-encoded per segment. A missing
// or empty dynamic value causes ErrMissingParam to be returned, with the path still
// constructed using "_" in place of the missing value(s). A missing splat value
// is treated as empty.
func (mp mpath) merge(params Params) (string, error) {
	var reterr error
	out := make([]string, 0, len(mp))

	for _, seg := range mp {
		switch seg.kind {
		case segDynamic:
			v := params[seg.name]
			if v == "" {
				reterr = ErrMissingParam
				out = append(out, "_")
				continue
			}
			out = append(out, url.PathEscape(v))
		case segSplat:
			v := params[seg.name]
			if v == "" {
				continue
			}
			parts := strings.Split(v, "/")
			for i := range parts {
				parts[i] = url.PathEscape(parts[i])
			}
			out = append(out, strings.Join(parts, "/"))
		default:
			out = append(out, seg.text)
		}
	}

	return "/" + strings.Join(out, "/"), reterr
}

// match compares our mpath to the URI segments provided. On success it returns
// the decoded params and how many URI segments were consumed (a splat does not
// count the segments it swallowed).
func (mp mpath) match(uriSegments []string) (params Params, consumed int, ok bool) {
	isRootURI := uriSegments[0] == ""
	params = make(Params)

	max := len(uriSegments)
	if len(mp) > max {
		max = len(mp)
	}

	index := 0
	for ; index < max; index++ {
		if index >= len(mp) {
			// uri:   /users/123/settings
			// route: /users/:id
			return nil, 0, false
		}
		seg := mp[index]

		if seg.kind == segSplat {
			// uri:   /files/documents/work
			// route: /files/*
			rest := uriSegments[index:]
			decoded := make([]string, len(rest))
			for i, s := range rest {
				d, err := url.PathUnescape(s)
				if err != nil {
					return nil, 0, false
				}
				decoded[i] = d
			}
			params[seg.name] = strings.Join(decoded, "/")
			break
		}

		if index >= len(uriSegments) {
			// uri:   /users
			// route: /users/:userId
			return nil, 0, false
		}
		uriSegment := uriSegments[index]

		if seg.kind == segDynamic && !isRootURI {
			v, err := url.PathUnescape(uriSegment)
			if err != nil {
				return nil, 0, false
			}
			params[seg.name] = v
			continue
		}

		if seg.text != uriSegment {
			return nil, 0, false
		}
	}

	return params, index, true
}
