package vgnav

import "strings"

// MatchResult describes the route picked for a URI.
type MatchResult struct {
	Route Route

	// Params holds decoded dynamic and splat values by name.
	Params Params

	// URI is the part of the input path consumed by the match. Nested routes
	// use it as their base URI.
	URI string
}

// RouteSet is a validated and ranked list of routes. Ranking does not depend on
// the URI so a RouteSet can be reused for any number of Pick calls and is safe
// for concurrent use.
type RouteSet struct {
	ranked []RankedRoute
}

// NewRouteSet validates and ranks routes. The returned error is a
// *DeclarationError describing the first invalid pattern.
func NewRouteSet(routes []Route) (*RouteSet, error) {
	ranked, err := RankRoutes(routes)
	if err != nil {
		return nil, err
	}
	return &RouteSet{ranked: ranked}, nil
}

// MustRouteSet is like NewRouteSet but panics upon error.
func MustRouteSet(routes []Route) *RouteSet {
	rs, err := NewRouteSet(routes)
	if err != nil {
		panic(err)
	}
	return rs
}

// Ranked returns the routes in evaluation order.
func (rs *RouteSet) Ranked() []RankedRoute {
	ret := make([]RankedRoute, len(rs.ranked))
	copy(ret, rs.ranked)
	return ret
}

// Patterns returns the non-default patterns in evaluation order.
func (rs *RouteSet) Patterns() []string {
	ret := make([]string, 0, len(rs.ranked))
	for _, rr := range rs.ranked {
		if !rr.Route.IsDefault() {
			ret = append(ret, rr.Route.Path)
		}
	}
	return ret
}

// Pick returns the best match for uri, or nil when nothing (including a
// default route) matches. Any query string on uri is ignored.
func (rs *RouteSet) Pick(uri string) *MatchResult {
	pathname := stripQuery(uri)
	uriSegments := segmentize(pathname)

	var fallback *MatchResult

	for _, rr := range rs.ranked {
		if rr.Route.IsDefault() {
			if fallback == nil {
				fallback = &MatchResult{Route: rr.Route, Params: Params{}, URI: pathname}
			}
			continue
		}

		params, consumed, ok := rr.mpath.match(uriSegments)
		if !ok {
			continue
		}

		return &MatchResult{
			Route:  rr.Route,
			Params: params,
			URI:    "/" + strings.Join(uriSegments[:consumed], "/"),
		}
	}

	return fallback
}

// Pick ranks routes and picks the best match for uri. Each segment gets the
// highest amount of points, then the type of segment gets an additional amount
// of points where
//
//	static > dynamic > root > splat
//
// so routes can be declared in any order. A nil result with a nil error means
// nothing matched. Callers matching many URIs against the same routes should
// build a RouteSet once instead.
func Pick(routes []Route, uri string) (*MatchResult, error) {
	rs, err := NewRouteSet(routes)
	if err != nil {
		return nil, err
	}
	return rs.Pick(uri), nil
}

// Match matches a single pattern against uri.
func Match(pattern, uri string) (*MatchResult, error) {
	return Pick([]Route{PathRoute(pattern, nil)}, uri)
}
