package vgnav

import "sort"

// Each segment gets the segment points, then the type of segment gets an
// additional amount where static > dynamic > root, and a splat loses more
// than it gained. Order of declaration only breaks ties.
const (
	segmentPoints = 4
	staticPoints  = 3
	dynamicPoints = 2
	rootPoints    = 1
	splatPenalty  = 1
)

func (mp mpath) score() int {
	score := 0
	for _, seg := range mp {
		score += segmentPoints
		switch seg.kind {
		case segRoot:
			score += rootPoints
		case segDynamic:
			score += dynamicPoints
		case segSplat:
			score -= segmentPoints + splatPenalty
		default:
			score += staticPoints
		}
	}
	return score
}

// Rank returns the precedence score of a route. Default routes score 0.
// The score only depends on the pattern, never on the URL being matched.
func Rank(r Route) (int, error) {
	if r.IsDefault() {
		return 0, nil
	}
	mp, err := parseMpath(r.Path)
	if err != nil {
		return 0, err
	}
	return mp.score(), nil
}

// RankedRoute is a Route with its score and declaration index.
type RankedRoute struct {
	Route Route
	Score int
	Index int

	mpath mpath
}

// Pattern returns the parsed pattern as a string, or "" for default routes.
func (rr RankedRoute) Pattern() string {
	if rr.Route.IsDefault() {
		return ""
	}
	return rr.mpath.String()
}

// RankRoutes parses and scores routes, then sorts them descending by score
// with ties going to the earlier declaration.
func RankRoutes(routes []Route) ([]RankedRoute, error) {
	ranked := make([]RankedRoute, 0, len(routes))

	for i, r := range routes {
		rr := RankedRoute{Route: r, Index: i}
		if !r.IsDefault() {
			mp, err := parseMpath(r.Path)
			if err != nil {
				return nil, err
			}
			rr.mpath = mp
			rr.Score = mp.score()
		}
		ranked = append(ranked, rr)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})

	return ranked, nil
}
