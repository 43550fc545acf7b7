package vgnav

import "sort"

// Params maps dynamic and splat segment names to their decoded values.
type Params map[string]string

// ByName returns the named parameter value or an empty string if not found.
func (p Params) ByName(name string) string {
	return p[name]
}

// PathParam is parameter key/value pair extracted from a URL path.
type PathParam struct {
	Key   string
	Value string
}

// PathParamList is a slice of PathParam.
type PathParamList []PathParam

// List returns the params sorted by key.
func (p Params) List() PathParamList {
	ret := make(PathParamList, 0, len(p))
	for k, v := range p {
		ret = append(ret, PathParam{Key: k, Value: v})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Key < ret[j].Key })
	return ret
}

// ByName returns the named parameter value or an empty string if not found.
func (ps PathParamList) ByName(name string) string {
	for i := range ps {
		if ps[i].Key == name {
			return ps[i].Value
		}
	}
	return ""
}
