package vgnav

// Kind is the variant of a Route.
type Kind int

const (
	// KindPath routes match a pattern.
	KindPath Kind = iota
	// KindDefault routes match anything, but only when nothing else does.
	KindDefault
	// KindRedirect routes match their "from" pattern and redirect instead of rendering.
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindDefault:
		return "default"
	case KindRedirect:
		return "redirect"
	}
	return "unknown"
}

// Route pairs a pattern (or the default flag) with an opaque value,
// usually the handler or component to render.
type Route struct {
	Kind  Kind
	Path  string // empty for KindDefault
	Value any
}

// PathRoute returns a route matching pattern.
func PathRoute(pattern string, value any) Route {
	return Route{Kind: KindPath, Path: pattern, Value: value}
}

// DefaultRoute returns a fallback route.
func DefaultRoute(value any) Route {
	return Route{Kind: KindDefault, Value: value}
}

// IsDefault reports whether r is a fallback route.
func (r Route) IsDefault() bool { return r.Kind == KindDefault }
