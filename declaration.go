package vgnav

import "strings"

// Declaration is one node of a declared route tree. Exactly one of Path,
// Default or Redirect must be set.
type Declaration struct {
	// Path is the pattern, relative to the parent's base path.
	// "/" declares an index route for the parent.
	Path string

	// Default marks a fallback matched only when no sibling matches.
	Default bool

	// Redirect, when set, makes this node redirect instead of render.
	Redirect *RedirectDecl

	// Handler is opaque to vgnav, typically the component to render.
	Handler any

	// Children are resolved against this node's path once it matches.
	Children []Declaration
}

// RedirectDecl redirects From to To. Both must declare the same dynamic segments.
// A relative To is resolved against the base URI of the level it is declared on.
type RedirectDecl struct {
	From string
	To   string
}

// Path declares a route for pattern.
func Path(pattern string, handler any, children ...Declaration) Declaration {
	return Declaration{Path: pattern, Handler: handler, Children: children}
}

// Default declares a fallback route.
func Default(handler any, children ...Declaration) Declaration {
	return Declaration{Default: true, Handler: handler, Children: children}
}

// Redirect declares a redirect from one pattern to another.
func Redirect(from, to string) Declaration {
	return Declaration{Redirect: &RedirectDecl{From: from, To: to}}
}

func (d *Declaration) kind() Kind {
	switch {
	case d.Redirect != nil:
		return KindRedirect
	case d.Default:
		return KindDefault
	}
	return KindPath
}

// joinPaths joins pattern pieces with single slashes into an absolute pattern.
func joinPaths(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			kept = append(kept, p)
		}
	}
	return "/" + strings.Join(kept, "/")
}

// compileRoutes turns the declarations of one level into routes. Each route's
// Value is a pointer to its Declaration. A declaration with children gets "/*"
// appended so it also matches the deeper URLs its children resolve.
func compileRoutes(basepath string, decls []Declaration) ([]Route, error) {
	routes := make([]Route, 0, len(decls))

	for i := range decls {
		d := &decls[i]

		var elementPath string
		switch d.kind() {
		case KindRedirect:
			if d.Redirect.From == "" || d.Redirect.To == "" {
				return nil, newDeclarationError(ErrRedirectMissingTarget, d.Redirect.From, "from="+d.Redirect.From+" to="+d.Redirect.To)
			}
			if !ValidateRedirect(d.Redirect.From, d.Redirect.To) {
				return nil, newDeclarationError(ErrRedirectParamMismatch, d.Redirect.From, "to="+d.Redirect.To)
			}
			elementPath = d.Redirect.From
		case KindDefault:
			if d.Path != "" {
				return nil, newDeclarationError(ErrAmbiguousDeclaration, d.Path, "")
			}
			routes = append(routes, Route{Kind: KindDefault, Value: d})
			continue
		default:
			if d.Path == "" {
				return nil, newDeclarationError(ErrMissingPath, "", "")
			}
			elementPath = d.Path
		}

		p := basepath
		if elementPath != "/" {
			p = joinPaths(basepath, elementPath)
		}
		if len(d.Children) > 0 {
			p = joinPaths(p, "*")
		}

		routes = append(routes, Route{Kind: d.kind(), Path: p, Value: d})
	}

	return routes, nil
}

// Compile validates and ranks one level of declarations, rooted at basepath.
// Each route's Value is a pointer to its Declaration.
func Compile(basepath string, decls []Declaration) (*RouteSet, error) {
	routes, err := compileRoutes(basepath, decls)
	if err != nil {
		return nil, err
	}
	return NewRouteSet(routes)
}

// Walk compiles every level of a declaration tree, outermost first, and calls
// fn with each one. Levels below a route are visited right after it. Walk
// stops at the first error from compiling or from fn.
func Walk(basepath string, decls []Declaration, fn func(depth int, basepath string, rs *RouteSet) error) error {
	return walk(0, basepath, decls, fn)
}

func walk(depth int, basepath string, decls []Declaration, fn func(int, string, *RouteSet) error) error {
	rs, err := Compile(basepath, decls)
	if err != nil {
		return err
	}
	if err := fn(depth, basepath, rs); err != nil {
		return err
	}
	for _, rr := range rs.ranked {
		d := rr.Route.Value.(*Declaration)
		if len(d.Children) == 0 {
			continue
		}
		child := basepath
		if !rr.Route.IsDefault() {
			child = childBasepath(rr.Route.Path)
		}
		if err := walk(depth+1, child, d.Children, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a whole declaration tree, rooted at basepath, without
// matching anything. Resolve only validates the levels it visits.
func Validate(basepath string, decls []Declaration) error {
	return Walk(basepath, decls, func(int, string, *RouteSet) error { return nil })
}

// childBasepath removes the trailing splat a parent route was given so the
// children resolve relative to the parent's own pattern.
func childBasepath(pattern string) string {
	p := strings.TrimSuffix(pattern, "*")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
