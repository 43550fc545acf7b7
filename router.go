package vgnav

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vugu/vgnav/history"
)

// ErrNoHistory is returned when navigating with a Router that has no History,
// e.g. one used only to resolve routes for a server-rendered page.
var ErrNoHistory = errors.New("router has no history to navigate")

// EventEnv is our view of a Vugu EventEnv
type EventEnv interface {
	Lock()         // acquire write lock
	UnlockOnly()   // release write lock
	UnlockRender() // release write lock and request re-render
}

// Router resolves declared routes against a Location and navigates its History.
type Router struct {
	history       *history.History
	logger        *slog.Logger
	eventEnv      EventEnv
	warnUnmatched bool

	unlisten func()
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithEventEnv makes the router request a render whenever the user moves
// through the history with the browser's back and forward buttons. Those
// arrive outside any event handler so the router takes the lock itself.
func WithEventEnv(env EventEnv) Option {
	return func(r *Router) {
		r.eventEnv = env
	}
}

// WithUnmatchedWarnings logs a warning listing the checked patterns whenever a
// level of declarations matches nothing.
func WithUnmatchedWarnings() Option {
	return func(r *Router) {
		r.warnUnmatched = true
	}
}

// New returns a new Router. h may be nil, in which case the Router can only
// resolve routes.
func New(h *history.History, opts ...Option) *Router {
	r := &Router{history: h}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	if h != nil && r.eventEnv != nil {
		r.unlisten = h.Listen(func(u history.Update) {
			if u.Action != history.ActionPop {
				return
			}
			r.eventEnv.Lock()
			r.eventEnv.UnlockRender()
		})
	}

	return r
}

// Close stops listening to the History.
func (r *Router) Close() {
	if r.unlisten != nil {
		r.unlisten()
	}
}

// History returns the router's History, which may be nil.
func (r *Router) History() *history.History {
	return r.history
}

// Location returns the current location, or the root when there is no History.
func (r *Router) Location() history.Location {
	if r.history == nil {
		return history.Location{Pathname: "/"}
	}
	return r.history.Location()
}

// Level is one matched level of a declaration tree.
type Level struct {
	Declaration *Declaration

	// Pattern is the effective pattern that matched, including the base path.
	// Empty for a default route.
	Pattern string

	Params Params

	// URI is the matched part of the location; links inside this level
	// resolve relative to it.
	URI string

	// Basepath is the base path handed to Declaration.Children.
	Basepath string
}

// Resolution is the chain of levels matched for a location, outermost first.
type Resolution struct {
	Location history.Location
	Levels   []Level

	// Unmatched is true when the last level tried matched nothing. Levels
	// still holds the outer levels that did match.
	Unmatched bool
}

// Leaf returns the innermost matched level, or nil if nothing matched.
func (res *Resolution) Leaf() *Level {
	if len(res.Levels) == 0 {
		return nil
	}
	return &res.Levels[len(res.Levels)-1]
}

// Resolve matches decls, declared under basepath, against loc and descends
// into the children of each match.
//
// A matched redirect is returned as a *RedirectRequest error along with the
// levels above it; the target has the matched params inserted and keeps the
// location's query. Any other error is a *DeclarationError for the level
// being resolved.
func (r *Router) Resolve(decls []Declaration, basepath string, loc history.Location) (*Resolution, error) {
	if basepath == "" {
		basepath = "/"
	}

	res := &Resolution{Location: loc}
	baseURI := "/"

	for {
		rs, err := Compile(basepath, decls)
		if err != nil {
			return res, err
		}

		m := rs.Pick(loc.Pathname)
		if m == nil {
			res.Unmatched = true
			if r.warnUnmatched {
				r.logger.Warn("no route matched",
					"pathname", loc.Pathname, "basepath", basepath, "checked", rs.Patterns())
			}
			return res, nil
		}

		d := m.Route.Value.(*Declaration)

		if m.Route.Kind == KindRedirect {
			to, err := redirectTarget(d.Redirect.To, baseURI, m.Params, loc.Search)
			if err != nil {
				return res, err
			}
			r.logger.Debug("redirect", "from", loc.Pathname, "to", to)
			return res, &RedirectRequest{URI: to}
		}

		next := basepath
		if !m.Route.IsDefault() {
			next = childBasepath(m.Route.Path)
		}
		res.Levels = append(res.Levels, Level{
			Declaration: d,
			Pattern:     m.Route.Path,
			Params:      m.Params,
			URI:         m.URI,
			Basepath:    next,
		})

		if len(d.Children) == 0 {
			return res, nil
		}
		decls, basepath, baseURI = d.Children, next, m.URI
	}
}

// ResolveCurrent resolves decls declared at the root against the current location.
func (r *Router) ResolveCurrent(decls []Declaration) (*Resolution, error) {
	return r.Resolve(decls, "/", r.Location())
}

func redirectTarget(to, baseURI string, params Params, search string) (string, error) {
	target, err := InsertParams(Resolve(to, baseURI), params)
	if err != nil {
		return "", fmt.Errorf("building redirect target %q: %w", to, err)
	}
	return addQuery(target, strings.TrimPrefix(search, "?")), nil
}

// HandleRedirect navigates to the target of err, replacing the current entry,
// if err is a *RedirectRequest. It reports whether it did.
func (r *Router) HandleRedirect(err error) bool {
	rr, ok := IsRedirect(err)
	if !ok || r.history == nil {
		return false
	}
	r.history.Navigate(rr.URI, history.WithReplace())
	return true
}

// Navigate resolves to against baseURI and navigates there.
func (r *Router) Navigate(to, baseURI string, opts ...history.NavigateOption) (*history.Transition, error) {
	if r.history == nil {
		return nil, ErrNoHistory
	}
	return r.history.Navigate(Resolve(to, baseURI), opts...), nil
}

// MustNavigate is like Navigate but panics upon error.
func (r *Router) MustNavigate(to, baseURI string, opts ...history.NavigateOption) *history.Transition {
	t, err := r.Navigate(to, baseURI, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// MatchPath resolves pattern against baseURI and matches it against loc.
// It returns nil if the location does not match.
func (r *Router) MatchPath(pattern, baseURI string, loc history.Location) (*MatchResult, error) {
	return Match(Resolve(pattern, baseURI), loc.Pathname)
}
