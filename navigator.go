package vgnav

import "github.com/vugu/vgnav/history"

// Navigator moves through the history. *history.History implements it, as does
// the relative navigator returned by Router.NavigatorFor.
type Navigator interface {
	Navigate(to string, opts ...history.NavigateOption) *history.Transition
	Go(delta int)
}

var _ Navigator = (*history.History)(nil)

// NavigatorFor returns a Navigator that resolves targets against baseURI,
// usually Level.URI, so components can navigate relative to where they are
// mounted. Its Navigate panics with ErrNoHistory if the router has no History.
func (r *Router) NavigatorFor(baseURI string) Navigator {
	return &relativeNavigator{r: r, baseURI: baseURI}
}

type relativeNavigator struct {
	r       *Router
	baseURI string
}

func (n *relativeNavigator) Navigate(to string, opts ...history.NavigateOption) *history.Transition {
	return n.r.MustNavigate(to, n.baseURI, opts...)
}

func (n *relativeNavigator) Go(delta int) {
	if n.r.history == nil {
		panic(ErrNoHistory)
	}
	n.r.history.Go(delta)
}

// NavigatorRef embeds a Navigator so components can have one injected when
// they are created.
type NavigatorRef struct {
	Navigator // embed Navigator
}

// NavigatorSet implements NavigatorSetter.
func (h *NavigatorRef) NavigatorSet(o Navigator) {
	h.Navigator = o
}

// NavigatorSetter is implemented by components that accept a Navigator.
type NavigatorSetter interface {
	NavigatorSet(Navigator)
}

// InjectNavigator hands nav to v if v implements NavigatorSetter and reports
// whether it did.
func InjectNavigator(v any, nav Navigator) bool {
	s, ok := v.(NavigatorSetter)
	if ok {
		s.NavigatorSet(nav)
	}
	return ok
}
