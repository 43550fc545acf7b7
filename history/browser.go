package history

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vugu/vugu/js"
)

var errNotInBrowser = errors.New("not in browser (js) environment")

// BrowserSource is a Source backed by window.history and window.location.
// Outside of a wasm build every operation is a no-op and Push/Replace return an
// error.
type BrowserSource struct {
	useFragment bool

	mu           sync.Mutex
	states       map[string]any // state values by entry key, for this session
	popListeners []*func()
	popStateFunc js.Func
}

// NewBrowserSource returns a source for the current window.
//
// If useFragment is set the fragment part of the URL (after the "#") is used
// as the path and query string. This can be useful for applications which are
// served statically and cannot handle URL routing on the server side.
func NewBrowserSource(useFragment bool) *BrowserSource {
	return &BrowserSource{
		useFragment: useFragment,
		states:      make(map[string]any),
	}
}

// Location implements Source.
func (s *BrowserSource) Location() Location {
	g := js.Global()
	if !g.Truthy() {
		return Location{Pathname: "/"}
	}
	window := g.Get("window")

	var loc Location
	if s.useFragment {
		loc = parseLocation(strings.TrimPrefix(window.Get("location").Get("hash").String(), "#"))
	} else {
		wl := window.Get("location")
		loc = Location{
			Pathname: NormalizePathname(wl.Get("pathname").String()),
			Search:   wl.Get("search").String(),
			Hash:     wl.Get("hash").String(),
		}
	}

	st := window.Get("history").Get("state")
	if !st.Truthy() {
		return loc
	}
	if k := st.Get("key"); k.Truthy() {
		loc.Key = k.String()
	}

	s.mu.Lock()
	v, ok := s.states[loc.Key]
	s.mu.Unlock()
	if ok {
		loc.State = v
		return loc
	}

	// entry from before a reload, only the packed copy is left
	if data := st.Get("data"); data.Truthy() {
		if v, err := decodeState(data.String()); err == nil {
			loc.State = v
		}
	}
	return loc
}

// Push implements Source.
func (s *BrowserSource) Push(to string, state EntryState) error {
	return s.call("pushState", to, state)
}

// Replace implements Source.
func (s *BrowserSource) Replace(to string, state EntryState) error {
	return s.call("replaceState", to, state)
}

// call invokes window.history.pushState/replaceState. Browsers throw when
// their limits are hit (e.g. iOS Safari's cap on pushState calls), which
// syscall/js surfaces as a panic that is turned into an error here.
func (s *BrowserSource) call(method, to string, state EntryState) (reterr error) {
	g := js.Global()
	if !g.Truthy() {
		return errNotInBrowser
	}

	data, err := encodeState(state.Value)
	if err != nil {
		return fmt.Errorf("encoding history state: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			reterr = fmt.Errorf("history.%s: %v", method, r)
		}
	}()

	pqv := to
	if s.useFragment {
		pqv = "#" + to
	}
	jsState := g.Get("Object").New()
	jsState.Set("key", state.Key)
	jsState.Set("data", data)
	g.Get("window").Get("history").Call(method, jsState, "", pqv)

	s.mu.Lock()
	s.states[state.Key] = state.Value
	s.mu.Unlock()

	return nil
}

// Go implements Source. The browser reports the resulting change through a
// popstate event, asynchronously.
func (s *BrowserSource) Go(delta int) {
	g := js.Global()
	if !g.Truthy() {
		return
	}
	g.Get("window").Get("history").Call("go", delta)
}

// Assign implements Source with location.assign or location.replace, which
// reloads the document.
func (s *BrowserSource) Assign(to string, replace bool) {
	g := js.Global()
	if !g.Truthy() {
		return
	}
	if s.useFragment {
		to = "#" + to
	}
	method := "assign"
	if replace {
		method = "replace"
	}
	g.Get("window").Get("location").Call(method, to)
}

// OnPop implements Source. The first registration installs a single popstate
// listener on window.
func (s *BrowserSource) OnPop(fn func()) (remove func()) {
	p := &fn

	s.mu.Lock()
	s.popListeners = append(s.popListeners, p)
	first := len(s.popListeners) == 1
	s.mu.Unlock()

	if first {
		_ = s.addPopStateListener(func(this js.Value, args []js.Value) interface{} {
			s.mu.Lock()
			fns := s.popListeners
			s.mu.Unlock()
			for _, fn := range fns {
				(*fn)()
			}
			return nil
		})
	}

	return func() {
		s.mu.Lock()
		kept := make([]*func(), 0, len(s.popListeners))
		for _, q := range s.popListeners {
			if q != p {
				kept = append(kept, q)
			}
		}
		s.popListeners = kept
		last := len(kept) == 0
		s.mu.Unlock()

		if last {
			_ = s.removePopStateListener()
		}
	}
}

func (s *BrowserSource) addPopStateListener(f func(this js.Value, args []js.Value) interface{}) error {
	g := js.Global()
	if !g.Truthy() {
		return errNotInBrowser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.popStateFunc.IsUndefined() {
		return errors.New("popstate listener already set")
	}

	jf := js.FuncOf(f)
	g.Get("window").Call("addEventListener", "popstate", jf)
	s.popStateFunc = jf

	return nil
}

func (s *BrowserSource) removePopStateListener() error {
	g := js.Global()
	if !g.Truthy() {
		return errNotInBrowser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.popStateFunc.IsUndefined() {
		return errors.New("popstate listener not set")
	}

	g.Get("window").Call("removeEventListener", "popstate", s.popStateFunc)
	s.popStateFunc.Release()
	s.popStateFunc = js.Func{}

	return nil
}
