package history

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Update is passed to listeners whenever the location changes.
type Update struct {
	Location Location
	Action   Action
}

// Listener is called synchronously after each location change.
type Listener func(Update)

type listener struct {
	fn      Listener
	removed atomic.Bool
}

// History owns the current Location of a Source, notifies listeners of changes
// and serialises navigation.
//
// A History is either idle or transitioning. Navigate moves it to transitioning
// and CompleteTransition back to idle. While transitioning, further navigations
// replace the current entry instead of pushing, so rapid navigations before the
// UI commits do not grow the stack.
type History struct {
	source    Source
	logger    *slog.Logger
	keyFunc   func() string
	observers []Observer

	mu            sync.Mutex
	location      Location
	transitioning bool
	pending       []*Transition
	listeners     []*listener

	removePop func()
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(h *History) {
		h.logger = l
	}
}

// WithKeyFunc replaces the generator of entry keys. Keys must be unique.
func WithKeyFunc(f func() string) Option {
	return func(h *History) {
		h.keyFunc = f
	}
}

// WithObserver adds an instrumentation observer.
func WithObserver(o Observer) Option {
	return func(h *History) {
		h.observers = append(h.observers, o)
	}
}

// NewKey returns a new time-ordered entry key.
func NewKey() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New returns a History wrapping source.
func New(source Source, opts ...Option) *History {
	h := &History{
		source:  source,
		keyFunc: NewKey,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	h.location = source.Location()
	h.removePop = source.OnPop(h.handlePop)

	return h
}

// NewMemory is shorthand for New(NewMemorySource(initial), opts...).
func NewMemory(initial string, opts ...Option) *History {
	return New(NewMemorySource(initial), opts...)
}

// Close detaches the History from its source. Listeners are kept but will no
// longer hear about external back/forward navigation.
func (h *History) Close() {
	h.removePop()
}

// Source returns the wrapped source.
func (h *History) Source() Source {
	return h.source
}

// Location returns the current location.
func (h *History) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// Transitioning reports whether a navigation is waiting for CompleteTransition.
func (h *History) Transitioning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.transitioning
}

// Listen registers fn for location changes. The returned function removes it;
// calling it more than once, or from inside a listener, is safe.
func (h *History) Listen(fn Listener) (unlisten func()) {
	l := &listener{fn: fn}

	h.mu.Lock()
	h.listeners = append(h.listeners, l)
	h.mu.Unlock()

	return func() {
		if l.removed.Swap(true) {
			return
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		kept := make([]*listener, 0, len(h.listeners))
		for _, other := range h.listeners {
			if other != l {
				kept = append(kept, other)
			}
		}
		h.listeners = kept
	}
}

// NavigateOptions configures Navigate.
type NavigateOptions struct {
	// State is stored with the new entry and returned in Location.State.
	State any

	// Replace replaces the current entry instead of pushing.
	Replace bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithState attaches state to the new entry.
func WithState(state any) NavigateOption {
	return func(o *NavigateOptions) {
		o.State = state
	}
}

// Navigate goes to the path to (which may include a query and fragment).
//
// The source is updated and listeners are notified before Navigate returns.
// The returned Transition completes when the host calls CompleteTransition.
// If the source refuses the update the navigation falls back to a full
// document navigation; this is logged and never returned as an error.
func (h *History) Navigate(to string, opts ...NavigateOption) *Transition {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}
	st := EntryState{Key: h.keyFunc(), Value: o.State}

	h.mu.Lock()
	replace := o.Replace || h.transitioning
	action := ActionPush
	var err error
	if replace {
		action = ActionReplace
		err = h.source.Replace(to, st)
	} else {
		err = h.source.Push(to, st)
	}
	if err != nil {
		h.source.Assign(to, o.Replace)
	}

	h.location = h.source.Location()
	h.transitioning = true
	t := newTransition(to, action)
	h.pending = append(h.pending, t)
	u := Update{Location: h.location, Action: action}
	listeners := h.listeners
	h.mu.Unlock()

	if err != nil {
		h.logger.Warn("history update failed, falling back to full navigation",
			"to", to, "replace", o.Replace, "error", err)
		for _, ob := range h.observers {
			ob.FallbackUsed(to, err)
		}
	}
	h.logger.Debug("navigate", "to", to, "action", action.String(), "key", u.Location.Key)

	for _, ob := range h.observers {
		ob.TransitionStarted(t)
	}
	h.notify(listeners, u)

	return t
}

// CompleteTransition moves the History back to idle and completes every pending
// transition. Hosts call it once their UI reflects Location, ideally from a
// deferred task rather than synchronously inside a listener.
func (h *History) CompleteTransition() {
	h.mu.Lock()
	if !h.transitioning {
		h.mu.Unlock()
		return
	}
	h.transitioning = false
	pending := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, t := range pending {
		t.complete()
		for _, ob := range h.observers {
			ob.TransitionCompleted(t)
		}
	}
}

// Go moves delta entries through the history. It does not start a transition;
// the new location arrives through the source's pop notification.
func (h *History) Go(delta int) {
	h.logger.Debug("go", "delta", delta)
	h.source.Go(delta)
}

// Back is Go(-1).
func (h *History) Back() { h.Go(-1) }

// Forward is Go(1).
func (h *History) Forward() { h.Go(1) }

func (h *History) handlePop() {
	h.mu.Lock()
	h.location = h.source.Location()
	u := Update{Location: h.location, Action: ActionPop}
	listeners := h.listeners
	h.mu.Unlock()

	h.logger.Debug("pop", "location", u.Location.String(), "key", u.Location.Key)
	h.notify(listeners, u)
}

// notify calls a snapshot of the listeners in subscription order. Listeners
// removed while notification is under way are skipped. Each listener gets the
// location current at the time of its call, so a listener that navigates
// (a redirect) is never followed by a stale location for the rest.
func (h *History) notify(listeners []*listener, u Update) {
	for _, ob := range h.observers {
		ob.Navigated(u)
	}
	for _, l := range listeners {
		if l.removed.Load() {
			continue
		}
		u.Location = h.Location()
		l.fn(u)
	}
}
