package history

// Observer receives notifications about navigation for instrumentation.
// Calls happen outside of the History lock, on the goroutine that caused them.
type Observer interface {
	// Navigated is called after every location change, including pops.
	Navigated(u Update)

	// TransitionStarted is called when Navigate starts a transition.
	TransitionStarted(t *Transition)

	// TransitionCompleted is called for every transition resolved by CompleteTransition.
	TransitionCompleted(t *Transition)

	// FallbackUsed is called when the source refused a push or replace and a
	// full document navigation was performed instead.
	FallbackUsed(to string, err error)
}

// NopObserver implements Observer and does nothing. Embed it to implement
// only some of the methods.
type NopObserver struct{}

func (NopObserver) Navigated(Update)                {}
func (NopObserver) TransitionStarted(*Transition)   {}
func (NopObserver) TransitionCompleted(*Transition) {}
func (NopObserver) FallbackUsed(string, error)      {}
