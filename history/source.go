package history

// Source is the underlying store of history entries, such as the browser's
// window.history or an in-memory stack. A History wraps a Source and never keeps
// its own copy of the entries.
type Source interface {
	// Location returns the current entry.
	Location() Location

	// Push adds an entry after the current one and makes it current.
	Push(to string, state EntryState) error

	// Replace overwrites the current entry.
	Replace(to string, state EntryState) error

	// Go moves delta entries back (negative) or forward (positive).
	// Out of range moves are ignored.
	Go(delta int)

	// Assign performs a full (document) navigation. It is the fallback when
	// Push or Replace fail.
	Assign(to string, replace bool)

	// OnPop registers fn to be called whenever the current entry changes
	// through Go or an external back/forward action.
	OnPop(fn func()) (remove func())
}
