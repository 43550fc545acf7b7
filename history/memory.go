package history

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MemorySource stores entries in memory, for tests and for hosts without a
// browser. Pushing after going back drops the forward entries, as browsers do.
type MemorySource struct {
	mu      sync.Mutex
	entries []Location
	index   int

	popMu sync.Mutex
	onPop []*func()
}

// NewMemorySource returns a source with a single entry for initial
// ("/" if empty). initial may include a query and fragment.
func NewMemorySource(initial string) *MemorySource {
	if initial == "" {
		initial = "/"
	}
	return &MemorySource{
		entries: []Location{parseLocation(initial)},
	}
}

// Location implements Source.
func (s *MemorySource) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.index]
}

// Push implements Source.
func (s *MemorySource) Push(to string, state EntryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := s.locationFor(to, state)
	s.entries = append(s.entries[:s.index+1], loc)
	s.index++
	return nil
}

// Replace implements Source.
func (s *MemorySource) Replace(to string, state EntryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.index] = s.locationFor(to, state)
	return nil
}

func (s *MemorySource) locationFor(to string, state EntryState) Location {
	loc := parseLocation(resolveAgainst(s.entries[s.index], to))
	loc.State = state.Value
	loc.Key = state.Key
	return loc
}

// Go implements Source. Moves that would leave the stack are ignored.
func (s *MemorySource) Go(delta int) {
	s.mu.Lock()
	next := s.index + delta
	if delta == 0 || next < 0 || next >= len(s.entries) {
		s.mu.Unlock()
		return
	}
	s.index = next
	s.mu.Unlock()

	s.firePop()
}

// Assign implements Source. There is no document to reload in memory so this
// behaves like Push or Replace without state.
func (s *MemorySource) Assign(to string, replace bool) {
	if replace {
		_ = s.Replace(to, EntryState{})
		return
	}
	_ = s.Push(to, EntryState{})
}

// OnPop implements Source.
func (s *MemorySource) OnPop(fn func()) (remove func()) {
	p := &fn

	s.popMu.Lock()
	s.onPop = append(s.onPop, p)
	s.popMu.Unlock()

	return func() {
		s.popMu.Lock()
		defer s.popMu.Unlock()
		kept := make([]*func(), 0, len(s.onPop))
		for _, q := range s.onPop {
			if q != p {
				kept = append(kept, q)
			}
		}
		s.onPop = kept
	}
}

func (s *MemorySource) firePop() {
	s.popMu.Lock()
	fns := s.onPop
	s.popMu.Unlock()

	for _, fn := range fns {
		(*fn)()
	}
}

// Entries returns a copy of the stack.
func (s *MemorySource) Entries() []Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]Location, len(s.entries))
	copy(ret, s.entries)
	return ret
}

// Index returns the position of the current entry in Entries.
func (s *MemorySource) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

type memorySnapshot struct {
	Entries []snapshotEntry `msgpack:"entries"`
	Index   int             `msgpack:"index"`
}

type snapshotEntry struct {
	Pathname string `msgpack:"pathname"`
	Search   string `msgpack:"search,omitempty"`
	Hash     string `msgpack:"hash,omitempty"`
	Key      string `msgpack:"key,omitempty"`
	State    any    `msgpack:"state,omitempty"`
}

// Snapshot encodes the stack with msgpack so a host can persist it.
// State values go through msgpack, so after RestoreMemorySource they come
// back as generic values (maps, slices, strings, numbers).
func (s *MemorySource) Snapshot() ([]byte, error) {
	s.mu.Lock()
	snap := memorySnapshot{Index: s.index, Entries: make([]snapshotEntry, len(s.entries))}
	for i, e := range s.entries {
		snap.Entries[i] = snapshotEntry{
			Pathname: e.Pathname,
			Search:   e.Search,
			Hash:     e.Hash,
			Key:      e.Key,
			State:    e.State,
		}
	}
	s.mu.Unlock()

	return msgpack.Marshal(&snap)
}

// RestoreMemorySource decodes a Snapshot.
func RestoreMemorySource(b []byte) (*MemorySource, error) {
	var snap memorySnapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	if len(snap.Entries) == 0 {
		return NewMemorySource("/"), nil
	}

	s := &MemorySource{
		entries: make([]Location, len(snap.Entries)),
	}
	for i, e := range snap.Entries {
		s.entries[i] = Location{
			Pathname: e.Pathname,
			Search:   e.Search,
			Hash:     e.Hash,
			Key:      e.Key,
			State:    e.State,
		}
	}
	s.index = snap.Index
	if s.index < 0 || s.index >= len(s.entries) {
		s.index = len(s.entries) - 1
	}
	return s, nil
}
