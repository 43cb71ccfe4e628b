package session

import "sync"

// Store is a concurrent mapping from session identifier to at most one
// live Challenge. Install, Remove, and CompareAndRemove are atomic with
// respect to each other for a given identifier, which upholds the
// at-most-one-live-session invariant under concurrent generate, remove,
// and regenerate calls. Disposal of displaced challenges happens outside
// the store lock.
type Store struct {
	mu         sync.RWMutex
	challenges map[string]*Challenge
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{challenges: make(map[string]*Challenge)}
}

// Get returns the challenge for the identifier, if any. Callers that need
// liveness must additionally check Disposed.
func (s *Store) Get(id string) (*Challenge, bool) {
	s.mu.RLock()
	ch, ok := s.challenges[id]
	s.mu.RUnlock()
	return ch, ok
}

// Install atomically swaps the challenge for the identifier and disposes
// the displaced one, if any. The new challenge must be fully formed: the
// store publishes it as-is.
func (s *Store) Install(id string, ch *Challenge) {
	s.mu.Lock()
	old := s.challenges[id]
	s.challenges[id] = ch
	s.mu.Unlock()

	if old != nil {
		old.Dispose()
	}
}

// Remove atomically removes and disposes the challenge for the
// identifier. It returns the removed challenge, or nil if none existed.
func (s *Store) Remove(id string) *Challenge {
	s.mu.Lock()
	ch, ok := s.challenges[id]
	if ok {
		delete(s.challenges, id)
	}
	s.mu.Unlock()

	if ch != nil {
		ch.Dispose()
	}
	return ch
}

// CompareAndRemove removes and disposes the entry for the identifier only
// if it is still the given challenge, so a completion path cannot tear
// down a replacement installed concurrently. It reports whether the entry
// was removed.
func (s *Store) CompareAndRemove(id string, ch *Challenge) bool {
	s.mu.Lock()
	current, ok := s.challenges[id]
	if !ok || current != ch {
		s.mu.Unlock()
		return false
	}
	delete(s.challenges, id)
	s.mu.Unlock()

	ch.Dispose()
	return true
}

// Len returns the number of stored challenges.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.challenges)
}

// IDs returns a snapshot of the stored session identifiers. Host-side
// policy layers (e.g. idle-session sweeps) build on this.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.challenges))
	for id := range s.challenges {
		ids = append(ids, id)
	}
	return ids
}
