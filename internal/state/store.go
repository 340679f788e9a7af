package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/citadel/internal/rickmorty"
)

// Snapshot represents the latest character list available to views.
type Snapshot struct {
	Characters  []rickmorty.Character
	Loaded      bool // at least one fetch succeeded
	Loading     bool
	LastUpdated time.Time
	LastError   error
}

// Pending reports whether views should still show a loading placeholder.
func (s Snapshot) Pending() bool {
	return !s.Loaded && s.LastError == nil
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// BeginLoad marks a fetch as in flight.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Loading = true
}

// Update records a fetch result. When err is non-nil the previous list is
// kept but the error is recorded for visibility.
func (s *Store) Update(characters []rickmorty.Character, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		return
	}
	s.snapshot.Characters = cloneCharacters(characters)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Characters = cloneCharacters(s.snapshot.Characters)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneCharacters(items []rickmorty.Character) []rickmorty.Character {
	if len(items) == 0 {
		return nil
	}
	dup := make([]rickmorty.Character, len(items))
	copy(dup, items)
	return dup
}
