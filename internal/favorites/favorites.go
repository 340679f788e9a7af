// Package favorites manages the starred character set stored under the
// "favorites" key.
package favorites

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/five82/citadel/internal/kv"
)

// Key is the store key holding the favorite set.
const Key = "favorites"

// Set is an insertion-ordered, duplicate-free list of character ids.
type Set []string

// NewSet builds a Set from ids, dropping duplicates and keeping first
// occurrences.
func NewSet(ids ...string) Set {
	seen := make(map[string]struct{}, len(ids))
	out := make(Set, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Contains reports whether id is starred.
func (s Set) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Lookup returns the set as a map for repeated membership tests.
func (s Set) Lookup() map[string]bool {
	m := make(map[string]bool, len(s))
	for _, id := range s {
		m[id] = true
	}
	return m
}

// Manager reads and writes the favorite set. It is the only writer of Key.
type Manager struct {
	store kv.Store
	log   *zap.Logger
}

// NewManager returns a Manager over store.
func NewManager(store kv.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, log: logger.Named("favorites")}
}

// Load returns the stored set. Missing, unreadable or malformed data is an
// empty set.
func (m *Manager) Load(ctx context.Context) Set {
	ids, err := kv.ReadStrings(ctx, m.store, Key)
	if err != nil {
		m.log.Debug("favorites unreadable; using empty set", zap.Error(err))
		return Set{}
	}
	return NewSet(ids...)
}

// IsFavorite reports whether id is in the stored set.
func (m *Manager) IsFavorite(ctx context.Context, id string) bool {
	return m.Load(ctx).Contains(id)
}

// Toggle removes id when present and appends it otherwise, then writes the
// whole set back.
func (m *Manager) Toggle(ctx context.Context, id string) (Set, error) {
	set := m.Load(ctx)
	if i := slices.Index(set, id); i >= 0 {
		set = slices.Delete(set, i, i+1)
	} else {
		set = append(set, id)
	}
	return set, m.save(ctx, set)
}

// Add stars id. Adding a starred id does not write.
func (m *Manager) Add(ctx context.Context, id string) (Set, error) {
	set := m.Load(ctx)
	if set.Contains(id) {
		return set, nil
	}
	set = append(set, id)
	return set, m.save(ctx, set)
}

// Remove unstars id. Removing an unstarred id does not write.
func (m *Manager) Remove(ctx context.Context, id string) (Set, error) {
	set := m.Load(ctx)
	i := slices.Index(set, id)
	if i < 0 {
		return set, nil
	}
	set = slices.Delete(set, i, i+1)
	return set, m.save(ctx, set)
}

// Watch calls fn with the re-read set after every change to Key, including
// writes from other contexts.
func (m *Manager) Watch(fn func(Set)) (cancel func()) {
	return m.store.Subscribe(Key, func(c kv.Change) {
		if c.Deleted {
			fn(Set{})
			return
		}
		ids, err := kv.ParseStrings(c.Value)
		if err != nil {
			m.log.Debug("malformed favorites change", zap.Bool("remote", c.Remote), zap.Error(err))
			fn(Set{})
			return
		}
		fn(NewSet(ids...))
	})
}

func (m *Manager) save(ctx context.Context, set Set) error {
	if err := kv.WriteStrings(ctx, m.store, Key, set); err != nil {
		return err
	}
	m.log.Debug("favorites saved", zap.Int("count", len(set)))
	return nil
}
