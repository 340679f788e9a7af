package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Change describes a write to one key.
type Change struct {
	Key     string
	Value   string
	Deleted bool
	// Remote is true when the write came from another context.
	Remote bool
}

// Store is the persistence capability shared by every view.
type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set replaces the whole value stored under key.
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Subscribe registers fn for changes to exactly key, local or remote.
	// The returned function removes the subscription.
	Subscribe(key string, fn func(Change)) (cancel func())
	Close() error
}

// ReadStrings decodes a JSON string array stored under key. A missing key
// yields nil with no error; malformed JSON yields an error so callers can
// decide how to degrade.
func ReadStrings(ctx context.Context, s Store, key string) ([]string, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	return ParseStrings(raw)
}

// WriteStrings stores values as a JSON string array under key.
func WriteStrings(ctx context.Context, s Store, key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// ParseStrings decodes a raw JSON string array.
func ParseStrings(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("parse string list: %w", err)
	}
	return values, nil
}

type subscription struct {
	key string
	fn  func(Change)
}

// hub fans changes out to key subscribers. Callbacks run synchronously on
// the publishing goroutine and must not block.
type hub struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

func (h *hub) subscribe(key string, fn func(Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]subscription)
	}
	id := h.next
	h.next++
	h.subs[id] = subscription{key: key, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(c Change) {
	h.mu.RLock()
	ids := make([]int, 0, len(h.subs))
	for id, sub := range h.subs {
		if sub.key == c.Key {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.subs[id].fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
