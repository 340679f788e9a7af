// Package comments manages per-character comment logs stored under
// "comments-<id>" keys.
package comments

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/citadel/internal/kv"
)

const keyPrefix = "comments-"

// Key returns the store key for a character's comment log.
func Key(characterID string) string {
	return keyPrefix + characterID
}

// Manager reads and writes comment logs.
type Manager struct {
	store kv.Store
	log   *zap.Logger
}

// NewManager returns a Manager over store.
func NewManager(store kv.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, log: logger.Named("comments")}
}

// Load returns the comments for characterID in insertion order, or an empty
// log when absent or malformed.
func (m *Manager) Load(ctx context.Context, characterID string) []string {
	values, err := kv.ReadStrings(ctx, m.store, Key(characterID))
	if err != nil {
		m.log.Debug("comment log unreadable; using empty log", zap.String("id", characterID), zap.Error(err))
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

// Add appends text unless it is blank. Blank input returns the current log
// without writing.
func (m *Manager) Add(ctx context.Context, characterID, text string) ([]string, error) {
	log := m.Load(ctx, characterID)
	if strings.TrimSpace(text) == "" {
		return log, nil
	}
	log = append(log, text)
	if err := kv.WriteStrings(ctx, m.store, Key(characterID), log); err != nil {
		return nil, err
	}
	return log, nil
}

// Remove deletes the comment at index. An out-of-range index returns the
// current log without writing.
func (m *Manager) Remove(ctx context.Context, characterID string, index int) ([]string, error) {
	log := m.Load(ctx, characterID)
	if index < 0 || index >= len(log) {
		return log, nil
	}
	log = slices.Delete(log, index, index+1)
	if err := kv.WriteStrings(ctx, m.store, Key(characterID), log); err != nil {
		return nil, err
	}
	return log, nil
}

// Watch calls fn with the new log whenever characterID's key changes.
func (m *Manager) Watch(characterID string, fn func([]string)) (cancel func()) {
	return m.store.Subscribe(Key(characterID), func(c kv.Change) {
		if c.Deleted {
			fn([]string{})
			return
		}
		values, err := kv.ParseStrings(c.Value)
		if err != nil || values == nil {
			fn([]string{})
			return
		}
		fn(values)
	})
}
