package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/citadel/internal/rickmorty"
	"github.com/five82/citadel/internal/state"
)

// Refresh performs one list fetch and records the outcome in store. A failed
// fetch keeps the previous list and is returned to the caller.
func Refresh(ctx context.Context, store *state.Store, source rickmorty.CharacterSource, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	store.BeginLoad()
	characters, err := source.FetchCharacters(ctx)
	if err != nil {
		store.Update(nil, err)
		logger.Warn("character list fetch failed", zap.Error(err))
		return err
	}
	store.Update(characters, nil)
	logger.Debug("character list loaded", zap.Int("count", len(characters)))
	return nil
}
