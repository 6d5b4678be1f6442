package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/repository"
)

// Persister mirrors every committed state transition into the snapshot cache
// and restores the tree on startup.
type Persister struct {
	cache repository.StateCache
}

// NewPersister creates a Persister.
func NewPersister(cache repository.StateCache) *Persister {
	return &Persister{cache: cache}
}

// Attach subscribes the persister to the store. Writes happen on the
// dispatch path; a failed write is logged and the next transition retries.
func (p *Persister) Attach(store *game.Store) {
	store.Subscribe(func(_, next *game.State, _ game.Action) {
		data, err := json.Marshal(next)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal state snapshot")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.cache.SaveSnapshot(ctx, data); err != nil {
			log.Error().Err(err).Msg("Failed to save state snapshot")
		}
	})
}

// Restore loads the persisted snapshot into the store. A missing snapshot is
// a fresh world; a corrupt one is discarded with a warning.
func (p *Persister) Restore(ctx context.Context, store *game.Store) error {
	data, err := p.cache.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	if data == nil {
		log.Info().Msg("No state snapshot found, starting fresh")
		return nil
	}

	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		log.Warn().Err(err).Msg("Discarding corrupt state snapshot")
		return nil
	}

	if _, err := store.Dispatch(game.Action{
		Type:    game.ActionLoadData,
		Payload: game.LoadDataPayload{State: &st},
	}); err != nil {
		return err
	}
	log.Info().Int("users", len(st.Users)).Int("wars", len(st.Wars)).
		Msg("Restored state snapshot")
	return nil
}
