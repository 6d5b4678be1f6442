package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/repository"
	"github.com/efreeman/world-war/api/pkg/battle"
)

// battleResolveDelay is how long after the declaration the battle resolves.
// The window is what retreat and peace proposals race against.
const battleResolveDelay = 20 * time.Second

// stdRand sources loss rolls from math/rand's goroutine-safe global source.
type stdRand struct{}

func (stdRand) Float64() float64 { return rand.Float64() }

// WarService handles war declarations and the delayed battle resolution that
// follows them.
type WarService struct {
	store       *game.Store
	cache       repository.StateCache
	broadcaster Broadcaster
	rng         battle.Rand

	// warLocks prevents concurrent resolution of the same war. Both the
	// keyspace listener and the poller can fire for one expiry; without
	// locking both would race the active-status guard.
	warLocks sync.Map
}

// NewWarService creates a WarService. A nil rng uses math/rand.
func NewWarService(store *game.Store, cache repository.StateCache, broadcaster Broadcaster, rng battle.Rand) *WarService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	if rng == nil {
		rng = stdRand{}
	}
	return &WarService{store: store, cache: cache, broadcaster: broadcaster, rng: rng}
}

// DeclareWar opens a war, pays the committed force up front, and schedules
// the battle resolution timer.
func (s *WarService) DeclareWar(ctx context.Context, aggressorID, defenderID string, force battle.Force) (*model.War, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionDeclareWar,
		Payload: game.DeclareWarPayload{
			WarID:       id,
			AggressorID: aggressorID,
			DefenderID:  defenderID,
			Force:       force,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetWarTimer(ctx, id, time.Now().Add(battleResolveDelay)); err != nil {
		// The poller catches overdue wars, so a lost timer delays but never
		// drops the resolution.
		log.Error().Err(err).Str("warId", id).Msg("Failed to set war resolution timer")
	}

	war := st.WarByID(id)
	s.broadcaster.BroadcastEvent("war_declared", war)
	return war, nil
}

// Reinforce sends an additional force bag to an active war. Any player can
// reinforce, not only the belligerents.
func (s *WarService) Reinforce(ctx context.Context, warID, senderID string, force battle.Force) (*model.War, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSendWarReinforcement,
		Payload: game.SendWarReinforcementPayload{WarID: warID, SenderID: senderID, Force: force},
	})
	if err != nil {
		return nil, err
	}
	war := st.WarByID(warID)
	s.broadcaster.BroadcastEvent("war_reinforced", war)
	return war, nil
}

// Retreat lets the aggressor end the war before resolution. The pending
// timer is cleared; a resolution that already fired is a no-op on the ended
// war either way.
func (s *WarService) Retreat(ctx context.Context, warID, userID string) (*model.War, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionRetreatFromWar,
		Payload: game.RetreatFromWarPayload{WarID: warID, UserID: userID},
	})
	if err != nil {
		return nil, err
	}
	if err := s.cache.ClearWarTimer(ctx, warID); err != nil {
		log.Warn().Err(err).Str("warId", warID).Msg("Failed to clear war resolution timer")
	}
	war := st.WarByID(warID)
	s.broadcaster.BroadcastEvent("war_retreated", war)
	return war, nil
}

// ResolveBattle computes a battle outcome from live holdings and applies it.
// A war that is no longer active when the timer fires is left untouched.
func (s *WarService) ResolveBattle(ctx context.Context, warID string) error {
	lock, _ := s.warLocks.LoadOrStore(warID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	defer s.warLocks.Delete(warID)

	st := s.store.State()
	war := st.WarByID(warID)
	if war == nil {
		log.Warn().Str("warId", warID).Msg("Resolution timer fired for unknown war")
		return nil
	}
	if war.Status != model.WarActive {
		log.Debug().Str("warId", warID).Str("status", string(war.Status)).
			Msg("War no longer active, skipping resolution")
		return nil
	}
	defender := st.UserByID(war.DefenderID)
	if defender == nil {
		return game.ErrUserNotFound
	}

	// The attacker's force is fixed at declaration. Reinforcements are
	// recorded on the war but never enter the resolution formulas.
	result := battle.Resolve(war.AttackForce, game.DefenderStrength(defender), s.rng)

	if _, err := s.store.Dispatch(game.Action{
		Type:    game.ActionUpdateWarStatistics,
		Payload: game.UpdateWarStatisticsPayload{WarID: warID, Result: result},
	}); err != nil {
		if errors.Is(err, game.ErrWarNotActive) {
			// Retreat or peace raced the timer between the read and the
			// dispatch. The reducer's guard makes that race harmless.
			return nil
		}
		return err
	}

	if _, err := s.store.Dispatch(game.Action{
		Type:    game.ActionApplyBattleLosses,
		Payload: game.ApplyBattleLossesPayload{WarID: warID},
	}); err != nil && !errors.Is(err, game.ErrLossesApplied) {
		return err
	}

	log.Info().Str("warId", warID).Str("outcome", string(result.Outcome)).
		Int("attackerPower", result.AttackerPower).Int("defenderPower", result.DefenderPower).
		Msg("Battle resolved")

	s.broadcaster.BroadcastEvent("battle_resolved", s.store.State().WarByID(warID))
	return nil
}

// ResolveOverdueWars resolves active wars whose resolution window has passed.
// Polling fallback for lost timer keys or a restart mid-window.
func (s *WarService) ResolveOverdueWars(ctx context.Context) {
	st := s.store.State()
	cutoff := time.Now().Add(-battleResolveDelay)
	for i := range st.Wars {
		w := &st.Wars[i]
		if w.Status != model.WarActive || w.StartTime.After(cutoff) {
			continue
		}
		log.Info().Str("warId", w.ID).Time("declaredAt", w.StartTime).
			Msg("Poller resolving overdue war")
		if err := s.ResolveBattle(ctx, w.ID); err != nil {
			log.Error().Err(err).Str("warId", w.ID).Msg("Battle resolution failed from poller")
		}
	}
}
