package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
)

// AdminService handles moderation and world tuning. Role checks happen in
// the HTTP layer; the reducer enforces the invariants that survive them.
type AdminService struct {
	store       *game.Store
	broadcaster Broadcaster
}

// NewAdminService creates an AdminService.
func NewAdminService(store *game.Store, broadcaster Broadcaster) *AdminService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &AdminService{store: store, broadcaster: broadcaster}
}

// GiftItems credits a player with resources and money.
func (s *AdminService) GiftItems(ctx context.Context, targetID string, resources model.Resources, money int) (*model.User, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionGiftItems,
		Payload: game.GiftItemsPayload{TargetID: targetID, Resources: resources, Money: money},
	})
	if err != nil {
		return nil, err
	}
	return st.UserByID(targetID), nil
}

// RemoveItems debits a player, clamped at zero.
func (s *AdminService) RemoveItems(ctx context.Context, targetID string, resources model.Resources, money int) (*model.User, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionRemoveItems,
		Payload: game.RemoveItemsPayload{TargetID: targetID, Resources: resources, Money: money},
	})
	if err != nil {
		return nil, err
	}
	return st.UserByID(targetID), nil
}

// SetRole changes a user's permission level.
func (s *AdminService) SetRole(ctx context.Context, targetID string, role model.Role) (*model.User, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSetRole,
		Payload: game.SetRolePayload{TargetID: targetID, Role: role},
	})
	if err != nil {
		return nil, err
	}
	return st.UserByID(targetID), nil
}

// Mute silences a user in chat, indefinitely when until is nil.
func (s *AdminService) Mute(ctx context.Context, targetID string, until *time.Time) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionMuteUser,
		Payload: game.MuteUserPayload{TargetID: targetID, Until: until},
	})
	return err
}

// Unmute lifts a mute.
func (s *AdminService) Unmute(ctx context.Context, targetID string) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionUnmuteUser,
		Payload: game.UnmuteUserPayload{TargetID: targetID},
	})
	return err
}

// Timeout blocks a user from all interaction until the given time.
func (s *AdminService) Timeout(ctx context.Context, targetID string, until *time.Time) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionTimeoutUser,
		Payload: game.TimeoutUserPayload{TargetID: targetID, Until: until},
	})
	return err
}

// ClearTimeout lifts a timeout.
func (s *AdminService) ClearTimeout(ctx context.Context, targetID string) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionClearTimeout,
		Payload: game.ClearTimeoutPayload{TargetID: targetID},
	})
	return err
}

// Suspend sets or clears account suspension.
func (s *AdminService) Suspend(ctx context.Context, targetID string, suspended bool) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSuspendUser,
		Payload: game.SuspendUserPayload{TargetID: targetID, Suspended: suspended},
	})
	return err
}

// RemoveUser deletes a player from the world and frees their country.
func (s *AdminService) RemoveUser(ctx context.Context, targetID string) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionRemoveUser,
		Payload: game.RemoveUserPayload{TargetID: targetID},
	})
	if err != nil {
		return err
	}
	s.broadcaster.BroadcastEvent("user_removed", map[string]string{"user_id": targetID})
	return nil
}

// UpdateSettings replaces the world tuning table.
func (s *AdminService) UpdateSettings(ctx context.Context, settings model.GameSettings) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionUpdateSettings,
		Payload: game.UpdateSettingsPayload{Settings: settings},
	})
	if err != nil {
		return err
	}
	s.broadcaster.BroadcastEvent("settings_updated", settings)
	return nil
}

// SetMarketPrices merges price overrides into the market table.
func (s *AdminService) SetMarketPrices(ctx context.Context, prices map[model.Resource]int) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSetMarketPrices,
		Payload: game.SetMarketPricesPayload{Prices: prices},
	})
	if err != nil {
		return err
	}
	s.broadcaster.BroadcastEvent("market_prices", prices)
	return nil
}

// CreateGameEvent publishes a timed world event with market modifiers.
func (s *AdminService) CreateGameEvent(ctx context.Context, title, description string, modifiers map[model.Resource]int, expiresAt time.Time) (*model.GameEvent, error) {
	ev := model.GameEvent{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    description,
		PriceModifiers: modifiers,
		ExpiresAt:      expiresAt,
	}
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionCreateGameEvent,
		Payload: game.CreateGameEventPayload{Event: ev},
	})
	if err != nil {
		return nil, err
	}
	for i := range st.GameEvents {
		if st.GameEvents[i].ID == ev.ID {
			created := st.GameEvents[i]
			s.broadcaster.BroadcastEvent("game_event", created)
			return &created, nil
		}
	}
	return nil, game.ErrInternal
}
