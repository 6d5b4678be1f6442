package game

import (
	"github.com/efreeman/world-war/api/internal/model"
)

// Moderation and admin state changes. Authorization (who may dispatch these)
// is enforced by the caller; the reducer only applies them.

func (s *State) giftItems(a Action) (*State, error) {
	p := a.Payload.(GiftItemsPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, creditUser(s.Users[ui], p.Resources, p.Money))
	next.notify(p.TargetID, "items_gifted", "An administrator sent you items", a.Now)
	return next, nil
}

// removeItems debits with clamping: requesting more than held zeroes the
// balance rather than going negative.
func (s *State) removeItems(a Action) (*State, error) {
	p := a.Payload.(RemoveItemsPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, debitUser(s.Users[ui], p.Resources, p.Money))
	return next, nil
}

func (s *State) setRole(a Action) (*State, error) {
	p := a.Payload.(SetRolePayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	if p.Role != model.RolePlayer && p.Role != model.RoleAssistant && p.Role != model.RoleAdmin {
		return s, ErrNotPermitted
	}
	u := s.Users[ui]
	u.Role = p.Role
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, u)
	return next, nil
}

func (s *State) muteUser(a Action) (*State, error) {
	p := a.Payload.(MuteUserPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	u := s.Users[ui]
	u.IsMuted = true
	u.MuteExpiresAt = p.Until
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, u)
	return next, nil
}

func (s *State) unmuteUser(a Action) (*State, error) {
	p := a.Payload.(UnmuteUserPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	u := s.Users[ui]
	u.IsMuted = false
	u.MuteExpiresAt = nil
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, u)
	return next, nil
}

func (s *State) timeoutUser(a Action) (*State, error) {
	p := a.Payload.(TimeoutUserPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	u := s.Users[ui]
	u.IsTimedOut = true
	u.TimeoutExpiresAt = p.Until
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, u)
	return next, nil
}

func (s *State) clearTimeout(a Action) (*State, error) {
	p := a.Payload.(ClearTimeoutPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	u := s.Users[ui]
	u.IsTimedOut = false
	u.TimeoutExpiresAt = nil
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, u)
	return next, nil
}

func (s *State) suspendUser(a Action) (*State, error) {
	p := a.Payload.(SuspendUserPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	u := s.Users[ui]
	u.IsSuspended = p.Suspended
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, u)
	return next, nil
}

// removeUser deletes the user and frees their country's occupancy. The only
// hard-delete path in the system.
func (s *State) removeUser(a Action) (*State, error) {
	p := a.Payload.(RemoveUserPayload)
	ui := s.UserIndex(p.TargetID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	removed := s.Users[ui]

	users := make([]model.User, 0, len(s.Users)-1)
	for i := range s.Users {
		if i != ui {
			users = append(users, s.Users[i])
		}
	}

	next := s.shallow()
	next.Users = users
	if removed.CountryID != "" {
		if ci := s.CountryIndex(removed.CountryID); ci >= 0 {
			country := s.Countries[ci]
			country.IsOccupied = false
			country.OccupiedBy = ""
			next.Countries = replaceCountry(s.Countries, ci, country)
		}
	}
	if s.CurrentUserID == p.TargetID {
		next.CurrentUserID = ""
	}
	return next, nil
}

func (s *State) updateSettings(a Action) (*State, error) {
	p := a.Payload.(UpdateSettingsPayload)
	next := s.shallow()
	next.Settings = p.Settings
	return next, nil
}

func (s *State) setMarketPrices(a Action) (*State, error) {
	p := a.Payload.(SetMarketPricesPayload)
	if len(p.Prices) == 0 {
		return s, nil
	}
	settings := s.Settings
	prices := make(map[model.Resource]int, len(settings.MarketPrices))
	for r, v := range settings.MarketPrices {
		prices[r] = v
	}
	for r, v := range p.Prices {
		if v > 0 {
			prices[r] = v
		}
	}
	settings.MarketPrices = prices
	next := s.shallow()
	next.Settings = settings
	return next, nil
}

func (s *State) createGameEvent(a Action) (*State, error) {
	p := a.Payload.(CreateGameEventPayload)
	if p.Event.ID == "" {
		return s, nil
	}
	ev := p.Event
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = a.Now
	}
	next := s.shallow()
	next.GameEvents = appended(s.GameEvents, ev)
	return next, nil
}
