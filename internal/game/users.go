package game

import (
	"strings"

	"github.com/efreeman/world-war/api/internal/model"
)

const maxMessageHistory = 500

func (s *State) register(a Action) (*State, error) {
	p := a.Payload.(RegisterPayload)
	if s.UserByID(p.UserID) != nil {
		return s, ErrUserExists
	}
	for i := range s.Users {
		if s.Users[i].Username == p.Username {
			return s, ErrUserExists
		}
	}
	role := p.Role
	if role == "" {
		role = model.RolePlayer
	}
	u := model.User{
		ID:          p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Role:        role,
		Resources:   s.Settings.StartingResources.Clone(),
		Money:       s.Settings.StartingMoney,
		CreatedAt:   a.Now,
	}
	next := s.shallow()
	next.Users = appended(s.Users, u)
	return next, nil
}

func (s *State) login(a Action) (*State, error) {
	p := a.Payload.(LoginPayload)
	if s.UserByID(p.UserID) == nil {
		return s, ErrUserNotFound
	}
	next := s.shallow()
	next.CurrentUserID = p.UserID
	return next, nil
}

func (s *State) logout(Action) (*State, error) {
	if s.CurrentUserID == "" {
		return s, nil
	}
	next := s.shallow()
	next.CurrentUserID = ""
	return next, nil
}

// selectCountry assigns a free country to a user who holds none. Occupancy is
// one-to-one and irreversible from the player's side.
func (s *State) selectCountry(a Action) (*State, error) {
	p := a.Payload.(SelectCountryPayload)
	ui := s.UserIndex(p.UserID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	ci := s.CountryIndex(p.CountryID)
	if ci < 0 {
		return s, ErrCountryNotFound
	}
	if s.Users[ui].CountryID != "" {
		return s, ErrCountrySelected
	}
	if s.Countries[ci].IsOccupied {
		return s, ErrCountryOccupied
	}

	country := s.Countries[ci]
	country.IsOccupied = true
	country.OccupiedBy = p.UserID

	now := a.Now
	user := creditUser(s.Users[ui], country.Resources, 0)
	user.CountryID = p.CountryID
	user.CountrySelectedAt = &now
	user.Buildings = make(map[string]int, len(s.Settings.DefaultBuildingLevels))
	for b, lvl := range s.Settings.DefaultBuildingLevels {
		user.Buildings[b] = lvl
	}

	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, user)
	next.Countries = replaceCountry(s.Countries, ci, country)
	return next, nil
}

// sendMessage appends a chat message, gated on the sender's moderation flags.
// History is capped; the oldest messages roll off.
func (s *State) sendMessage(a Action) (*State, error) {
	p := a.Payload.(SendMessagePayload)
	u := s.UserByID(p.SenderID)
	if u == nil {
		return s, ErrUserNotFound
	}
	if !u.CanChat(a.Now) {
		return s, ErrMuted
	}
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return s, nil
	}
	msg := model.Message{
		ID:          p.MessageID,
		SenderID:    p.SenderID,
		RecipientID: p.RecipientID,
		Content:     content,
		CreatedAt:   a.Now,
	}
	next := s.shallow()
	msgs := appended(s.Messages, msg)
	if len(msgs) > maxMessageHistory {
		msgs = msgs[len(msgs)-maxMessageHistory:]
	}
	next.Messages = msgs
	return next, nil
}

func (s *State) loadData(a Action) (*State, error) {
	p := a.Payload.(LoadDataPayload)
	if p.State == nil {
		return s, nil
	}
	return p.State, nil
}
