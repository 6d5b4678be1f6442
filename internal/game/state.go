// Package game holds the authoritative state tree and the reducer that is the
// only mutation path into it. Every update is copy-on-write: a handler never
// modifies an entity reachable from the previous tree, so consumers can detect
// change by comparing references.
package game

import (
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

// State is the complete game state at a point in time. Treat a *State
// obtained from the store as immutable.
type State struct {
	Users               []model.User               `json:"users"`
	Countries           []model.Country            `json:"countries"`
	Wars                []model.War                `json:"wars"`
	TradeProposals      []model.TradeProposal      `json:"trade_proposals"`
	SupportRequests     []model.SupportRequest     `json:"support_requests"`
	PeaceProposals      []model.PeaceProposal      `json:"peace_proposals"`
	AllianceInvitations []model.AllianceInvitation `json:"alliance_invitations"`
	Alliances           []model.Alliance           `json:"alliances"`
	Messages            []model.Message            `json:"messages"`
	GameEvents          []model.GameEvent          `json:"game_events"`
	Notifications       []model.Notification       `json:"notifications"`
	Settings            model.GameSettings         `json:"settings"`

	// CurrentUserID is the session user as a derived lookup into Users,
	// never a duplicated copy of the record.
	CurrentUserID string `json:"current_user_id,omitempty"`
}

// NewState returns a fresh tree with the given settings and the built-in
// country catalog, no users, and nothing in flight.
func NewState(settings model.GameSettings) *State {
	return &State{
		Countries: CountryCatalog(),
		Settings:  settings,
	}
}

// shallow returns a copy of the state struct itself. Handlers replace the
// slices they touch; untouched slices stay shared with the previous tree.
func (s *State) shallow() *State {
	c := *s
	return &c
}

// UserIndex returns the index of the user in Users, or -1.
func (s *State) UserIndex(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// UserByID returns the user with the given ID, or nil.
func (s *State) UserByID(id string) *model.User {
	if i := s.UserIndex(id); i >= 0 {
		return &s.Users[i]
	}
	return nil
}

// CurrentUser returns the session user's record, or nil when nobody is
// logged in.
func (s *State) CurrentUser() *model.User {
	if s.CurrentUserID == "" {
		return nil
	}
	return s.UserByID(s.CurrentUserID)
}

// CountryIndex returns the index of the country in Countries, or -1.
func (s *State) CountryIndex(id string) int {
	for i := range s.Countries {
		if s.Countries[i].ID == id {
			return i
		}
	}
	return -1
}

// CountryByID returns the country with the given ID, or nil.
func (s *State) CountryByID(id string) *model.Country {
	if i := s.CountryIndex(id); i >= 0 {
		return &s.Countries[i]
	}
	return nil
}

// WarIndex returns the index of the war in Wars, or -1.
func (s *State) WarIndex(id string) int {
	for i := range s.Wars {
		if s.Wars[i].ID == id {
			return i
		}
	}
	return -1
}

// WarByID returns the war with the given ID, or nil.
func (s *State) WarByID(id string) *model.War {
	if i := s.WarIndex(id); i >= 0 {
		return &s.Wars[i]
	}
	return nil
}

// ActiveWarBetween returns the index of the active war with the given ordered
// aggressor/defender pair, or -1.
func (s *State) ActiveWarBetween(aggressorID, defenderID string) int {
	for i := range s.Wars {
		w := &s.Wars[i]
		if w.Status == model.WarActive && w.AggressorID == aggressorID && w.DefenderID == defenderID {
			return i
		}
	}
	return -1
}

// WarBetweenEitherDirection returns the index of a non-ended war involving
// both users in either role, or -1. Used by peace proposals.
func (s *State) WarBetweenEitherDirection(a, b string) int {
	for i := range s.Wars {
		w := &s.Wars[i]
		if w.Status == model.WarEnded {
			continue
		}
		if (w.AggressorID == a && w.DefenderID == b) || (w.AggressorID == b && w.DefenderID == a) {
			return i
		}
	}
	return -1
}

// SharedAlliance reports whether both users belong to one alliance.
func (s *State) SharedAlliance(a, b string) bool {
	for i := range s.Alliances {
		al := &s.Alliances[i]
		if al.HasMember(a) && al.HasMember(b) {
			return true
		}
	}
	return false
}

// AllianceByName returns the index of the alliance with the exact given name,
// or -1. Name matching is case-sensitive.
func (s *State) AllianceByName(name string) int {
	for i := range s.Alliances {
		if s.Alliances[i].Name == name {
			return i
		}
	}
	return -1
}

// TradeIndex returns the index of the trade proposal, or -1.
func (s *State) TradeIndex(id string) int {
	for i := range s.TradeProposals {
		if s.TradeProposals[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceUser returns a copy of users with index i replaced.
func replaceUser(users []model.User, i int, u model.User) []model.User {
	next := make([]model.User, len(users))
	copy(next, users)
	next[i] = u
	return next
}

// replaceCountry returns a copy of countries with index i replaced.
func replaceCountry(countries []model.Country, i int, c model.Country) []model.Country {
	next := make([]model.Country, len(countries))
	copy(next, countries)
	next[i] = c
	return next
}

// replaceWar returns a copy of wars with index i replaced.
func replaceWar(wars []model.War, i int, w model.War) []model.War {
	next := make([]model.War, len(wars))
	copy(next, wars)
	next[i] = w
	return next
}

// replaceTrade returns a copy of proposals with index i replaced.
func replaceTrade(trades []model.TradeProposal, i int, t model.TradeProposal) []model.TradeProposal {
	next := make([]model.TradeProposal, len(trades))
	copy(next, trades)
	next[i] = t
	return next
}

// appended returns a copy of the slice with v appended, never aliasing the
// original backing array.
func appended[T any](xs []T, v T) []T {
	next := make([]T, len(xs), len(xs)+1)
	copy(next, xs)
	return append(next, v)
}

// notify appends a notification for the given user to the next tree,
// expiring after the settings TTL. The ID is derived from the action time so
// the reducer stays deterministic.
func (s *State) notify(userID, kind, text string, now time.Time) {
	ttl := time.Duration(s.Settings.NotificationTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	s.Notifications = appended(s.Notifications, model.Notification{
		ID:        userID + ":" + kind + ":" + now.UTC().Format("20060102T150405.000000000"),
		UserID:    userID,
		Kind:      kind,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
}
