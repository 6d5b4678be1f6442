package game

import (
	"testing"
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testState builds a tree with the default settings and the given users.
func testState(users ...model.User) *State {
	s := NewState(model.DefaultSettings())
	s.Users = users
	return s
}

// testUser builds a user with a country already selected long before t0, so
// the shield window has lapsed.
func testUser(id string, money int, res model.Resources) model.User {
	selected := t0.Add(-72 * time.Hour)
	if res == nil {
		res = model.Resources{}
	}
	return model.User{
		ID:                id,
		Username:          id,
		Role:              model.RolePlayer,
		Resources:         res,
		Money:             money,
		CountryID:         "c-" + id,
		CountrySelectedAt: &selected,
		CreatedAt:         selected,
	}
}

func dispatch(t *testing.T, s *State, typ ActionType, payload any) *State {
	t.Helper()
	next, err := Reduce(s, Action{Type: typ, Now: t0, Payload: payload})
	if err != nil {
		t.Fatalf("%s rejected: %v", typ, err)
	}
	return next
}

func dispatchAt(t *testing.T, s *State, typ ActionType, payload any, now time.Time) *State {
	t.Helper()
	next, err := Reduce(s, Action{Type: typ, Now: now, Payload: payload})
	if err != nil {
		t.Fatalf("%s rejected: %v", typ, err)
	}
	return next
}

// rejected asserts the action fails with wantErr and returns the same state
// reference (no partial application).
func rejected(t *testing.T, s *State, typ ActionType, payload any, wantErr error) {
	t.Helper()
	next, err := Reduce(s, Action{Type: typ, Now: t0, Payload: payload})
	if err != wantErr {
		t.Fatalf("%s error = %v, want %v", typ, err, wantErr)
	}
	if next != s {
		t.Fatalf("%s changed state on rejection", typ)
	}
}
