package service

import (
	"testing"
	"time"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
)

// worldStore builds a store with two players who settled their countries
// long enough ago that shield protection has lapsed.
func worldStore(t *testing.T) *game.Store {
	t.Helper()
	store := game.NewStore(game.NewState(model.DefaultSettings()))
	past := time.Now().Add(-72 * time.Hour)

	for _, u := range []struct{ id, name, country string }{
		{"alice", "alice", "usa"},
		{"bob", "bob", "rus"},
	} {
		mustDispatch(t, store, game.Action{
			Type: game.ActionRegister,
			Now:  past,
			Payload: game.RegisterPayload{
				UserID: u.id, Username: u.name, DisplayName: u.name,
			},
		})
		mustDispatch(t, store, game.Action{
			Type:    game.ActionSelectCountry,
			Now:     past,
			Payload: game.SelectCountryPayload{UserID: u.id, CountryID: u.country},
		})
	}
	return store
}

func mustDispatch(t *testing.T, store *game.Store, a game.Action) *game.State {
	t.Helper()
	st, err := store.Dispatch(a)
	if err != nil {
		t.Fatalf("dispatch %s: %v", a.Type, err)
	}
	return st
}
