package service

import (
	"context"
	"testing"
	"time"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/pkg/battle"
)

func TestDeclareWarSetsResolutionTimer(t *testing.T) {
	store := worldStore(t)
	cache := newMockCache()
	bc := &mockBroadcaster{}
	svc := NewWarService(store, cache, bc, fixedRand{0.5})

	war, err := svc.DeclareWar(context.Background(), "alice", "bob", battle.Force{Soldiers: 50, Tanks: 5})
	if err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	if war.Status != model.WarActive {
		t.Errorf("status = %s, want active", war.Status)
	}
	if !cache.hasTimer(war.ID) {
		t.Error("expected a resolution timer for the new war")
	}

	// 100 starting soldiers plus the 95 country bonus, minus the 50 committed.
	alice := store.State().UserByID("alice")
	if got := alice.Resources[model.ResourceSoldiers]; got != 145 {
		t.Errorf("aggressor soldiers = %d, want 145 after committing 50", got)
	}
	if got := alice.Resources[model.ResourceTanks]; got != 5 {
		t.Errorf("aggressor tanks = %d, want 5 after committing 5", got)
	}

	types := bc.eventTypes()
	if len(types) == 0 || types[len(types)-1] != "war_declared" {
		t.Errorf("broadcast types = %v, want trailing war_declared", types)
	}
}

func TestDeclareWarRejectionsDoNotSetTimer(t *testing.T) {
	store := worldStore(t)
	cache := newMockCache()
	svc := NewWarService(store, cache, nil, nil)

	if _, err := svc.DeclareWar(context.Background(), "alice", "alice", battle.Force{Soldiers: 1}); err == nil {
		t.Fatal("expected self-target declaration to fail")
	}
	if len(cache.timers) != 0 {
		t.Errorf("timers = %v, want none after rejection", cache.timers)
	}
}

func TestResolveBattleAppliesResult(t *testing.T) {
	store := worldStore(t)
	cache := newMockCache()
	svc := NewWarService(store, cache, nil, fixedRand{0.5})

	war, err := svc.DeclareWar(context.Background(), "alice", "bob", battle.Force{Soldiers: 50})
	if err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	if err := svc.ResolveBattle(context.Background(), war.ID); err != nil {
		t.Fatalf("ResolveBattle: %v", err)
	}

	got := store.State().WarByID(war.ID)
	if got.Status != model.WarEnded {
		t.Errorf("status = %s, want ended", got.Status)
	}
	if got.BattleStatistics == nil {
		t.Fatal("expected battle statistics after resolution")
	}
	if !got.LossesApplied {
		t.Error("expected losses to be applied")
	}
	if got.EndTime == nil {
		t.Error("expected an end time")
	}
}

func TestResolveBattleTwiceIsIdempotent(t *testing.T) {
	store := worldStore(t)
	svc := NewWarService(store, newMockCache(), nil, fixedRand{0.5})

	war, err := svc.DeclareWar(context.Background(), "alice", "bob", battle.Force{Soldiers: 50})
	if err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	if err := svc.ResolveBattle(context.Background(), war.ID); err != nil {
		t.Fatalf("first ResolveBattle: %v", err)
	}
	after := store.State()
	if err := svc.ResolveBattle(context.Background(), war.ID); err != nil {
		t.Fatalf("second ResolveBattle: %v", err)
	}
	if store.State() != after {
		t.Error("second resolution changed the state tree")
	}
}

func TestRetreatClearsTimerAndBlocksResolution(t *testing.T) {
	store := worldStore(t)
	cache := newMockCache()
	svc := NewWarService(store, cache, nil, fixedRand{0.5})

	war, err := svc.DeclareWar(context.Background(), "alice", "bob", battle.Force{Soldiers: 50})
	if err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	if _, err := svc.Retreat(context.Background(), war.ID, "alice"); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	if cache.hasTimer(war.ID) {
		t.Error("expected timer cleared after retreat")
	}

	if err := svc.ResolveBattle(context.Background(), war.ID); err != nil {
		t.Fatalf("ResolveBattle after retreat: %v", err)
	}
	got := store.State().WarByID(war.ID)
	if got.BattleStatistics != nil {
		t.Error("retreated war must not gain battle statistics")
	}
}

func TestResolveBattleUnknownWarIsNoop(t *testing.T) {
	store := worldStore(t)
	svc := NewWarService(store, newMockCache(), nil, nil)
	if err := svc.ResolveBattle(context.Background(), "no-such-war"); err != nil {
		t.Fatalf("ResolveBattle: %v", err)
	}
}

func TestResolveOverdueWars(t *testing.T) {
	store := worldStore(t)
	svc := NewWarService(store, newMockCache(), nil, fixedRand{0.5})

	// A war declared a minute ago is past the resolution window.
	mustDispatch(t, store, game.Action{
		Type: game.ActionDeclareWar,
		Now:  time.Now().Add(-time.Minute),
		Payload: game.DeclareWarPayload{
			WarID:       "war-overdue",
			AggressorID: "alice",
			DefenderID:  "bob",
			Force:       battle.Force{Soldiers: 50},
		},
	})

	svc.ResolveOverdueWars(context.Background())

	got := store.State().WarByID("war-overdue")
	if got.Status != model.WarEnded || got.BattleStatistics == nil {
		t.Errorf("overdue war not resolved: status=%s stats=%v", got.Status, got.BattleStatistics)
	}
}

func TestReinforceThirdParty(t *testing.T) {
	store := worldStore(t)
	past := time.Now().Add(-72 * time.Hour)
	mustDispatch(t, store, game.Action{
		Type:    game.ActionRegister,
		Now:     past,
		Payload: game.RegisterPayload{UserID: "carol", Username: "carol", DisplayName: "carol"},
	})
	svc := NewWarService(store, newMockCache(), nil, fixedRand{0.5})

	war, err := svc.DeclareWar(context.Background(), "alice", "bob", battle.Force{Soldiers: 50})
	if err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	got, err := svc.Reinforce(context.Background(), war.ID, "carol", battle.Force{Tanks: 3})
	if err != nil {
		t.Fatalf("Reinforce: %v", err)
	}
	if len(got.Reinforcements) != 1 || got.Reinforcements[0].SenderID != "carol" {
		t.Errorf("reinforcements = %+v, want one from carol", got.Reinforcements)
	}

	total := game.TotalAttackForce(got)
	if total.Soldiers != 50 || total.Tanks != 3 {
		t.Errorf("total force = %+v, want 50 soldiers, 3 tanks", total)
	}
}

func TestResolveBattleUsesCommittedForceOnly(t *testing.T) {
	store := worldStore(t)
	past := time.Now().Add(-72 * time.Hour)
	mustDispatch(t, store, game.Action{
		Type:    game.ActionRegister,
		Now:     past,
		Payload: game.RegisterPayload{UserID: "carol", Username: "carol", DisplayName: "carol"},
	})
	svc := NewWarService(store, newMockCache(), nil, fixedRand{0.5})

	committed := battle.Force{Soldiers: 50}
	war, err := svc.DeclareWar(context.Background(), "alice", "bob", committed)
	if err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	if _, err := svc.Reinforce(context.Background(), war.ID, "carol", battle.Force{Tanks: 3, Ships: 2}); err != nil {
		t.Fatalf("Reinforce: %v", err)
	}
	if err := svc.ResolveBattle(context.Background(), war.ID); err != nil {
		t.Fatalf("ResolveBattle: %v", err)
	}

	got := store.State().WarByID(war.ID)
	if got.BattleStatistics == nil {
		t.Fatal("expected battle statistics after resolution")
	}
	// The attack force is fixed at declaration: the reinforcement's tanks and
	// ships must not raise the attacker's power or produce losses in domains
	// the committed force never fielded.
	if got.BattleStatistics.AttackerPower != committed.PowerScore() {
		t.Errorf("attacker power = %d, want committed %d",
			got.BattleStatistics.AttackerPower, committed.PowerScore())
	}
	if l := got.BattleStatistics.AttackerLosses; l.Tanks != 0 || l.Ships != 0 {
		t.Errorf("attacker losses = %+v, want none in reinforced-only domains", l)
	}
}
