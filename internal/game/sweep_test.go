package game

import (
	"testing"
	"time"

	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/pkg/battle"
)

func TestSweep_ExpiredCeasefireFlipsToActive(t *testing.T) {
	s := testState(testUser("alice", 0, warRes()), testUser("bob", 0, warRes()))
	s = dispatch(t, s, ActionDeclareWar, DeclareWarPayload{
		WarID: "war-1", AggressorID: "alice", DefenderID: "bob",
		Force: battle.Force{Soldiers: 10},
	})
	s = dispatch(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-1", ProposerID: "alice", TargetID: "bob",
		Type: model.PeaceCeasefire, DurationHours: 1,
	})
	s = dispatch(t, s, ActionRespondPeaceProposal, RespondPeaceProposalPayload{ProposalID: "pp-1", Accept: true})

	// Before expiry the sweep leaves the ceasefire alone.
	before, err := Reduce(s, Action{Type: ActionSweepExpirations, Now: t0.Add(30 * time.Minute)})
	if err != nil {
		t.Fatal(err)
	}
	if before.WarByID("war-1").Status != model.WarCeasefire {
		t.Fatal("ceasefire flipped early")
	}

	s = dispatchAt(t, s, ActionSweepExpirations, nil, t0.Add(2*time.Hour))
	w := s.WarByID("war-1")
	if w.Status != model.WarActive {
		t.Fatalf("status = %s, want active", w.Status)
	}
	if w.CeasefireEndTime != nil {
		t.Error("ceasefire end time not cleared")
	}
}

func TestSweep_NoChangeReturnsSameReference(t *testing.T) {
	s := testState(testUser("alice", 0, nil))
	next, err := Reduce(s, Action{Type: ActionSweepExpirations, Now: t0})
	if err != nil {
		t.Fatal(err)
	}
	if next != s {
		t.Fatal("idle sweep allocated a new tree")
	}
}

func TestSweep_DropsExpiredNotificationsAndEvents(t *testing.T) {
	s := testState(testUser("alice", 0, nil))
	s.Notifications = []model.Notification{
		{ID: "n1", UserID: "alice", ExpiresAt: t0.Add(-time.Minute)},
		{ID: "n2", UserID: "alice", ExpiresAt: t0.Add(time.Hour)},
	}
	s.GameEvents = []model.GameEvent{
		{ID: "e1", Title: "Harvest festival", ExpiresAt: t0.Add(-time.Minute)},
	}

	s = dispatch(t, s, ActionSweepExpirations, nil)
	if len(s.Notifications) != 1 || s.Notifications[0].ID != "n2" {
		t.Fatalf("notifications = %+v", s.Notifications)
	}
	if len(s.GameEvents) != 0 {
		t.Fatalf("events = %+v", s.GameEvents)
	}
}

// The sweep must act on the tree it is applied to, not on a snapshot captured
// when the timer was registered: a war that already left ceasefire by other
// means is not resurrected.
func TestSweep_DoesNotResurrectEndedWar(t *testing.T) {
	s := testState(testUser("alice", 0, warRes()), testUser("bob", 0, warRes()))
	s = dispatch(t, s, ActionDeclareWar, DeclareWarPayload{
		WarID: "war-1", AggressorID: "alice", DefenderID: "bob",
		Force: battle.Force{Soldiers: 10},
	})
	s = dispatch(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-1", ProposerID: "alice", TargetID: "bob",
		Type: model.PeaceCeasefire, DurationHours: 1,
	})
	s = dispatch(t, s, ActionRespondPeaceProposal, RespondPeaceProposalPayload{ProposalID: "pp-1", Accept: true})

	// Permanent peace concluded during the ceasefire.
	s = dispatch(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-2", ProposerID: "bob", TargetID: "alice", Type: model.PeacePermanent,
	})
	s = dispatch(t, s, ActionRespondPeaceProposal, RespondPeaceProposalPayload{ProposalID: "pp-2", Accept: true})

	s = dispatchAt(t, s, ActionSweepExpirations, nil, t0.Add(2*time.Hour))
	if got := s.WarByID("war-1").Status; got != model.WarEnded {
		t.Fatalf("ended war resurrected: %s", got)
	}
}
