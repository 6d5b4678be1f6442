package game

import (
	"testing"
	"time"

	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/pkg/battle"
)

func warState(t *testing.T) *State {
	t.Helper()
	s := testState(testUser("alice", 0, warRes()), testUser("bob", 0, warRes()))
	return dispatch(t, s, ActionDeclareWar, DeclareWarPayload{
		WarID: "war-1", AggressorID: "alice", DefenderID: "bob",
		Force: battle.Force{Soldiers: 10},
	})
}

func TestPeaceAccept_EndsWar(t *testing.T) {
	s := warState(t)
	s = dispatch(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-1", ProposerID: "bob", TargetID: "alice", Type: model.PeacePermanent,
	})
	s = dispatch(t, s, ActionRespondPeaceProposal, RespondPeaceProposalPayload{
		ProposalID: "pp-1", Accept: true,
	})

	w := s.WarByID("war-1")
	if w.Status != model.WarEnded || w.EndTime == nil {
		t.Fatalf("war = %+v", w)
	}
	if s.PeaceProposals[0].Status != model.RequestAccepted {
		t.Errorf("proposal status = %s", s.PeaceProposals[0].Status)
	}
}

func TestCeasefireAccept_SchedulesExpiry(t *testing.T) {
	s := warState(t)
	s = dispatch(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-1", ProposerID: "alice", TargetID: "bob",
		Type: model.PeaceCeasefire, DurationHours: 6,
	})
	s = dispatch(t, s, ActionRespondPeaceProposal, RespondPeaceProposalPayload{
		ProposalID: "pp-1", Accept: true,
	})

	w := s.WarByID("war-1")
	if w.Status != model.WarCeasefire {
		t.Fatalf("status = %s, want ceasefire", w.Status)
	}
	want := t0.Add(6 * time.Hour)
	if w.CeasefireEndTime == nil || !w.CeasefireEndTime.Equal(want) {
		t.Fatalf("ceasefire end = %v, want %v", w.CeasefireEndTime, want)
	}
}

func TestPeaceProposal_RequiresOngoingWar(t *testing.T) {
	s := testState(testUser("alice", 0, nil), testUser("bob", 0, nil))
	rejected(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-1", ProposerID: "alice", TargetID: "bob", Type: model.PeacePermanent,
	}, ErrNoActiveWar)
}

func TestPeaceAccept_WarAlreadyGone(t *testing.T) {
	s := warState(t)
	s = dispatch(t, s, ActionCreatePeaceProposal, CreatePeaceProposalPayload{
		ProposalID: "pp-1", ProposerID: "bob", TargetID: "alice", Type: model.PeacePermanent,
	})
	// Aggressor retreats while the proposal is pending.
	s = dispatch(t, s, ActionRetreatFromWar, RetreatFromWarPayload{WarID: "war-1", UserID: "alice"})

	next, err := Reduce(s, Action{Type: ActionRespondPeaceProposal, Now: t0, Payload: RespondPeaceProposalPayload{
		ProposalID: "pp-1", Accept: true,
	}})
	if err != ErrNoActiveWar {
		t.Fatalf("err = %v, want ErrNoActiveWar", err)
	}
	if next.PeaceProposals[0].Status != model.RequestRejected {
		t.Errorf("stale proposal not closed: %s", next.PeaceProposals[0].Status)
	}
}
