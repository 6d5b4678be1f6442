package game

import (
	"testing"

	"github.com/efreeman/world-war/api/internal/model"
)

func invite(t *testing.T, s *State, id, sender, target, name string) *State {
	t.Helper()
	return dispatch(t, s, ActionCreateAllianceInvitation, CreateAllianceInvitationPayload{
		InvitationID: id, SenderID: sender, TargetID: target, AllianceName: name,
	})
}

func accept(t *testing.T, s *State, invID, newAllianceID string) *State {
	t.Helper()
	return dispatch(t, s, ActionRespondAllianceInvitation, RespondAllianceInvitationPayload{
		InvitationID: invID, Accept: true, NewAllianceID: newAllianceID,
	})
}

func TestAllianceAccept_NovelNameCreatesTwoMemberAlliance(t *testing.T) {
	s := testState(testUser("alice", 0, nil), testUser("bob", 0, nil))
	s = invite(t, s, "inv-1", "alice", "bob", "Axis")
	s = accept(t, s, "inv-1", "al-1")

	if len(s.Alliances) != 1 {
		t.Fatalf("alliances = %d, want 1", len(s.Alliances))
	}
	al := &s.Alliances[0]
	if al.Name != "Axis" || al.LeaderID != "alice" || len(al.MemberIDs) != 2 {
		t.Fatalf("alliance = %+v", al)
	}
}

func TestAllianceAccept_ExistingNameMerges(t *testing.T) {
	s := testState(testUser("alice", 0, nil), testUser("bob", 0, nil), testUser("carol", 0, nil))
	s.Alliances = []model.Alliance{{
		ID: "al-1", Name: "Axis", LeaderID: "alice", MemberIDs: []string{"alice", "bob"},
	}}

	s = invite(t, s, "inv-1", "alice", "carol", "Axis")
	s = accept(t, s, "inv-1", "al-unused")

	if len(s.Alliances) != 1 {
		t.Fatalf("duplicate alliance created: %d", len(s.Alliances))
	}
	if got := len(s.Alliances[0].MemberIDs); got != 3 {
		t.Fatalf("members = %d, want 3", got)
	}
	if !s.Alliances[0].HasMember("carol") {
		t.Error("carol not added")
	}
}

func TestAllianceAccept_NameMatchIsCaseSensitive(t *testing.T) {
	s := testState(testUser("alice", 0, nil), testUser("bob", 0, nil), testUser("carol", 0, nil))
	s.Alliances = []model.Alliance{{
		ID: "al-1", Name: "Axis", LeaderID: "alice", MemberIDs: []string{"alice", "bob"},
	}}

	s = invite(t, s, "inv-1", "alice", "carol", "AXIS")
	s = accept(t, s, "inv-1", "al-2")

	if len(s.Alliances) != 2 {
		t.Fatalf("alliances = %d, want 2 (different name casing)", len(s.Alliances))
	}
}

func TestAllianceInvitation_AnsweredOnce(t *testing.T) {
	s := testState(testUser("alice", 0, nil), testUser("bob", 0, nil))
	s = invite(t, s, "inv-1", "alice", "bob", "Axis")
	s = dispatch(t, s, ActionRespondAllianceInvitation, RespondAllianceInvitationPayload{
		InvitationID: "inv-1", Accept: false,
	})

	if s.AllianceInvitations[0].Status != model.RequestRejected {
		t.Fatalf("status = %s", s.AllianceInvitations[0].Status)
	}
	rejected(t, s, ActionRespondAllianceInvitation, RespondAllianceInvitationPayload{
		InvitationID: "inv-1", Accept: true, NewAllianceID: "al-1",
	}, ErrRequestClosed)
	if len(s.Alliances) != 0 {
		t.Error("rejected invitation created an alliance")
	}
}
