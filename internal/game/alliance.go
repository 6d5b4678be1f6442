package game

import (
	"strings"

	"github.com/efreeman/world-war/api/internal/model"
)

func (s *State) createAllianceInvitation(a Action) (*State, error) {
	p := a.Payload.(CreateAllianceInvitationPayload)
	if s.UserIndex(p.SenderID) < 0 || s.UserIndex(p.TargetID) < 0 {
		return s, ErrUserNotFound
	}
	if p.SenderID == p.TargetID {
		return s, ErrSelfTarget
	}
	if strings.TrimSpace(p.AllianceName) == "" {
		return s, ErrRequestNotFound
	}
	next := s.shallow()
	next.AllianceInvitations = appended(s.AllianceInvitations, model.AllianceInvitation{
		ID:           p.InvitationID,
		SenderID:     p.SenderID,
		TargetID:     p.TargetID,
		AllianceName: p.AllianceName,
		Status:       model.RequestPending,
		CreatedAt:    a.Now,
	})
	next.notify(p.TargetID, "alliance_invited", "You were invited to alliance "+p.AllianceName, a.Now)
	return next, nil
}

// respondAllianceInvitation merges by alliance name on accept: an existing
// alliance with the exact name gains the invitee, otherwise a new two-member
// alliance is created with the sender as leader.
func (s *State) respondAllianceInvitation(a Action) (*State, error) {
	p := a.Payload.(RespondAllianceInvitationPayload)
	ii := -1
	for i := range s.AllianceInvitations {
		if s.AllianceInvitations[i].ID == p.InvitationID {
			ii = i
			break
		}
	}
	if ii < 0 {
		return s, ErrRequestNotFound
	}
	inv := s.AllianceInvitations[ii]
	if inv.Status != model.RequestPending {
		return s, ErrRequestClosed
	}

	invs := make([]model.AllianceInvitation, len(s.AllianceInvitations))
	copy(invs, s.AllianceInvitations)

	if !p.Accept {
		invs[ii].Status = model.RequestRejected
		next := s.shallow()
		next.AllianceInvitations = invs
		return next, nil
	}

	invs[ii].Status = model.RequestAccepted
	next := s.shallow()
	next.AllianceInvitations = invs

	if ai := s.AllianceByName(inv.AllianceName); ai >= 0 {
		al := s.Alliances[ai]
		if !al.HasMember(inv.TargetID) {
			al.MemberIDs = appended(al.MemberIDs, inv.TargetID)
		}
		alliances := make([]model.Alliance, len(s.Alliances))
		copy(alliances, s.Alliances)
		alliances[ai] = al
		next.Alliances = alliances
	} else {
		next.Alliances = appended(s.Alliances, model.Alliance{
			ID:        p.NewAllianceID,
			Name:      inv.AllianceName,
			LeaderID:  inv.SenderID,
			MemberIDs: []string{inv.SenderID, inv.TargetID},
			CreatedAt: a.Now,
		})
	}
	next.notify(inv.SenderID, "alliance_joined", "Your alliance invitation was accepted", a.Now)
	return next, nil
}
