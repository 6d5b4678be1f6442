package game

import (
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

func (s *State) createPeaceProposal(a Action) (*State, error) {
	p := a.Payload.(CreatePeaceProposalPayload)
	if s.UserIndex(p.ProposerID) < 0 || s.UserIndex(p.TargetID) < 0 {
		return s, ErrUserNotFound
	}
	if p.ProposerID == p.TargetID {
		return s, ErrSelfTarget
	}
	if p.Type != model.PeacePermanent && p.Type != model.PeaceCeasefire {
		return s, ErrRequestNotFound
	}
	if s.WarBetweenEitherDirection(p.ProposerID, p.TargetID) < 0 {
		return s, ErrNoActiveWar
	}
	next := s.shallow()
	next.PeaceProposals = appended(s.PeaceProposals, model.PeaceProposal{
		ID:            p.ProposalID,
		ProposerID:    p.ProposerID,
		TargetID:      p.TargetID,
		Type:          p.Type,
		DurationHours: p.DurationHours,
		Status:        model.RequestPending,
		CreatedAt:     a.Now,
	})
	next.notify(p.TargetID, "peace_proposed", "You received a "+string(p.Type)+" proposal", a.Now)
	return next, nil
}

// respondPeaceProposal transitions the war between the two users on accept:
// peace ends it, ceasefire pauses it until the computed expiry. The minute
// sweep flips expired ceasefires back to active.
func (s *State) respondPeaceProposal(a Action) (*State, error) {
	p := a.Payload.(RespondPeaceProposalPayload)
	pi := -1
	for i := range s.PeaceProposals {
		if s.PeaceProposals[i].ID == p.ProposalID {
			pi = i
			break
		}
	}
	if pi < 0 {
		return s, ErrRequestNotFound
	}
	prop := s.PeaceProposals[pi]
	if prop.Status != model.RequestPending {
		return s, ErrRequestClosed
	}

	props := make([]model.PeaceProposal, len(s.PeaceProposals))
	copy(props, s.PeaceProposals)

	if !p.Accept {
		props[pi].Status = model.RequestRejected
		next := s.shallow()
		next.PeaceProposals = props
		return next, nil
	}

	wi := s.WarBetweenEitherDirection(prop.ProposerID, prop.TargetID)
	if wi < 0 {
		// The war ended some other way while the proposal was pending.
		props[pi].Status = model.RequestRejected
		next := s.shallow()
		next.PeaceProposals = props
		return next, ErrNoActiveWar
	}

	war := s.Wars[wi]
	now := a.Now
	switch prop.Type {
	case model.PeacePermanent:
		war.Status = model.WarEnded
		war.EndTime = &now
		war.CeasefireEndTime = nil
	case model.PeaceCeasefire:
		end := now.Add(time.Duration(prop.DurationHours) * time.Hour)
		war.Status = model.WarCeasefire
		war.CeasefireEndTime = &end
	}

	props[pi].Status = model.RequestAccepted
	next := s.shallow()
	next.PeaceProposals = props
	next.Wars = replaceWar(s.Wars, wi, war)
	next.notify(prop.ProposerID, "peace_accepted", "Your "+string(prop.Type)+" proposal was accepted", a.Now)
	return next, nil
}
