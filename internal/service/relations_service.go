package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/repository"
)

// RelationsService handles the diplomatic surface: support requests, peace
// proposals, and alliances.
type RelationsService struct {
	store       *game.Store
	cache       repository.StateCache
	broadcaster Broadcaster
}

// NewRelationsService creates a RelationsService.
func NewRelationsService(store *game.Store, cache repository.StateCache, broadcaster Broadcaster) *RelationsService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &RelationsService{store: store, cache: cache, broadcaster: broadcaster}
}

// RequestSupport asks another player for money (empty resource) or a
// resource class.
func (s *RelationsService) RequestSupport(ctx context.Context, requesterID, targetID string, resource model.Resource, amount int) (*model.SupportRequest, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionCreateSupportRequest,
		Payload: game.CreateSupportRequestPayload{
			RequestID:   id,
			RequesterID: requesterID,
			TargetID:    targetID,
			Resource:    resource,
			Amount:      amount,
		},
	})
	if err != nil {
		return nil, err
	}
	return supportByID(st, id), nil
}

// RespondSupport answers a pending support request. Acceptance transfers
// immediately; a target who can no longer cover the amount rejects it.
func (s *RelationsService) RespondSupport(ctx context.Context, requestID string, accept bool) (*model.SupportRequest, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionRespondSupportRequest,
		Payload: game.RespondSupportRequestPayload{RequestID: requestID, Accept: accept},
	})
	req := supportByID(st, requestID)
	if err != nil {
		return req, err
	}
	return req, nil
}

// ProposePeace offers permanent peace or a timed ceasefire to the other side
// of an active war.
func (s *RelationsService) ProposePeace(ctx context.Context, proposerID, targetID string, peaceType model.PeaceType, durationHours int) (*model.PeaceProposal, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionCreatePeaceProposal,
		Payload: game.CreatePeaceProposalPayload{
			ProposalID:    id,
			ProposerID:    proposerID,
			TargetID:      targetID,
			Type:          peaceType,
			DurationHours: durationHours,
		},
	})
	if err != nil {
		return nil, err
	}
	return peaceByID(st, id), nil
}

// RespondPeace answers a pending peace proposal. Acceptance ends or pauses
// the war; any pending resolution timer for it is cleared.
func (s *RelationsService) RespondPeace(ctx context.Context, proposalID string, accept bool) (*model.PeaceProposal, error) {
	prev := s.store.State()
	var warID string
	if p := peaceByID(prev, proposalID); p != nil && accept {
		if wi := prev.WarBetweenEitherDirection(p.ProposerID, p.TargetID); wi >= 0 {
			warID = prev.Wars[wi].ID
		}
	}

	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionRespondPeaceProposal,
		Payload: game.RespondPeaceProposalPayload{ProposalID: proposalID, Accept: accept},
	})
	if err != nil {
		return peaceByID(st, proposalID), err
	}

	if warID != "" {
		if err := s.cache.ClearWarTimer(ctx, warID); err != nil {
			log.Warn().Err(err).Str("warId", warID).Msg("Failed to clear war resolution timer")
		}
		s.broadcaster.BroadcastEvent("peace_accepted", st.WarByID(warID))
	}
	return peaceByID(st, proposalID), nil
}

// InviteToAlliance invites another player into a named alliance.
func (s *RelationsService) InviteToAlliance(ctx context.Context, senderID, targetID, allianceName string) (*model.AllianceInvitation, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionCreateAllianceInvitation,
		Payload: game.CreateAllianceInvitationPayload{
			InvitationID: id,
			SenderID:     senderID,
			TargetID:     targetID,
			AllianceName: allianceName,
		},
	})
	if err != nil {
		return nil, err
	}
	return invitationByID(st, id), nil
}

// RespondAllianceInvitation answers a pending invitation. Acceptance joins
// the existing alliance of that exact name, or founds a new one.
func (s *RelationsService) RespondAllianceInvitation(ctx context.Context, invitationID string, accept bool) (*model.AllianceInvitation, error) {
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionRespondAllianceInvitation,
		Payload: game.RespondAllianceInvitationPayload{
			InvitationID:  invitationID,
			Accept:        accept,
			NewAllianceID: uuid.NewString(),
		},
	})
	if err != nil {
		return nil, err
	}
	inv := invitationByID(st, invitationID)
	if accept && inv != nil {
		if ai := st.AllianceByName(inv.AllianceName); ai >= 0 {
			s.broadcaster.BroadcastEvent("alliance_updated", st.Alliances[ai])
		}
	}
	return inv, nil
}

func supportByID(st *game.State, id string) *model.SupportRequest {
	for i := range st.SupportRequests {
		if st.SupportRequests[i].ID == id {
			r := st.SupportRequests[i]
			return &r
		}
	}
	return nil
}

func peaceByID(st *game.State, id string) *model.PeaceProposal {
	for i := range st.PeaceProposals {
		if st.PeaceProposals[i].ID == id {
			p := st.PeaceProposals[i]
			return &p
		}
	}
	return nil
}

func invitationByID(st *game.State, id string) *model.AllianceInvitation {
	for i := range st.AllianceInvitations {
		if st.AllianceInvitations[i].ID == id {
			inv := st.AllianceInvitations[i]
			return &inv
		}
	}
	return nil
}
