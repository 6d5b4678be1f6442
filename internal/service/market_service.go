package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
)

// MarketService handles the trade market: proposals, counter-offers, and
// robot buybacks.
type MarketService struct {
	store       *game.Store
	broadcaster Broadcaster
}

// NewMarketService creates a MarketService.
func NewMarketService(store *game.Store, broadcaster Broadcaster) *MarketService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &MarketService{store: store, broadcaster: broadcaster}
}

// CreateTrade posts a buy or sell proposal on the open market.
func (s *MarketService) CreateTrade(ctx context.Context, proposerID string, tradeType model.TradeType, resource model.Resource, amount, price int) (*model.TradeProposal, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionCreateTradeProposal,
		Payload: game.CreateTradeProposalPayload{
			ProposalID: id,
			ProposerID: proposerID,
			Type:       tradeType,
			Resource:   resource,
			Amount:     amount,
			Price:      price,
		},
	})
	if err != nil {
		return nil, err
	}
	trade := tradeByID(st, id)
	s.broadcaster.BroadcastEvent("trade_created", trade)
	return trade, nil
}

// AcceptTrade settles a proposal at its posted terms.
func (s *MarketService) AcceptTrade(ctx context.Context, proposalID, accepterID string) (*model.TradeProposal, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionAcceptTradeProposal,
		Payload: game.AcceptTradeProposalPayload{ProposalID: proposalID, AccepterID: accepterID},
	})
	if err != nil {
		return nil, err
	}
	trade := tradeByID(st, proposalID)
	s.broadcaster.BroadcastEvent("trade_accepted", trade)
	return trade, nil
}

// CancelTrade withdraws an open proposal. Only the proposer can cancel.
func (s *MarketService) CancelTrade(ctx context.Context, proposalID, userID string) error {
	_, err := s.store.Dispatch(game.Action{
		Type:    game.ActionCancelTradeProposal,
		Payload: game.CancelTradeProposalPayload{ProposalID: proposalID, UserID: userID},
	})
	if err != nil {
		return err
	}
	s.broadcaster.BroadcastEvent("trade_cancelled", map[string]string{"proposal_id": proposalID})
	return nil
}

// CreateCounterOffer attaches alternative terms to an open proposal.
func (s *MarketService) CreateCounterOffer(ctx context.Context, proposalID, senderID string, amount, price int) (*model.TradeProposal, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionCreateCounterOffer,
		Payload: game.CreateCounterOfferPayload{
			ProposalID: proposalID,
			OfferID:    id,
			SenderID:   senderID,
			Amount:     amount,
			Price:      price,
		},
	})
	if err != nil {
		return nil, err
	}
	trade := tradeByID(st, proposalID)
	s.broadcaster.BroadcastEvent("counter_offer", trade)
	return trade, nil
}

// AcceptCounterOffer settles the proposal at the counter-offer's terms.
func (s *MarketService) AcceptCounterOffer(ctx context.Context, proposalID, offerID string) (*model.TradeProposal, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionAcceptCounterOffer,
		Payload: game.AcceptCounterOfferPayload{ProposalID: proposalID, OfferID: offerID},
	})
	if err != nil {
		return nil, err
	}
	trade := tradeByID(st, proposalID)
	s.broadcaster.BroadcastEvent("trade_accepted", trade)
	return trade, nil
}

// SellToRobot sells a resource to the always-available robot buyer at the
// configured buyback rate. Returns the user's updated record.
func (s *MarketService) SellToRobot(ctx context.Context, userID string, resource model.Resource, amount int) (*model.User, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSellToRobot,
		Payload: game.SellToRobotPayload{UserID: userID, Resource: resource, Amount: amount},
	})
	if err != nil {
		return nil, err
	}
	return st.UserByID(userID), nil
}

func tradeByID(st *game.State, id string) *model.TradeProposal {
	if i := st.TradeIndex(id); i >= 0 {
		t := st.TradeProposals[i]
		return &t
	}
	return nil
}
