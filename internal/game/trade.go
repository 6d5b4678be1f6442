package game

import (
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

func (s *State) createTradeProposal(a Action) (*State, error) {
	p := a.Payload.(CreateTradeProposalPayload)
	ui := s.UserIndex(p.ProposerID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	if p.Amount <= 0 || p.Price <= 0 {
		return s, ErrInvalidAmount
	}
	if !model.ValidResource(p.Resource) {
		return s, ErrInvalidResource
	}
	if p.Type != model.TradeBuy && p.Type != model.TradeSell {
		return s, ErrProposalNotFound
	}
	// A seller must hold the goods, a buyer the money, at creation time.
	// Settlement re-checks both sides.
	proposer := &s.Users[ui]
	if p.Type == model.TradeSell && proposer.Resources[p.Resource] < p.Amount {
		return s, ErrInsufficientStock
	}
	if p.Type == model.TradeBuy && proposer.Money < p.Amount*p.Price {
		return s, ErrInsufficientFunds
	}

	next := s.shallow()
	next.TradeProposals = appended(s.TradeProposals, model.TradeProposal{
		ID:         p.ProposalID,
		ProposerID: p.ProposerID,
		Type:       p.Type,
		Resource:   p.Resource,
		Amount:     p.Amount,
		Price:      p.Price,
		Status:     model.TradeActive,
		CreatedAt:  a.Now,
	})
	return next, nil
}

// acceptTradeProposal settles the original terms between proposer and
// accepter. The proposal is consumed exactly once.
func (s *State) acceptTradeProposal(a Action) (*State, error) {
	p := a.Payload.(AcceptTradeProposalPayload)
	ti := s.TradeIndex(p.ProposalID)
	if ti < 0 {
		return s, ErrProposalNotFound
	}
	prop := s.TradeProposals[ti]
	if prop.Status == model.TradeAccepted {
		return s, ErrProposalClosed
	}
	if p.AccepterID == prop.ProposerID {
		return s, ErrSelfTarget
	}
	return s.settleTrade(a, ti, p.AccepterID, prop.Amount, prop.Price, "")
}

func (s *State) cancelTradeProposal(a Action) (*State, error) {
	p := a.Payload.(CancelTradeProposalPayload)
	ti := s.TradeIndex(p.ProposalID)
	if ti < 0 {
		return s, ErrProposalNotFound
	}
	prop := s.TradeProposals[ti]
	if prop.ProposerID != p.UserID {
		return s, ErrNotPermitted
	}
	if prop.Status == model.TradeAccepted {
		return s, ErrProposalClosed
	}
	next := s.shallow()
	trades := make([]model.TradeProposal, 0, len(s.TradeProposals)-1)
	for i := range s.TradeProposals {
		if i != ti {
			trades = append(trades, s.TradeProposals[i])
		}
	}
	next.TradeProposals = trades
	return next, nil
}

func (s *State) createCounterOffer(a Action) (*State, error) {
	p := a.Payload.(CreateCounterOfferPayload)
	ti := s.TradeIndex(p.ProposalID)
	if ti < 0 {
		return s, ErrProposalNotFound
	}
	prop := s.TradeProposals[ti]
	if prop.Status == model.TradeAccepted {
		return s, ErrProposalClosed
	}
	if p.SenderID == prop.ProposerID {
		return s, ErrSelfTarget
	}
	if s.UserIndex(p.SenderID) < 0 {
		return s, ErrUserNotFound
	}
	if p.Amount <= 0 || p.Price <= 0 {
		return s, ErrInvalidAmount
	}

	prop.Status = model.TradeCountered
	prop.CounterOffers = appended(prop.CounterOffers, model.CounterOffer{
		ID:        p.OfferID,
		SenderID:  p.SenderID,
		Amount:    p.Amount,
		Price:     p.Price,
		Status:    model.CounterPending,
		CreatedAt: a.Now,
	})
	next := s.shallow()
	next.TradeProposals = replaceTrade(s.TradeProposals, ti, prop)
	return next, nil
}

// acceptCounterOffer settles on the counter's amount/price between the
// proposer and the counter's sender. The parent proposal is marked accepted,
// implicitly closing out all other counter-offers.
func (s *State) acceptCounterOffer(a Action) (*State, error) {
	p := a.Payload.(AcceptCounterOfferPayload)
	ti := s.TradeIndex(p.ProposalID)
	if ti < 0 {
		return s, ErrProposalNotFound
	}
	prop := s.TradeProposals[ti]
	if prop.Status == model.TradeAccepted {
		return s, ErrProposalClosed
	}
	oi := -1
	for i := range prop.CounterOffers {
		if prop.CounterOffers[i].ID == p.OfferID {
			oi = i
			break
		}
	}
	if oi < 0 {
		return s, ErrOfferNotFound
	}
	offer := prop.CounterOffers[oi]
	if offer.Status != model.CounterPending {
		return s, ErrProposalClosed
	}
	return s.settleTrade(a, ti, offer.SenderID, offer.Amount, offer.Price, offer.ID)
}

// settleTrade performs the symmetric two-party exchange and closes the
// proposal. Money removed from one side equals money added to the other, and
// likewise for the resource (conservation).
func (s *State) settleTrade(a Action, ti int, counterpartyID string, amount, price int, acceptedOfferID string) (*State, error) {
	prop := s.TradeProposals[ti]
	pi := s.UserIndex(prop.ProposerID)
	ci := s.UserIndex(counterpartyID)
	if pi < 0 || ci < 0 {
		return s, ErrUserNotFound
	}
	total := amount * price
	goods := model.Resources{prop.Resource: amount}

	var seller, buyer int // indices into s.Users
	if prop.Type == model.TradeSell {
		seller, buyer = pi, ci
	} else {
		seller, buyer = ci, pi
	}
	if s.Users[seller].Resources[prop.Resource] < amount {
		return s, ErrInsufficientStock
	}
	if s.Users[buyer].Money < total {
		return s, ErrInsufficientFunds
	}

	users := make([]model.User, len(s.Users))
	copy(users, s.Users)
	users[seller] = creditUser(debitUser(users[seller], goods, 0), nil, total)
	users[buyer] = creditUser(debitUser(users[buyer], nil, total), goods, 0)

	prop.Status = model.TradeAccepted
	prop.AcceptedBy = counterpartyID
	if acceptedOfferID != "" {
		offers := make([]model.CounterOffer, len(prop.CounterOffers))
		copy(offers, prop.CounterOffers)
		for i := range offers {
			if offers[i].ID == acceptedOfferID {
				offers[i].Status = model.CounterAccepted
			}
		}
		prop.CounterOffers = offers
	}

	next := s.shallow()
	next.Users = users
	next.TradeProposals = replaceTrade(s.TradeProposals, ti, prop)
	next.notify(prop.ProposerID, "trade_accepted", "Your trade proposal was accepted", a.Now)
	return next, nil
}

// EffectivePrice is the market price of one resource after applying every
// unexpired game event's modifier (percent of base) to the configured base
// price. Prices never drop below 1.
func (s *State) EffectivePrice(r model.Resource, now time.Time) int {
	price := s.Settings.MarketPrices[r]
	for i := range s.GameEvents {
		ev := &s.GameEvents[i]
		if !ev.ExpiresAt.After(now) {
			continue
		}
		if mod, ok := ev.PriceModifiers[r]; ok {
			price = price * mod / 100
		}
	}
	if price < 1 {
		price = 1
	}
	return price
}

// EffectivePrices is the full event-adjusted price table.
func (s *State) EffectivePrices(now time.Time) map[model.Resource]int {
	prices := make(map[model.Resource]int, len(s.Settings.MarketPrices))
	for r := range s.Settings.MarketPrices {
		prices[r] = s.EffectivePrice(r, now)
	}
	return prices
}

// sellToRobot is the fixed-formula buyback path: no counterparty, always
// succeeds when the seller holds enough stock.
func (s *State) sellToRobot(a Action) (*State, error) {
	p := a.Payload.(SellToRobotPayload)
	ui := s.UserIndex(p.UserID)
	if ui < 0 {
		return s, ErrUserNotFound
	}
	if p.Amount <= 0 {
		return s, ErrInvalidAmount
	}
	if !model.ValidResource(p.Resource) {
		return s, ErrInvalidResource
	}
	if s.Users[ui].Resources[p.Resource] < p.Amount {
		return s, ErrInsufficientStock
	}

	unitPrice := s.EffectivePrice(p.Resource, a.Now) * s.Settings.RobotBuybackPercent / 100
	total := p.Amount * unitPrice

	user := creditUser(debitUser(s.Users[ui], model.Resources{p.Resource: p.Amount}, 0), nil, total)
	next := s.shallow()
	next.Users = replaceUser(s.Users, ui, user)
	return next, nil
}
