package game

import (
	"testing"
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

func sellProposal(t *testing.T, s *State) *State {
	t.Helper()
	return dispatch(t, s, ActionCreateTradeProposal, CreateTradeProposalPayload{
		ProposalID: "trade-1",
		ProposerID: "alice",
		Type:       model.TradeSell,
		Resource:   model.ResourceOil,
		Amount:     100,
		Price:      10,
	})
}

func TestAcceptTrade_Conservation(t *testing.T) {
	s := testState(
		testUser("alice", 0, model.Resources{model.ResourceOil: 150}),
		testUser("bob", 2000, nil),
	)
	s = sellProposal(t, s)
	s = dispatch(t, s, ActionAcceptTradeProposal, AcceptTradeProposalPayload{
		ProposalID: "trade-1", AccepterID: "bob",
	})

	alice := s.UserByID("alice")
	bob := s.UserByID("bob")
	if alice.Money != 1000 || alice.Resources[model.ResourceOil] != 50 {
		t.Errorf("alice money=%d oil=%d, want 1000/50", alice.Money, alice.Resources[model.ResourceOil])
	}
	if bob.Money != 1000 || bob.Resources[model.ResourceOil] != 100 {
		t.Errorf("bob money=%d oil=%d, want 1000/100", bob.Money, bob.Resources[model.ResourceOil])
	}

	prop := &s.TradeProposals[0]
	if prop.Status != model.TradeAccepted || prop.AcceptedBy != "bob" {
		t.Errorf("proposal not consumed: %+v", prop)
	}
}

func TestAcceptTrade_BuySettlesInverted(t *testing.T) {
	s := testState(
		testUser("alice", 5000, nil), // buyer
		testUser("bob", 0, model.Resources{model.ResourceMetals: 40}),
	)
	s = dispatch(t, s, ActionCreateTradeProposal, CreateTradeProposalPayload{
		ProposalID: "trade-1", ProposerID: "alice",
		Type: model.TradeBuy, Resource: model.ResourceMetals, Amount: 40, Price: 25,
	})
	s = dispatch(t, s, ActionAcceptTradeProposal, AcceptTradeProposalPayload{
		ProposalID: "trade-1", AccepterID: "bob",
	})

	alice := s.UserByID("alice")
	bob := s.UserByID("bob")
	if alice.Money != 4000 || alice.Resources[model.ResourceMetals] != 40 {
		t.Errorf("buyer money=%d metals=%d, want 4000/40", alice.Money, alice.Resources[model.ResourceMetals])
	}
	if bob.Money != 1000 || bob.Resources[model.ResourceMetals] != 0 {
		t.Errorf("seller money=%d metals=%d, want 1000/0", bob.Money, bob.Resources[model.ResourceMetals])
	}
}

func TestAcceptTrade_SecondAcceptIsRejected(t *testing.T) {
	s := testState(
		testUser("alice", 0, model.Resources{model.ResourceOil: 150}),
		testUser("bob", 2000, nil),
		testUser("carol", 2000, nil),
	)
	s = sellProposal(t, s)
	s = dispatch(t, s, ActionAcceptTradeProposal, AcceptTradeProposalPayload{
		ProposalID: "trade-1", AccepterID: "bob",
	})

	rejected(t, s, ActionAcceptTradeProposal, AcceptTradeProposalPayload{
		ProposalID: "trade-1", AccepterID: "carol",
	}, ErrProposalClosed)
}

func TestAcceptCounterOffer_MarksParentAccepted(t *testing.T) {
	s := testState(
		testUser("alice", 0, model.Resources{model.ResourceOil: 150}),
		testUser("bob", 2000, nil),
	)
	s = sellProposal(t, s)
	s = dispatch(t, s, ActionCreateCounterOffer, CreateCounterOfferPayload{
		ProposalID: "trade-1", OfferID: "co-1", SenderID: "bob", Amount: 50, Price: 8,
	})
	if s.TradeProposals[0].Status != model.TradeCountered {
		t.Fatalf("status = %s, want countered", s.TradeProposals[0].Status)
	}

	s = dispatch(t, s, ActionAcceptCounterOffer, AcceptCounterOfferPayload{
		ProposalID: "trade-1", OfferID: "co-1",
	})

	prop := &s.TradeProposals[0]
	if prop.Status != model.TradeAccepted {
		t.Errorf("parent proposal status = %s, want accepted", prop.Status)
	}
	if prop.CounterOffers[0].Status != model.CounterAccepted {
		t.Errorf("offer status = %s, want accepted", prop.CounterOffers[0].Status)
	}

	// Settlement used the counter's terms: 50 oil at 8/unit.
	alice := s.UserByID("alice")
	bob := s.UserByID("bob")
	if alice.Money != 400 || alice.Resources[model.ResourceOil] != 100 {
		t.Errorf("alice money=%d oil=%d, want 400/100", alice.Money, alice.Resources[model.ResourceOil])
	}
	if bob.Money != 1600 || bob.Resources[model.ResourceOil] != 50 {
		t.Errorf("bob money=%d oil=%d, want 1600/50", bob.Money, bob.Resources[model.ResourceOil])
	}

	// The parent is consumed; accepting again (either path) is rejected.
	rejected(t, s, ActionAcceptCounterOffer, AcceptCounterOfferPayload{
		ProposalID: "trade-1", OfferID: "co-1",
	}, ErrProposalClosed)
	rejected(t, s, ActionAcceptTradeProposal, AcceptTradeProposalPayload{
		ProposalID: "trade-1", AccepterID: "bob",
	}, ErrProposalClosed)
}

func TestAcceptTrade_InsufficientBuyerFunds(t *testing.T) {
	s := testState(
		testUser("alice", 0, model.Resources{model.ResourceOil: 150}),
		testUser("bob", 5, nil),
	)
	s = sellProposal(t, s)
	rejected(t, s, ActionAcceptTradeProposal, AcceptTradeProposalPayload{
		ProposalID: "trade-1", AccepterID: "bob",
	}, ErrInsufficientFunds)
}

func TestSellToRobot_FixedFormula(t *testing.T) {
	s := testState(testUser("alice", 0, model.Resources{model.ResourceOil: 80}))
	// Default market oil price 10, buyback 50% -> unit price 5.
	s = dispatch(t, s, ActionSellToRobot, SellToRobotPayload{
		UserID: "alice", Resource: model.ResourceOil, Amount: 50,
	})

	alice := s.UserByID("alice")
	if alice.Money != 250 {
		t.Errorf("money = %d, want 250", alice.Money)
	}
	if alice.Resources[model.ResourceOil] != 30 {
		t.Errorf("oil = %d, want 30", alice.Resources[model.ResourceOil])
	}
}

func TestEffectivePrice_AppliesActiveEventModifier(t *testing.T) {
	s := testState(testUser("alice", 0, nil))
	s.GameEvents = []model.GameEvent{{
		ID:             "oil-crisis",
		Title:          "Oil Crisis",
		PriceModifiers: map[model.Resource]int{model.ResourceOil: 150},
		ExpiresAt:      t0.Add(time.Hour),
	}}

	// Base oil price 10 at 150% -> 15. Unmodified resources keep their base.
	if got := s.EffectivePrice(model.ResourceOil, t0); got != 15 {
		t.Errorf("oil price = %d, want 15", got)
	}
	if got := s.EffectivePrice(model.ResourceFood, t0); got != 5 {
		t.Errorf("food price = %d, want base 5", got)
	}

	prices := s.EffectivePrices(t0)
	if prices[model.ResourceOil] != 15 || prices[model.ResourceFood] != 5 {
		t.Errorf("prices = %v, want oil 15 and food 5", prices)
	}
}

func TestEffectivePrice_IgnoresExpiredEventAndFloorsAtOne(t *testing.T) {
	s := testState(testUser("alice", 0, nil))
	s.GameEvents = []model.GameEvent{
		{
			ID:             "old-boom",
			PriceModifiers: map[model.Resource]int{model.ResourceOil: 300},
			ExpiresAt:      t0.Add(-time.Minute),
		},
		{
			ID:             "glut",
			PriceModifiers: map[model.Resource]int{model.ResourceFood: 10},
			ExpiresAt:      t0.Add(time.Hour),
		},
	}

	if got := s.EffectivePrice(model.ResourceOil, t0); got != 10 {
		t.Errorf("oil price = %d, want base 10 after event expiry", got)
	}
	// Food base 5 at 10% truncates to 0 and floors at 1.
	if got := s.EffectivePrice(model.ResourceFood, t0); got != 1 {
		t.Errorf("food price = %d, want floor 1", got)
	}
}

func TestSellToRobot_UsesEventAdjustedPrice(t *testing.T) {
	s := testState(testUser("alice", 0, model.Resources{model.ResourceOil: 80}))
	s.GameEvents = []model.GameEvent{{
		ID:             "oil-crisis",
		PriceModifiers: map[model.Resource]int{model.ResourceOil: 200},
		ExpiresAt:      t0.Add(time.Hour),
	}}

	// Oil base 10 doubled to 20, buyback 50% -> unit price 10.
	s = dispatch(t, s, ActionSellToRobot, SellToRobotPayload{
		UserID: "alice", Resource: model.ResourceOil, Amount: 50,
	})

	if got := s.UserByID("alice").Money; got != 500 {
		t.Errorf("money = %d, want 500", got)
	}
}

func TestSellToRobot_InsufficientStock(t *testing.T) {
	s := testState(testUser("alice", 0, model.Resources{model.ResourceOil: 10}))
	rejected(t, s, ActionSellToRobot, SellToRobotPayload{
		UserID: "alice", Resource: model.ResourceOil, Amount: 50,
	}, ErrInsufficientStock)
}

func TestCreateTrade_SellerMustHoldStock(t *testing.T) {
	s := testState(testUser("alice", 0, model.Resources{model.ResourceOil: 10}))
	rejected(t, s, ActionCreateTradeProposal, CreateTradeProposalPayload{
		ProposalID: "trade-1", ProposerID: "alice",
		Type: model.TradeSell, Resource: model.ResourceOil, Amount: 100, Price: 10,
	}, ErrInsufficientStock)
}

func TestCancelTrade_OnlyProposer(t *testing.T) {
	s := testState(
		testUser("alice", 0, model.Resources{model.ResourceOil: 150}),
		testUser("bob", 0, nil),
	)
	s = sellProposal(t, s)
	rejected(t, s, ActionCancelTradeProposal, CancelTradeProposalPayload{
		ProposalID: "trade-1", UserID: "bob",
	}, ErrNotPermitted)

	s = dispatch(t, s, ActionCancelTradeProposal, CancelTradeProposalPayload{
		ProposalID: "trade-1", UserID: "alice",
	})
	if len(s.TradeProposals) != 0 {
		t.Fatalf("proposal not removed")
	}
}
