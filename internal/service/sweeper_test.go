package service

import (
	"testing"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
)

func TestDriftKeepsPricesInBounds(t *testing.T) {
	store := game.NewStore(game.NewState(model.DefaultSettings()))
	s := NewSweeper(store, nil)

	base := model.DefaultSettings().MarketPrices
	for i := 0; i < 20; i++ {
		s.driftMarketPrices()
	}

	for res, price := range store.State().Settings.MarketPrices {
		if price < 1 {
			t.Errorf("%s price = %d, want >= 1", res, price)
		}
		// 20 drifts of at most 10% each stay well inside a 10x band.
		if price > base[res]*10 {
			t.Errorf("%s price = %d, drifted beyond plausible bound", res, price)
		}
	}
}

func TestSweepIdleWorldIsNoop(t *testing.T) {
	store := worldStore(t)
	bc := &mockBroadcaster{}
	s := NewSweeper(store, bc)

	before := store.State()
	s.sweep()
	if store.State() != before {
		t.Error("sweep of an idle world changed the tree")
	}
	if got := bc.eventTypes(); len(got) != 0 {
		t.Errorf("broadcasts = %v, want none", got)
	}
}
