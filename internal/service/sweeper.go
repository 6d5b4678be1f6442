package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
)

const (
	sweepInterval       = time.Minute
	marketDriftInterval = 24 * time.Hour

	// Daily prices drift at most 10% in either direction.
	maxMarketDrift = 0.10
)

// Sweeper runs the periodic background dispatches: the minute expiration
// sweep and the daily market price drift.
type Sweeper struct {
	store       *game.Store
	broadcaster Broadcaster
}

// NewSweeper creates a Sweeper.
func NewSweeper(store *game.Store, broadcaster Broadcaster) *Sweeper {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &Sweeper{store: store, broadcaster: broadcaster}
}

// Start runs both tickers until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	sweep := time.NewTicker(sweepInterval)
	drift := time.NewTicker(marketDriftInterval)
	defer sweep.Stop()
	defer drift.Stop()

	log.Info().Msg("Expiration sweeper started (1m interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Expiration sweeper stopped")
			return
		case <-sweep.C:
			s.sweep()
		case <-drift.C:
			s.driftMarketPrices()
		}
	}
}

// sweep clears everything the clock has expired: lapsed ceasefires, mutes,
// timeouts, events, and notifications.
func (s *Sweeper) sweep() {
	prev := s.store.State()
	next, err := s.store.Dispatch(game.Action{Type: game.ActionSweepExpirations})
	if err != nil {
		log.Error().Err(err).Msg("Expiration sweep failed")
		return
	}
	if next != prev {
		s.broadcaster.BroadcastEvent("state_swept", nil)
	}
}

// driftMarketPrices nudges every market price by a random factor within the
// drift bound, floored at 1.
func (s *Sweeper) driftMarketPrices() {
	current := s.store.State().Settings.MarketPrices
	prices := make(map[model.Resource]int, len(current))
	for res, price := range current {
		factor := 1 + (rand.Float64()*2-1)*maxMarketDrift
		drifted := int(float64(price) * factor)
		if drifted < 1 {
			drifted = 1
		}
		prices[res] = drifted
	}

	if _, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSetMarketPrices,
		Payload: game.SetMarketPricesPayload{Prices: prices},
	}); err != nil {
		log.Error().Err(err).Msg("Market price drift failed")
		return
	}
	log.Info().Int("resources", len(prices)).Msg("Market prices drifted")
	s.broadcaster.BroadcastEvent("market_prices", prices)
}
