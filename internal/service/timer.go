package service

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/efreeman/world-war/api/internal/repository/redis"
)

// TimerListener listens for Redis keyspace notifications on expired war timer
// keys and triggers battle resolution. Also runs a polling fallback to catch
// expirations if keyspace notifications are unavailable.
type TimerListener struct {
	rdb    *goredis.Client
	warSvc *WarService
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *goredis.Client, warSvc *WarService) *TimerListener {
	return &TimerListener{rdb: rdb, warSvc: warSvc}
}

// Start begins listening for expired key events and runs a polling fallback.
func (t *TimerListener) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollOverdueWars(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// pollOverdueWars periodically resolves active wars past their window.
func (t *TimerListener) pollOverdueWars(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("War resolution poller started (10s interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("War resolution poller stopped")
			return
		case <-ticker.C:
			t.warSvc.ResolveOverdueWars(ctx)
		}
	}
}

// handleExpiry processes an expired key. Only acts on war timer keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	warID := redis.WarIDFromTimerKey(key)
	if warID == "" {
		return
	}

	log.Info().Str("warId", warID).Msg("War timer expired, triggering battle resolution")
	if err := t.warSvc.ResolveBattle(ctx, warID); err != nil {
		log.Error().Err(err).Str("warId", warID).Msg("Battle resolution failed after timer expiry")
	}
}
