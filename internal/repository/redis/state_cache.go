package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for the state snapshot and war resolution timers.
const snapshotKey = "worldwar:state"

func warTimerKey(warID string) string { return "war:" + warID + ":resolve" }

// WarIDFromTimerKey extracts the war ID from an expired timer key.
// Returns "" when the key is not a war timer.
func WarIDFromTimerKey(key string) string {
	if !strings.HasPrefix(key, "war:") || !strings.HasSuffix(key, ":resolve") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(key, "war:"), ":resolve")
}

// SaveSnapshot stores the serialized state tree.
func (c *Client) SaveSnapshot(ctx context.Context, state json.RawMessage) error {
	return c.rdb.Set(ctx, snapshotKey, []byte(state), 0).Err()
}

// LoadSnapshot retrieves the serialized state tree, or nil when none exists.
func (c *Client) LoadSnapshot(ctx context.Context) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetWarTimer creates a timer key that expires when the battle should
// resolve. Key expiry drives resolution via keyspace notifications.
func (c *Client) SetWarTimer(ctx context.Context, warID string, resolveAt time.Time) error {
	ttl := time.Until(resolveAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, warTimerKey(warID), resolveAt.Unix(), ttl).Err()
}

// ClearWarTimer removes the resolution timer for a war.
func (c *Client) ClearWarTimer(ctx context.Context, warID string) error {
	return c.rdb.Del(ctx, warTimerKey(warID)).Err()
}
