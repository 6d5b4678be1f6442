package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

// AccountRepository defines credential storage operations.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*model.Account, error)
	FindByUsername(ctx context.Context, username string) (*model.Account, error)
	Create(ctx context.Context, username, passwordHash, displayName string) (*model.Account, error)
	UpsertOAuth(ctx context.Context, provider, providerID, displayName string) (*model.Account, error)
}

// StateCache defines live game state operations (Redis): the snapshot
// side-channel and the battle timer keys.
type StateCache interface {
	SaveSnapshot(ctx context.Context, state json.RawMessage) error
	LoadSnapshot(ctx context.Context) (json.RawMessage, error)
	SetWarTimer(ctx context.Context, warID string, resolveAt time.Time) error
	ClearWarTimer(ctx context.Context, warID string) error
}
