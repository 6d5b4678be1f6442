package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/efreeman/world-war/api/internal/model"
)

// AccountRepo handles credential database operations.
type AccountRepo struct {
	db *sql.DB
}

// NewAccountRepo creates an AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, username, password_hash, provider, provider_id, display_name, created_at, updated_at`

func scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	var hash, provider, providerID sql.NullString
	err := row.Scan(&a.ID, &a.Username, &hash, &provider, &providerID, &a.DisplayName, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.PasswordHash = hash.String
	a.Provider = provider.String
	a.ProviderID = providerID.String
	return &a, nil
}

// FindByID looks up an account by its UUID.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return a, nil
}

// FindByUsername looks up an account by username.
func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username))
	if err != nil {
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return a, nil
}

// Create inserts a password account.
func (r *AccountRepo) Create(ctx context.Context, username, passwordHash, displayName string) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (username, password_hash, display_name)
		 VALUES ($1, $2, $3)
		 RETURNING `+accountColumns,
		username, passwordHash, displayName))
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

// UpsertOAuth creates or refreshes an OAuth-backed account keyed on
// (provider, provider_id).
func (r *AccountRepo) UpsertOAuth(ctx context.Context, provider, providerID, displayName string) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (username, provider, provider_id, display_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (provider, provider_id)
		 DO UPDATE SET display_name = EXCLUDED.display_name, updated_at = now()
		 RETURNING `+accountColumns,
		provider+":"+providerID, provider, providerID, displayName))
	if err != nil {
		return nil, fmt.Errorf("upsert oauth account: %w", err)
	}
	return a, nil
}
