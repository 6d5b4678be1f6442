package model

import "time"

// Account is the credential record backing a game user. Accounts live in
// Postgres; the game user itself lives in the state tree under the same ID.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider,omitempty"` // empty for password accounts
	ProviderID   string    `json:"provider_id,omitempty"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
