package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/efreeman/world-war/api/internal/game"
	"github.com/efreeman/world-war/api/internal/model"
	"github.com/efreeman/world-war/api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username must be 3-32 characters")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrSuspended          = errors.New("account is suspended")
)

// SessionService handles registration, login, and the player's entry into the
// world: country selection and chat.
type SessionService struct {
	accounts    repository.AccountRepository
	store       *game.Store
	broadcaster Broadcaster
}

// NewSessionService creates a SessionService.
func NewSessionService(accounts repository.AccountRepository, store *game.Store, broadcaster Broadcaster) *SessionService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &SessionService{accounts: accounts, store: store, broadcaster: broadcaster}
}

// Register creates a credential record and the matching game user.
func (s *SessionService) Register(ctx context.Context, username, password, displayName string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 32 {
		return nil, ErrInvalidUsername
	}
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}
	if displayName == "" {
		displayName = username
	}

	existing, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, username, string(hash), displayName)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Dispatch(game.Action{
		Type: game.ActionRegister,
		Payload: game.RegisterPayload{
			UserID:      account.ID,
			Username:    account.Username,
			DisplayName: account.DisplayName,
		},
	}); err != nil {
		return nil, err
	}
	return account, nil
}

// Login verifies credentials and marks the session user in the state tree.
func (s *SessionService) Login(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if account == nil || account.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if u := s.store.State().UserByID(account.ID); u != nil && u.IsSuspended {
		return nil, ErrSuspended
	}

	if _, err := s.store.Dispatch(game.Action{
		Type:    game.ActionLogin,
		Payload: game.LoginPayload{UserID: account.ID},
	}); err != nil {
		return nil, err
	}
	return account, nil
}

// LoginOAuth creates or refreshes an OAuth account and logs it in. The game
// user is registered on first login.
func (s *SessionService) LoginOAuth(ctx context.Context, provider, providerID, displayName string) (*model.Account, error) {
	account, err := s.accounts.UpsertOAuth(ctx, provider, providerID, displayName)
	if err != nil {
		return nil, err
	}

	if s.store.State().UserByID(account.ID) == nil {
		if _, err := s.store.Dispatch(game.Action{
			Type: game.ActionRegister,
			Payload: game.RegisterPayload{
				UserID:      account.ID,
				Username:    account.Username,
				DisplayName: account.DisplayName,
			},
		}); err != nil && !errors.Is(err, game.ErrUserExists) {
			return nil, err
		}
	}

	if u := s.store.State().UserByID(account.ID); u != nil && u.IsSuspended {
		return nil, ErrSuspended
	}

	if _, err := s.store.Dispatch(game.Action{
		Type:    game.ActionLogin,
		Payload: game.LoginPayload{UserID: account.ID},
	}); err != nil {
		return nil, err
	}
	return account, nil
}

// Logout clears the session user.
func (s *SessionService) Logout(ctx context.Context) error {
	_, err := s.store.Dispatch(game.Action{Type: game.ActionLogout})
	return err
}

// SelectCountry claims a free country for the user and grants its starting
// bonus.
func (s *SessionService) SelectCountry(ctx context.Context, userID, countryID string) (*model.User, error) {
	st, err := s.store.Dispatch(game.Action{
		Type:    game.ActionSelectCountry,
		Payload: game.SelectCountryPayload{UserID: userID, CountryID: countryID},
	})
	if err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastEvent("country_selected", map[string]string{
		"user_id": userID, "country_id": countryID,
	})
	return st.UserByID(userID), nil
}

// SendMessage posts a public or direct chat message.
func (s *SessionService) SendMessage(ctx context.Context, senderID, recipientID, content string) (*model.Message, error) {
	id := uuid.NewString()
	st, err := s.store.Dispatch(game.Action{
		Type: game.ActionSendMessage,
		Payload: game.SendMessagePayload{
			MessageID:   id,
			SenderID:    senderID,
			RecipientID: recipientID,
			Content:     content,
		},
	})
	if err != nil {
		return nil, err
	}
	for i := range st.Messages {
		if st.Messages[i].ID == id {
			msg := st.Messages[i]
			if msg.RecipientID == "" {
				s.broadcaster.BroadcastEvent("chat_message", msg)
			}
			return &msg, nil
		}
	}
	return nil, game.ErrInternal
}
