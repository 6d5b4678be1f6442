package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/efreeman/world-war/api/internal/model"
)

type mockAccounts struct {
	byID       map[string]*model.Account
	byUsername map[string]*model.Account
	seq        int
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{
		byID:       make(map[string]*model.Account),
		byUsername: make(map[string]*model.Account),
	}
}

func (m *mockAccounts) FindByID(_ context.Context, id string) (*model.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccounts) FindByUsername(_ context.Context, username string) (*model.Account, error) {
	a, ok := m.byUsername[username]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccounts) Create(_ context.Context, username, passwordHash, displayName string) (*model.Account, error) {
	m.seq++
	a := &model.Account{
		ID:           fmt.Sprintf("acct-%d", m.seq),
		Username:     username,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
	}
	m.byID[a.ID] = a
	m.byUsername[a.Username] = a
	return a, nil
}

func (m *mockAccounts) UpsertOAuth(_ context.Context, provider, providerID, displayName string) (*model.Account, error) {
	username := provider + ":" + providerID
	if a, ok := m.byUsername[username]; ok {
		a.DisplayName = displayName
		cp := *a
		return &cp, nil
	}
	m.seq++
	a := &model.Account{
		ID:          fmt.Sprintf("acct-%d", m.seq),
		Username:    username,
		Provider:    provider,
		ProviderID:  providerID,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}
	m.byID[a.ID] = a
	m.byUsername[a.Username] = a
	return a, nil
}

type mockCache struct {
	mu       sync.Mutex
	snapshot json.RawMessage
	timers   map[string]time.Time
	cleared  []string
}

func newMockCache() *mockCache {
	return &mockCache{timers: make(map[string]time.Time)}
}

func (m *mockCache) SaveSnapshot(_ context.Context, state json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = append(json.RawMessage(nil), state...)
	return nil
}

func (m *mockCache) LoadSnapshot(_ context.Context) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *mockCache) SetWarTimer(_ context.Context, warID string, resolveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[warID] = resolveAt
	return nil
}

func (m *mockCache) ClearWarTimer(_ context.Context, warID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.timers, warID)
	m.cleared = append(m.cleared, warID)
	return nil
}

func (m *mockCache) hasTimer(warID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.timers[warID]
	return ok
}

type recordedEvent struct {
	Type string
	Data any
}

type mockBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (m *mockBroadcaster) BroadcastEvent(eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{Type: eventType, Data: data})
}

func (m *mockBroadcaster) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, ev := range m.events {
		types[i] = ev.Type
	}
	return types
}

// fixedRand returns the same value for every roll.
type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }
