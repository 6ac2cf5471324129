package session

import (
	"context"
	"sync"

	"github.com/avolkov/calendar-assistant/internal/model"
)

// Manager holds the in-memory current identity backed by the Store.
// It satisfies the repository's IdentityProvider interface and is the
// single place session state is read from.
type Manager struct {
	store *Store

	mu      sync.RWMutex
	current *model.Identity
}

// NewManager creates a Manager and loads any persisted identity.
func NewManager(ctx context.Context, store *Store) (*Manager, error) {
	m := &Manager{store: store}

	ident, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	m.current = ident
	return m, nil
}

// Current returns the signed-in identity, or nil when anonymous.
func (m *Manager) Current() *model.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignIn records and persists a new identity.
func (m *Manager) SignIn(ctx context.Context, ident model.Identity) error {
	if err := m.store.Save(ctx, ident); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = &ident
	m.mu.Unlock()
	return nil
}

// SignOut clears the identity in memory and on disk.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}

// UpdateDescription refreshes the cached profile note on the identity.
func (m *Manager) UpdateDescription(ctx context.Context, description string) error {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return nil
	}
	ident := *m.current
	ident.Description = description
	m.current = &ident
	m.mu.Unlock()

	return m.store.Save(ctx, ident)
}
