package tokenstore

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps tokens in process memory only. Nothing survives a restart.
type MemoryStore struct {
	tokens Tokens
	lock   sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SetTokens(_ context.Context, access, refresh string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.tokens = Tokens{Access: access, Refresh: refresh}
	return nil
}

func (m *MemoryStore) AccessToken(_ context.Context) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.tokens.Access, nil
}

func (m *MemoryStore) RefreshToken(_ context.Context) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.tokens.Refresh, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.tokens = Tokens{}
	return nil
}
