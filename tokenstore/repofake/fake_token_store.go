package tokenstorefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/vehicles-auth-client/tokenstore"
)

var _ tokenstore.Store = (*FakeTokenStore)(nil)

// FakeTokenStore is an in-memory store that records writes and can be told to fail.
type FakeTokenStore struct {
	tokens   tokenstore.Tokens
	writes   int
	clears   int
	failWith error
	lock     sync.RWMutex
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{}
}

// NewFakeTokenStoreWith returns a store already holding the given pair
func NewFakeTokenStoreWith(access, refresh string) *FakeTokenStore {
	return &FakeTokenStore{tokens: tokenstore.Tokens{Access: access, Refresh: refresh}}
}

// FailWith makes every subsequent operation return err. nil restores normal behaviour.
func (s *FakeTokenStore) FailWith(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failWith = err
}

func (s *FakeTokenStore) SetTokens(_ context.Context, access, refresh string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.tokens = tokenstore.Tokens{Access: access, Refresh: refresh}
	s.writes++
	return nil
}

func (s *FakeTokenStore) AccessToken(_ context.Context) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	return s.tokens.Access, nil
}

func (s *FakeTokenStore) RefreshToken(_ context.Context) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	return s.tokens.Refresh, nil
}

func (s *FakeTokenStore) Clear(_ context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.tokens = tokenstore.Tokens{}
	s.clears++
	return nil
}

// Tokens returns a copy of the stored pair
func (s *FakeTokenStore) Tokens() tokenstore.Tokens {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.tokens
}

// Writes returns how many times SetTokens succeeded
func (s *FakeTokenStore) Writes() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.writes
}

// Clears returns how many times Clear succeeded
func (s *FakeTokenStore) Clears() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.clears
}
