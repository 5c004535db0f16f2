package apifake

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/vehicles-auth-client/api"
	"github.com/jrsteele09/vehicles-auth-client/internal/utils"
)

var _ api.AuthAPI = (*FakeAuth)(nil)

// FakeAuth answers the auth endpoints from a fixed set of accounts
type FakeAuth struct {
	accounts   map[string]string
	pairs      map[string]*api.TokenPair
	refreshed  *api.TokenPair
	refreshErr error
	calls      map[string]int
	lock       sync.Mutex
}

func NewFakeAuth() *FakeAuth {
	return &FakeAuth{
		accounts: make(map[string]string),
		pairs:    make(map[string]*api.TokenPair),
		calls:    make(map[string]int),
	}
}

// AddAccount registers username/password and the pair a login returns
func (f *FakeAuth) AddAccount(username, password, access, refresh string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.accounts[username] = password
	f.pairs[username] = &api.TokenPair{Access: access, Refresh: utils.Ptr(refresh)}
}

// SetRefreshResult sets what RefreshToken returns
func (f *FakeAuth) SetRefreshResult(pair *api.TokenPair, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.refreshed = pair
	f.refreshErr = err
}

// Calls returns how often the named method was called
func (f *FakeAuth) Calls(method string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[method]
}

func (f *FakeAuth) ObtainToken(_ context.Context, req api.LoginRequest) (*api.TokenPair, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls["ObtainToken"]++
	password, ok := f.accounts[req.Username]
	if !ok || password != req.Password {
		return nil, &api.Error{
			Method:     http.MethodPost,
			Path:       api.RouteToken,
			StatusCode: http.StatusUnauthorized,
			Detail:     "No active account found with the given credentials",
		}
	}
	pair := *f.pairs[req.Username]
	return &pair, nil
}

func (f *FakeAuth) RefreshToken(_ context.Context, _ api.RefreshRequest) (*api.TokenPair, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls["RefreshToken"]++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if f.refreshed == nil {
		return nil, &api.Error{Method: http.MethodPost, Path: api.RouteTokenRefresh, StatusCode: http.StatusUnauthorized}
	}
	pair := *f.refreshed
	return &pair, nil
}

func (f *FakeAuth) Register(_ context.Context, req api.RegisterRequest) (*api.User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls["Register"]++
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, exists := f.accounts[req.Username]; exists {
		return nil, &api.Error{
			Method:     http.MethodPost,
			Path:       api.RouteRegister,
			StatusCode: http.StatusBadRequest,
			Fields:     map[string][]string{"username": {"A user with that username already exists."}},
		}
	}
	f.accounts[req.Username] = req.Password
	f.pairs[req.Username] = &api.TokenPair{Access: req.Username + "-access", Refresh: utils.Ptr(req.Username + "-refresh")}
	return &api.User{ID: int64(len(f.accounts)), Username: req.Username, Email: req.Email}, nil
}
