// Package session derives the authentication state from the token store and
// owns every transition of it: login, registration, logout and forced expiry.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/jrsteele09/vehicles-auth-client/api"
	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"github.com/jrsteele09/vehicles-auth-client/internal/utils"
	"github.com/jrsteele09/vehicles-auth-client/tokenstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Navigator is asked to show the login entry point after the session ends
type Navigator interface {
	NavigateToLogin()
}

// NavigatorFunc adapts a plain func to a Navigator
type NavigatorFunc func()

func (f NavigatorFunc) NavigateToLogin() { f() }

// State is the derived, never stored, view of the session
type State struct {
	Authenticated bool
	Username      string
}

// Service is the single writer of the token store and of the auth-state signal
type Service struct {
	store     tokenstore.Store
	auth      api.AuthAPI
	signal    *Signal
	navigator Navigator
	logger    zerolog.Logger

	// generation changes whenever a session starts or ends. Refresh results carry
	// the generation they were started under and are dropped if it moved on.
	generation uint64
	lock       sync.Mutex
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

func WithNavigator(n Navigator) ServiceOption {
	return func(s *Service) {
		s.navigator = n
	}
}

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// New returns a Service over store. The initial signal value reflects whatever
// session the store already holds.
func New(store tokenstore.Store, auth api.AuthAPI, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[session.New] token store is required")
	}
	if auth == nil {
		return nil, errors.New("[session.New] auth API is required")
	}
	s := &Service{
		store:  store,
		auth:   auth,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	s.signal = NewSignal(s.IsLoggedIn(context.Background()))
	return s, nil
}

// IsLoggedIn reports whether an access token is stored, decodes, and expires
// strictly after now. It never returns an error: storage and decode failures
// count as logged out.
func (s *Service) IsLoggedIn(ctx context.Context) bool {
	claims, err := s.Claims(ctx)
	if err != nil {
		if errors.Is(err, ierrors.ErrInvalidToken) {
			s.logger.Debug().Err(err).Msg("IsLoggedIn: undecodable access token")
		}
		return false
	}
	return claims.ExpiresAfter(NowTimeFunc())
}

// Username returns the identity carried by the stored access token. Expiry is
// not checked, so an expired but decodable token still yields a name.
func (s *Service) Username(ctx context.Context) (string, bool) {
	claims, err := s.Claims(ctx)
	if err != nil {
		return "", false
	}
	name := claims.Identity()
	return name, name != ""
}

// Claims decodes the stored access token. ErrNotAuthenticated is returned when no token is stored.
func (s *Service) Claims(ctx context.Context) (*Claims, error) {
	access, err := s.store.AccessToken(ctx)
	if err != nil {
		s.logger.Err(err).Msg("Failed to read access token")
		return nil, ierrors.Wrapf(err, "read access token")
	}
	if access == "" {
		return nil, ierrors.ErrNotAuthenticated
	}
	return DecodeClaims(access)
}

func (s *Service) State(ctx context.Context) State {
	if !s.IsLoggedIn(ctx) {
		return State{}
	}
	name, _ := s.Username(ctx)
	return State{Authenticated: true, Username: name}
}

// Login exchanges credentials for a token pair and starts a new session.
// On failure the stored session is left untouched.
func (s *Service) Login(ctx context.Context, username, password string) error {
	pair, err := s.auth.ObtainToken(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		switch api.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return errors.Join(ierrors.ErrInvalidCredentials, err)
		}
		return err
	}

	refresh := utils.Value(pair.Refresh)

	s.lock.Lock()
	err = s.store.SetTokens(ctx, pair.Access, refresh)
	if err == nil {
		s.generation++
	}
	s.lock.Unlock()
	if err != nil {
		s.logger.Err(err).Str("username", username).Msg("Login: failed to store tokens")
		return ierrors.Wrapf(err, "store tokens")
	}

	s.signal.Publish(true)
	s.logger.Info().Str("username", username).Msg("Logged in")
	return nil
}

// Register creates the account and then logs in with the same credentials
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) error {
	user, err := s.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	s.logger.Info().Str("username", user.Username).Msg("Registered")
	return s.Login(ctx, req.Username, req.Password)
}

// Logout clears the session and asks the navigator to show the login page.
// It is idempotent. The signal flips to false even if clearing the store fails.
func (s *Service) Logout(ctx context.Context) error {
	err := s.end(ctx)
	if err == nil {
		s.logger.Info().Msg("Logged out")
	}
	return err
}

// Expire ends the session started under gen because it can no longer be
// refreshed. It is a no-op when that session already ended.
func (s *Service) Expire(ctx context.Context, gen uint64, reason error) error {
	s.lock.Lock()
	current := s.generation
	s.lock.Unlock()
	if current != gen {
		return nil
	}
	s.logger.Warn().Err(reason).Msg("Session expired")
	return s.end(ctx)
}

func (s *Service) end(ctx context.Context) error {
	s.lock.Lock()
	s.generation++
	err := s.store.Clear(ctx)
	s.lock.Unlock()

	s.signal.Publish(false)
	if s.navigator != nil {
		s.navigator.NavigateToLogin()
	}
	if err != nil {
		s.logger.Err(err).Msg("Failed to clear tokens")
		return ierrors.Wrapf(err, "clear tokens")
	}
	return nil
}

// Generation identifies the current session
func (s *Service) Generation() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.generation
}

// RefreshCredential returns the current generation and refresh token together
func (s *Service) RefreshCredential(ctx context.Context) (uint64, string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	refresh, err := s.store.RefreshToken(ctx)
	if err != nil {
		return s.generation, "", ierrors.Wrapf(err, "read refresh token")
	}
	return s.generation, refresh, nil
}

// AccessToken returns the stored access token, "" when logged out
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	return s.store.AccessToken(ctx)
}

// CommitRefresh stores a refreshed pair if the session started under gen is
// still current. The refresh token is only replaced when the backend rotated it.
// ErrSessionCleared is returned when the session ended in the meantime.
func (s *Service) CommitRefresh(ctx context.Context, gen uint64, pair *api.TokenPair) error {
	s.lock.Lock()
	if s.generation != gen {
		s.lock.Unlock()
		return ierrors.ErrSessionCleared
	}
	refresh, err := s.store.RefreshToken(ctx)
	if err == nil {
		err = s.store.SetTokens(ctx, pair.Access, utils.ValueOr(pair.Refresh, refresh))
	}
	s.lock.Unlock()
	if err != nil {
		s.logger.Err(err).Msg("Failed to store refreshed tokens")
		return ierrors.Wrapf(err, "store refreshed tokens")
	}

	s.signal.Publish(true)
	return nil
}

// Subscribe returns the auth-state stream: the current value first, then every
// transition in order. Call cancel to release the subscription.
func (s *Service) Subscribe() (<-chan bool, func()) {
	return s.signal.Subscribe()
}

// Authenticated returns the last published auth state
func (s *Service) Authenticated() bool {
	return s.signal.Current()
}
