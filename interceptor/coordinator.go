package interceptor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/vehicles-auth-client/api"
	"github.com/jrsteele09/vehicles-auth-client/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshTimeout = 30 * time.Second
	refreshKey            = "refresh"
)

// Session is the part of the session service the interceptor drives
type Session interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshCredential(ctx context.Context) (uint64, string, error)
	CommitRefresh(ctx context.Context, gen uint64, pair *api.TokenPair) error
	Expire(ctx context.Context, gen uint64, reason error) error
}

// Refresher exchanges a refresh token for a new pair. It must not use the authorizing transport.
type Refresher interface {
	RefreshToken(ctx context.Context, req api.RefreshRequest) (*api.TokenPair, error)
}

type State int

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Refreshing:
		return "REFRESHING"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Coordinator runs at most one refresh exchange at a time. Every 401 handler that
// arrives while one is in flight waits for its outcome instead of starting another.
type Coordinator struct {
	session   Session
	refresher Refresher
	timeout   time.Duration
	metrics   *metrics.Collectors
	logger    zerolog.Logger

	group    singleflight.Group
	lock     sync.Mutex // guards the enqueue-or-initiate decision and the commit
	inFlight bool
	waiters  int
}

func NewCoordinator(session Session, refresher Refresher, timeout time.Duration, m *metrics.Collectors, logger zerolog.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &Coordinator{
		session:   session,
		refresher: refresher,
		timeout:   timeout,
		metrics:   m,
		logger:    logger,
	}
}

func (c *Coordinator) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.inFlight {
		return Refreshing
	}
	return Idle
}

// Waiters is the number of callers that joined the in-flight refresh
func (c *Coordinator) Waiters() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.waiters
}

// Refresh is called after a request carrying staleToken got a 401. It returns the
// access token to retry with. refreshed is false when the store already held a
// newer token, in which case no exchange was made.
func (c *Coordinator) Refresh(ctx context.Context, staleToken string) (token string, refreshed bool, err error) {
	c.lock.Lock()
	current, readErr := c.session.AccessToken(ctx)
	if readErr == nil && current != "" && current != staleToken {
		c.lock.Unlock()
		return current, false, nil
	}
	if c.inFlight {
		c.waiters++
		c.metrics.Waiter()
	} else {
		c.inFlight = true
	}
	ch := c.group.DoChan(refreshKey, c.refresh)
	c.lock.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", false, res.Err
		}
		return res.Val.(string), true, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// refresh runs detached from any single request so a cancelled originator does
// not fail the waiters.
func (c *Coordinator) refresh() (any, error) {
	logger := c.logger.With().Str("refresh_id", uuid.NewString()).Logger()
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	gen, refreshToken, err := c.session.RefreshCredential(ctx)
	if err != nil {
		logger.Err(err).Msg("Refresh: failed to read refresh token")
		c.metrics.RefreshAttempt(metrics.OutcomeFailed)
		c.settle()
		return nil, err
	}

	if refreshToken == "" {
		logger.Warn().Msg("Refresh: no refresh token, ending session")
		c.metrics.RefreshAttempt(metrics.OutcomeNoRefreshToken)
		_ = c.session.Expire(context.WithoutCancel(ctx), gen, ErrNoRefreshToken)
		c.settle()
		return nil, ErrNoRefreshToken
	}

	logger.Debug().Msg("Refreshing access token")
	pair, err := c.refresher.RefreshToken(ctx, api.RefreshRequest{Refresh: refreshToken})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		logger.Err(err).Msg("Refresh: exchange failed, ending session")
		c.metrics.RefreshAttempt(metrics.OutcomeFailed)
		// ctx may already be past its deadline
		_ = c.session.Expire(context.WithoutCancel(ctx), gen, err)
		c.settle()
		return nil, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	defer c.reset()
	if err := c.session.CommitRefresh(ctx, gen, pair); err != nil {
		if errors.Is(err, ErrSessionCleared) {
			logger.Info().Msg("Refresh: session ended while refreshing, dropping tokens")
			c.metrics.RefreshAttempt(metrics.OutcomeSessionCleared)
		} else {
			c.metrics.RefreshAttempt(metrics.OutcomeFailed)
		}
		return nil, err
	}
	c.metrics.RefreshAttempt(metrics.OutcomeSuccess)
	logger.Info().Int("waiters", c.waiters).Msg("Access token refreshed")
	return pair.Access, nil
}

func (c *Coordinator) settle() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.reset()
}

// reset must be called with the lock held. A 401 arriving after reset starts a
// new exchange rather than joining the settled one.
func (c *Coordinator) reset() {
	c.group.Forget(refreshKey)
	c.inFlight = false
	c.waiters = 0
}
