// Package interceptor authorizes outgoing API requests with the session's access
// token and recovers from 401 responses with a single coordinated refresh.
package interceptor

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/vehicles-auth-client/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxDrainBytes = 64 << 10

var _ http.RoundTripper = (*Transport)(nil)

// Transport attaches the bearer token to every request. On a 401 it asks the
// coordinator for a fresh token and replays the request once.
type Transport struct {
	base        http.RoundTripper
	session     Session
	coordinator *Coordinator
	metrics     *metrics.Collectors
	logger      zerolog.Logger
}

type transportConfig struct {
	base           http.RoundTripper
	refreshTimeout time.Duration
	metrics        *metrics.Collectors
	logger         zerolog.Logger
}

// Option configures a Transport
type Option func(*transportConfig)

// WithBase sets the transport that carries requests. Defaults to http.DefaultTransport.
func WithBase(base http.RoundTripper) Option {
	return func(c *transportConfig) {
		c.base = base
	}
}

func WithRefreshTimeout(timeout time.Duration) Option {
	return func(c *transportConfig) {
		c.refreshTimeout = timeout
	}
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(c *transportConfig) {
		c.metrics = m
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *transportConfig) {
		c.logger = logger
	}
}

// NewTransport returns a Transport for session. refresher must talk to the
// backend without going through this Transport.
func NewTransport(session Session, refresher Refresher, options ...Option) *Transport {
	cfg := transportConfig{
		base:           http.DefaultTransport,
		refreshTimeout: DefaultRefreshTimeout,
		logger:         log.Logger,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Transport{
		base:        cfg.base,
		session:     session,
		coordinator: NewCoordinator(session, refresher, cfg.refreshTimeout, cfg.metrics, cfg.logger),
		metrics:     cfg.metrics,
		logger:      cfg.logger,
	}
}

// Coordinator exposes the refresh state, mainly for diagnostics
func (t *Transport) Coordinator() *Coordinator {
	return t.coordinator
}

// Client returns an http.Client using t
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := req.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := t.logger.With().Str("request_id", requestID).Logger()

	access, err := t.session.AccessToken(ctx)
	if err != nil {
		logger.Err(err).Msg("Failed to read access token, sending unauthenticated")
		access = ""
	}

	resp, err := t.base.RoundTrip(authorize(req, requestID, access))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if !replayable(req) {
		logger.Warn().Str("path", req.URL.Path).Msg("401 on a request whose body cannot be replayed")
		return resp, nil
	}
	drain(resp)

	token, refreshed, err := t.coordinator.Refresh(ctx, access)
	if err != nil {
		return nil, err
	}

	// The store is read again so the retry sees the latest committed token
	if current, err := t.session.AccessToken(ctx); err == nil && current != "" {
		token = current
	}

	retry := authorize(req, requestID, token)
	if req.GetBody != nil && req.Body != nil && req.Body != http.NoBody {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}

	reason := metrics.RetryRefreshed
	if !refreshed {
		reason = metrics.RetryTokenReplaced
	}
	t.metrics.Retried(reason)
	logger.Debug().Str("reason", reason).Str("path", req.URL.Path).Msg("Retrying request")

	return t.base.RoundTrip(retry)
}

func authorize(req *http.Request, requestID, access string) *http.Request {
	out := req.Clone(req.Context())
	out.Header.Set(HeaderRequestID, requestID)
	if access != "" {
		out.Header.Set("Authorization", "Bearer "+access)
	}
	return out
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	_ = resp.Body.Close()
}
