// Package metrics holds the Prometheus collectors for token refresh and request retry outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes
const (
	OutcomeSuccess        = "success"
	OutcomeFailed         = "failed"
	OutcomeNoRefreshToken = "no_refresh_token"
	OutcomeSessionCleared = "session_cleared"
)

// Retry reasons
const (
	RetryRefreshed     = "refreshed"
	RetryTokenReplaced = "token_replaced"
)

const namespace = "vehicles_client"

// Collectors is registered on its own registry so several clients can live in one process
type Collectors struct {
	RefreshAttempts  *prometheus.CounterVec
	CoalescedWaiters prometheus.Counter
	RetriedRequests  *prometheus.CounterVec
	registry         *prometheus.Registry
}

func New() *Collectors {
	c := &Collectors{
		RefreshAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Token refresh exchanges by outcome.",
		}, []string{"outcome"}),
		CoalescedWaiters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_waiters_total",
			Help:      "Requests that joined an in-flight refresh instead of starting one.",
		}),
		RetriedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retried_requests_total",
			Help:      "Requests replayed after a 401, by reason.",
		}, []string{"reason"}),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(c.RefreshAttempts, c.CoalescedWaiters, c.RetriedRequests)
	return c
}

// Registry returns the registry holding the collectors
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collectors in the Prometheus exposition format
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// The methods below accept a nil receiver so callers can run without metrics.

func (c *Collectors) RefreshAttempt(outcome string) {
	if c == nil {
		return
	}
	c.RefreshAttempts.WithLabelValues(outcome).Inc()
}

func (c *Collectors) Waiter() {
	if c == nil {
		return
	}
	c.CoalescedWaiters.Inc()
}

func (c *Collectors) Retried(reason string) {
	if c == nil {
		return
	}
	c.RetriedRequests.WithLabelValues(reason).Inc()
}
