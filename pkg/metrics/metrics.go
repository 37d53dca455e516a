package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
// Record* methods are safe to call on a nil *Metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	UsersRegistered     prometheus.Counter
	LoginAttempts       *prometheus.CounterVec
	CampaignsCreated    prometheus.Counter
	CampaignTransitions *prometheus.CounterVec
	MessagesProvisioned prometheus.Counter
	GenerationFallbacks *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// New registers all metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of users registered",
		}),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // success, failed
		),
		CampaignsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "campaigns_created_total",
			Help: "Total number of campaigns created",
		}),
		CampaignTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_transitions_total",
				Help: "Campaign status transitions by target status and outcome",
			},
			[]string{"to", "outcome"}, // outcome: applied, rejected
		),
		MessagesProvisioned: factory.NewCounter(prometheus.CounterOpts{
			Name: "messages_provisioned_total",
			Help: "Total number of outreach messages created on activation",
		}),
		GenerationFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_generation_fallbacks_total",
				Help: "Message drafts that used the deterministic fallback text",
			},
			[]string{"kind", "reason"}, // kind: initial, personalized
		),

		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// Route pattern, not the raw path, keeps label cardinality bounded
			path := c.Path()
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}

			m.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
			m.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordUserRegistered increments users registered counter
func (m *Metrics) RecordUserRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

// RecordLoginAttempt increments login attempts counter
func (m *Metrics) RecordLoginAttempt(success bool) {
	if m == nil {
		return
	}
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}

// RecordCampaignCreated increments campaigns created counter
func (m *Metrics) RecordCampaignCreated() {
	if m == nil {
		return
	}
	m.CampaignsCreated.Inc()
}

// RecordTransition counts an attempted status change
func (m *Metrics) RecordTransition(to string, applied bool) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if applied {
		outcome = "applied"
	}
	m.CampaignTransitions.WithLabelValues(to, outcome).Inc()
}

// RecordMessagesProvisioned adds n to the provisioned messages counter
func (m *Metrics) RecordMessagesProvisioned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MessagesProvisioned.Add(float64(n))
}

// RecordGenerationFallback counts a draft that fell back to the fixed text
func (m *Metrics) RecordGenerationFallback(kind, reason string) {
	if m == nil {
		return
	}
	m.GenerationFallbacks.WithLabelValues(kind, reason).Inc()
}

// RecordCacheHit increments cache hits counter
func (m *Metrics) RecordCacheHit(cacheType string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss increments cache misses counter
func (m *Metrics) RecordCacheMiss(cacheType string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(cacheType).Inc()
}
