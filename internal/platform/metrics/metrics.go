package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the session subsystem.
type Metrics struct {
	Logins           prometheus.Counter
	LoginFailures    prometheus.Counter
	TokenRefreshes   prometheus.Counter
	RefreshFailures  prometheus.Counter
	SessionWarnings  prometheus.Counter
	RetriedRequests  prometheus.Counter
	GuardDenials     *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
	RequestLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the given registerer.
// Passing nil registers on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "inspecthub_logins_total",
			Help: "Total number of successful logins",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "inspecthub_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
		TokenRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "inspecthub_token_refreshes_total",
			Help: "Total number of successful token refreshes",
		}),
		RefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "inspecthub_refresh_failures_total",
			Help: "Total number of failed token refreshes",
		}),
		SessionWarnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "inspecthub_session_warnings_total",
			Help: "Total number of session-expiring-soon warnings emitted",
		}),
		RetriedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "inspecthub_retried_requests_total",
			Help: "Total number of requests retried after a token refresh",
		}),
		GuardDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inspecthub_guard_denials_total",
			Help: "Total number of navigation attempts denied by guards, labeled by reason",
		}, []string{"reason"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "inspecthub_active_sessions",
			Help: "Whether an authenticated session is currently established",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inspecthub_request_latency_seconds",
			Help:    "Latency of authorized requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementLogins() {
	m.Logins.Inc()
	m.ActiveSessions.Set(1)
}

func (m *Metrics) IncrementLoginFailures() {
	m.LoginFailures.Inc()
}

func (m *Metrics) IncrementTokenRefreshes() {
	m.TokenRefreshes.Inc()
}

func (m *Metrics) IncrementRefreshFailures() {
	m.RefreshFailures.Inc()
	m.ActiveSessions.Set(0)
}

func (m *Metrics) IncrementSessionWarnings() {
	m.SessionWarnings.Inc()
}

func (m *Metrics) IncrementRetriedRequests() {
	m.RetriedRequests.Inc()
}

func (m *Metrics) IncrementGuardDenials(reason string) {
	m.GuardDenials.WithLabelValues(reason).Inc()
}
