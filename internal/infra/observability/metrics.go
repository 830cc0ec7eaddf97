package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the client.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the watch-mode /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	refreshesTotal  *prometheus.CounterVec
	uploadsTotal    *prometheus.CounterVec
	authDenials     prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finhealth_request_duration_seconds",
				Help:    "Duration of backend requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finhealth_backend_errors_total",
				Help: "Total failed backend requests by operation.",
			},
			[]string{"operation"},
		),
		refreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finhealth_dashboard_refreshes_total",
				Help: "Dashboard refresh cycles by outcome.",
			},
			[]string{"outcome"},
		),
		uploadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finhealth_uploads_total",
				Help: "Upload operations by format and phase.",
			},
			[]string{"format", "phase"},
		),
		authDenials: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "finhealth_auth_denials_total",
				Help: "Authorization denials that forced a logout.",
			},
		),
	}
}

// RecordRequestDuration records the duration of one backend operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrBackendError increments the error counter for an operation.
func (m *Metrics) IncrBackendError(operation string) {
	m.backendErrors.WithLabelValues(operation).Inc()
}

// IncrRefresh increments the refresh counter for a cycle outcome
// ("published", "failed" or "superseded").
func (m *Metrics) IncrRefresh(outcome string) {
	m.refreshesTotal.WithLabelValues(outcome).Inc()
}

// IncrUpload increments the upload counter for a format/phase pair.
func (m *Metrics) IncrUpload(format, phase string) {
	m.uploadsTotal.WithLabelValues(format, phase).Inc()
}

// IncrAuthDenial increments the forced-logout counter.
func (m *Metrics) IncrAuthDenial() {
	m.authDenials.Inc()
}

// SessionSummary is a point-in-time read-back of the session's counters,
// printed by the watch command on shutdown.
type SessionSummary struct {
	RefreshesPublished  float64
	RefreshesFailed     float64
	RefreshesSuperseded float64
	AuthDenials         float64
}

// Summary gathers current counter values.
// Note: Prometheus counters expose cumulative values.
func (m *Metrics) Summary() SessionSummary {
	return SessionSummary{
		RefreshesPublished:  getCounterValue(m.refreshesTotal, "published"),
		RefreshesFailed:     getCounterValue(m.refreshesTotal, "failed"),
		RefreshesSuperseded: getCounterValue(m.refreshesTotal, "superseded"),
		AuthDenials:         getSingleCounterValue(m.authDenials),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getSingleCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
