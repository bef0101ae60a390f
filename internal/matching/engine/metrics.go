package engine

import (
	"time"

	"procurement_backend/platform/apperr"
	"procurement_backend/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records engine activity. A nil *Metrics records nothing.
type Metrics struct {
	duration      prometheus.Histogram
	possibilities prometheus.Counter
	errors        *prometheus.CounterVec
}

// NewMetrics registers the engine collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "matching",
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing possibilities for a call.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		possibilities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "matching",
			Name:      "possibilities_total",
			Help:      "Possibilities produced across all computations.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "matching",
			Name:      "compute_errors_total",
			Help:      "Failed computations by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.duration, m.possibilities, m.errors)
	return m
}

func (m *Metrics) observe(elapsed time.Duration, produced int, err error) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	if err != nil {
		m.errors.WithLabelValues(apperr.GetKind(err).String()).Inc()
		return
	}
	m.possibilities.Add(float64(produced))
}
