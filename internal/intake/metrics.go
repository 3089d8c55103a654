package intake

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes recorded by feedback_submissions_total.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeValidation   = "validation"
	OutcomePersistence  = "persistence"
	OutcomeNotification = "notification"
)

// Metrics holds the Prometheus collectors for the intake pipeline.
type Metrics struct {
	submissions          *prometheus.CounterVec
	notificationFailures prometheus.Counter
	storeLatency         prometheus.Histogram
	notifyLatency        prometheus.Histogram
}

// NewMetrics registers the intake collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Feedback submissions by outcome",
		}, []string{"outcome"}),
		notificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "feedback_notification_failures_total",
			Help: "Publishes that failed after the record was stored",
		}),
		storeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedback_store_put_duration_seconds",
			Help:    "Time taken by RecordStore.Put",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		notifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedback_notify_publish_duration_seconds",
			Help:    "Time taken by Notifier.Publish",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}
}

// The nil receiver checks let a Handler run without metrics.

func (m *Metrics) observeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeStore(seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.Observe(seconds)
}

func (m *Metrics) observeNotify(seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.notifyLatency.Observe(seconds)
	if failed {
		m.notificationFailures.Inc()
	}
}
