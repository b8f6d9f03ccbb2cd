package remote

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the submission collectors.
type Metrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modalform_submissions_total",
			Help: "Remote form submissions by outcome.",
		}, []string{"form", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "modalform_submission_duration_seconds",
			Help:    "Remote form submission latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"form"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, collector := range []prometheus.Collector{m.submissions, m.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(form string, status Status, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, status.String()).Inc()
	m.duration.WithLabelValues(form).Observe(elapsed.Seconds())
}
