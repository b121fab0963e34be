package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Envelope outcomes recorded by Metrics.
const (
	resultSealed      = "sealed"
	resultOpened      = "opened"
	resultSkipped     = "skipped"
	resultPassthrough = "passthrough"
	resultDegraded    = "degraded"
	resultFailed      = "failed"
)

// Metrics exports Prometheus counters for the pipeline. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	envelopes *prometheus.CounterVec
	sessions  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		envelopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealedapi",
			Subsystem: "transport",
			Name:      "envelopes_total",
			Help:      "Envelope operations by pipeline phase and outcome.",
		}, []string{"phase", "result"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sealedapi",
			Subsystem: "transport",
			Name:      "session_events_total",
			Help:      "Session store changes triggered by login and logout replies.",
		}, []string{"event"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sealedapi",
			Subsystem: "transport",
			Name:      "round_trip_duration_seconds",
			Help:      "Duration of calls through the pipeline.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.envelopes, m.sessions, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) envelope(phase, result string) {
	if m == nil {
		return
	}
	m.envelopes.WithLabelValues(phase, result).Inc()
}

func (m *Metrics) session(event string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(event).Inc()
}

func (m *Metrics) observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}
