package install

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultCommitted  = "committed"
	resultRolledBack = "rolled_back"
	resultRejected   = "rejected"
	resultFailed     = "failed"
)

// Metrics counts install runs. A nil *Metrics records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	advisories   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics registers the install metrics with reg, or with a private
// registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goobcms",
			Subsystem: "install",
			Name:      "runs_total",
			Help:      "Install runs by result.",
		}, []string{"result"}),
		advisories: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "goobcms",
			Subsystem: "install",
			Name:      "advisories_total",
			Help:      "Non-fatal install step failures by step.",
		}, []string{"step"}),
		stepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "goobcms",
			Subsystem: "install",
			Name:      "step_duration_seconds",
			Help:      "Time spent in each install step.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"step"}),
	}
}

func (m *Metrics) run(result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
}

func (m *Metrics) advisory(step string) {
	if m == nil {
		return
	}
	m.advisories.WithLabelValues(step).Inc()
}

func (m *Metrics) step(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(name).Observe(d.Seconds())
}
