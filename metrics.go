package orbitviz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot computation outcomes.
const (
	outcomeOK          = "ok"
	outcomeDegenerate  = "degenerate_node"
	outcomeInvalid     = "invalid_elements"
	outcomeConvergence = "convergence_failure"
	outcomeSuperseded  = "superseded"
	outcomeCanceled    = "canceled"
)

// Metrics instruments the snapshot store. A nil *Metrics records nothing.
type Metrics struct {
	computations *prometheus.CounterVec
	duration     prometheus.Histogram
	samples      prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg, unless reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitviz_snapshot_computations_total",
				Help: "Total number of orbit snapshot computations by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orbitviz_snapshot_duration_seconds",
				Help:    "Orbit snapshot computation duration in seconds.",
				Buckets: prometheus.ExponentialBuckets(1e-4, 4, 10),
			},
		),
		samples: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbitviz_trajectory_samples",
				Help: "Number of samples in the current trajectory.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.computations, m.duration, m.samples)
	}
	return m
}

func (m *Metrics) observe(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) published(s *OrbitSnapshot) {
	if m == nil {
		return
	}
	m.samples.Set(float64(s.Len()))
}
