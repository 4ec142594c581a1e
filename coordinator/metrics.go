package coordinator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks workflow activity. All methods are nil-safe so the
// coordinator can run unmetered in tests.
type Metrics struct {
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	activeTasks  prometheus.Gauge
}

// NewMetrics registers the workflow metrics on the given registerer. A nil
// registerer uses the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		stepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workflow_steps_total",
				Help:      "Total number of workflow steps executed",
			},
			[]string{"agent", "action", "status"},
		),
		stepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "workflow_step_duration_seconds",
				Help:      "Workflow step duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"agent", "action"},
		),
		activeTasks: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "workflow_active_tasks",
				Help:      "Number of research tasks currently running",
			},
		),
	}
}

func (m *Metrics) observeStep(agent, action, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(agent, action, status).Inc()
	m.stepDuration.WithLabelValues(agent, action).Observe(elapsed.Seconds())
}

func (m *Metrics) taskStarted() {
	if m == nil {
		return
	}
	m.activeTasks.Inc()
}

func (m *Metrics) taskFinished() {
	if m == nil {
		return
	}
	m.activeTasks.Dec()
}
