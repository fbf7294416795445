package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics exports store activity to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	actionsTotal  *prometheus.CounterVec
	loadsTotal    *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	skillsGauge   prometheus.Gauge
	projectsGauge prometheus.Gauge
	loadingGauge  prometheus.Gauge
}

// NewMetrics creates the store metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "actions_total",
				Help:      "Total number of actions dispatched to the portfolio store",
			},
			[]string{"type"},
		),
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "loads_total",
				Help:      "Total number of completed portfolio loads by outcome",
			},
			[]string{"outcome"},
		),
		loadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "load_duration_seconds",
				Help:      "Time spent fetching the portfolio from the provider",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2.5, 5},
			},
		),
		skillsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "skills",
			Help:      "Number of skills in the current state",
		}),
		projectsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "projects",
			Help:      "Number of projects in the current state",
		}),
		loadingGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "loading",
			Help:      "1 while a portfolio load is in flight",
		}),
	}

	collectors := []prometheus.Collector{
		m.actionsTotal, m.loadsTotal, m.loadDuration,
		m.skillsGauge, m.projectsGauge, m.loadingGauge,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe is a Listener that records every transition.
func (m *Metrics) Observe(state *portfolio.State, action portfolio.Action) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action.Type()).Inc()
	m.skillsGauge.Set(float64(len(state.Skills)))
	m.projectsGauge.Set(float64(len(state.Projects)))
	if state.Loading {
		m.loadingGauge.Set(1)
	} else {
		m.loadingGauge.Set(0)
	}
}

func (m *Metrics) observeLoad(elapsed time.Duration, outcome string) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(outcome).Inc()
	m.loadDuration.Observe(elapsed.Seconds())
}
