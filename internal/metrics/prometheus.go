package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
//
// Metrics are registered lazily on first use, so constructing a collector
// that is never used leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	solvesTotal      *prometheus.CounterVec
	solveDuration    prometheus.Histogram
	modelVariables   prometheus.Gauge
	modelConstraints prometheus.Gauge
	preferencesTotal *prometheus.CounterVec
	requestsTotal    *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector. A nil registerer means
// prometheus.DefaultRegisterer; an empty namespace means "rota".
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rota"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.solvesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "solves_total",
			Help:      "Total orchestrated solves by outcome status.",
		}, []string{"status"})

		p.solveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of solves in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 10), // 5ms .. ~19s
		})

		p.modelVariables = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "model_variables",
			Help:      "Boolean variables in the last formulated model.",
		})

		p.modelConstraints = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "model_constraints",
			Help:      "Constraints in the last formulated model.",
		})

		p.preferencesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "preferences_total",
			Help:      "Total registered preferences by sentiment.",
		}, []string{"sentiment"})

		p.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests by route and status code.",
		}, []string{"route", "code"})

		p.reg.MustRegister(p.solvesTotal)
		p.reg.MustRegister(p.solveDuration)
		p.reg.MustRegister(p.modelVariables)
		p.reg.MustRegister(p.modelConstraints)
		p.reg.MustRegister(p.preferencesTotal)
		p.reg.MustRegister(p.requestsTotal)
	})
}

// RecordSolve counts a solve and observes its duration.
func (p *PrometheusCollector) RecordSolve(status string, seconds float64) {
	p.ensureRegistered()
	p.solvesTotal.WithLabelValues(status).Inc()
	p.solveDuration.Observe(seconds)
}

// SetModelSize sets the model size gauges.
func (p *PrometheusCollector) SetModelSize(variables, constraints int) {
	p.ensureRegistered()
	p.modelVariables.Set(float64(variables))
	p.modelConstraints.Set(float64(constraints))
}

// RecordPreference counts a registered preference.
func (p *PrometheusCollector) RecordPreference(sentiment string) {
	p.ensureRegistered()
	p.preferencesTotal.WithLabelValues(sentiment).Inc()
}

// RecordRequest counts an API request.
func (p *PrometheusCollector) RecordRequest(route string, code int) {
	p.ensureRegistered()
	p.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
