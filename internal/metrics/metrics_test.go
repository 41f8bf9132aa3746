package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of every sample in reg keyed by metric family
// name, summing over labels. Histograms report their sample count.
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[f.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[f.GetName()] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				out[f.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestNopMetrics(t *testing.T) {
	m := NewNop()

	require.NotPanics(t, func() {
		m.RecordSolve("OPTIMAL", 0.5)
		m.SetModelSize(144, 500)
		m.RecordPreference("VERY_NEGATIVE")
		m.RecordRequest("/api/solve", 200)
	})
}

func TestPrometheusCollector_LazyRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewPrometheus(reg, "")

	require.Empty(t, gathered(t, reg))
}

func TestPrometheusCollector_RecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordSolve("OPTIMAL", 0.2)
	p.RecordSolve("OPTIMAL", 0.3)
	p.RecordSolve("INFEASIBLE", 0.1)

	values := gathered(t, reg)
	require.Equal(t, 3.0, values["test_solver_solves_total"])
	require.Equal(t, 3.0, values["test_solver_solve_duration_seconds"])
}

func TestPrometheusCollector_Gauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.SetModelSize(144, 512)
	p.RecordPreference("VERY_POSITIVE")
	p.RecordRequest("/api/schedule", 200)

	values := gathered(t, reg)
	require.Equal(t, 144.0, values["test_solver_model_variables"])
	require.Equal(t, 512.0, values["test_solver_model_constraints"])
	require.Equal(t, 1.0, values["test_registry_preferences_total"])
	require.Equal(t, 1.0, values["test_api_requests_total"])
}
