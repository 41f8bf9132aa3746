package metrics

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Used by default and in tests.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordSolve discards the solve metric.
func (n *NopMetrics) RecordSolve(_ /* status */ string, _ /* seconds */ float64) {
	// No-op
}

// SetModelSize discards the model size metric.
func (n *NopMetrics) SetModelSize(_ /* variables */, _ /* constraints */ int) {
	// No-op
}

// RecordPreference discards the preference metric.
func (n *NopMetrics) RecordPreference(_ /* sentiment */ string) {
	// No-op
}

// RecordRequest discards the request metric.
func (n *NopMetrics) RecordRequest(_ /* route */ string, _ /* code */ int) {
	// No-op
}
