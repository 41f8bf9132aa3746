// Package metrics records solve and API activity.
package metrics

// Collector receives scheduling metrics. Implementations must be safe for
// concurrent use.
type Collector interface {
	// RecordSolve records one orchestrated solve by outcome status.
	RecordSolve(status string, seconds float64)
	// SetModelSize records the size of the last formulated model.
	SetModelSize(variables, constraints int)
	// RecordPreference counts a registered preference by sentiment name.
	RecordPreference(sentiment string)
	// RecordRequest counts an API request by route and status code.
	RecordRequest(route string, code int)
}
