package models

import "time"

// SolveRun is the history record of one orchestrated solve.
type SolveRun struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	DurationMs  int64     `json:"duration_ms"`
	Status      string    `json:"status"`
	Developers  int       `json:"developers"`
	Weeks       int       `json:"weeks"`
	Fingerprint string    `json:"fingerprint,omitempty"` // of the produced schedule, if any
	Message     string    `json:"message,omitempty"`
}
