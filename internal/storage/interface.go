package storage

import "github.com/julianstephens/rota/internal/models"

// Provider persists one schedule snapshot and the history of solves.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Schedule
	// LoadSchedule returns the stored schedule, or ErrNotInitialized when
	// nothing has been saved yet.
	LoadSchedule() (*models.Schedule, error)
	// SaveSchedule replaces the stored schedule as a whole.
	SaveSchedule(*models.Schedule) error

	// Solve history
	AddSolveRun(models.SolveRun) error
	// GetSolveRuns returns up to limit runs, newest first. limit <= 0 means all.
	GetSolveRuns(limit int) ([]models.SolveRun, error)

	// Utils
	GetConfigPath() string
}
