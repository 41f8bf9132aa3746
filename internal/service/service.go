// Package service runs the load, mutate, save cycle behind every rota entry
// point. The CLI and the HTTP API both go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/rota/internal/backup"
	"github.com/julianstephens/rota/internal/config"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/metrics"
	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/scheduler"
	"github.com/julianstephens/rota/internal/storage"
	"github.com/julianstephens/rota/internal/validation"
)

type Service struct {
	Store     storage.Provider
	Policy    config.Policy
	Scheduler *scheduler.Scheduler
	Metrics   metrics.Collector

	// Now is the clock used to seed a fresh horizon.
	Now func() time.Time
}

// New wires a Service for the given store and policy. Extra scheduler options
// are applied after the policy's own configuration.
func New(store storage.Provider, policy config.Policy, m metrics.Collector, opts ...scheduler.Option) *Service {
	if m == nil {
		m = metrics.NewNop()
	}
	base := []scheduler.Option{scheduler.WithConfig(policy.Scheduler), scheduler.WithMetrics(m)}
	return &Service{
		Store:     store,
		Policy:    policy,
		Scheduler: scheduler.New(append(base, opts...)...),
		Metrics:   m,
		Now:       time.Now,
	}
}

// Schedule returns the stored schedule, seeding one from the policy when the
// store is still empty.
func (s *Service) Schedule() (*models.Schedule, error) {
	sched, _, err := storage.LoadOrSeed(s.Store, func() (*models.Schedule, error) {
		return s.Policy.Seed(s.Now())
	})
	return sched, err
}

// Reset replaces the stored schedule with a freshly seeded one.
func (s *Service) Reset() (*models.Schedule, error) {
	sched, err := s.Policy.Seed(s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Store.SaveSchedule(sched); err != nil {
		return nil, err
	}
	return sched, nil
}

func (s *Service) mutate(fn func(*models.Schedule) error) (*models.Schedule, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	if err := fn(sched); err != nil {
		return nil, err
	}
	if err := s.Store.SaveSchedule(sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Prefer records a sentiment for the week containing day. It reports whether
// an earlier preference for that week was replaced.
func (s *Service) Prefer(developer string, day time.Time, sentiment models.Sentiment) (bool, error) {
	var replaced bool
	_, err := s.mutate(func(sched *models.Schedule) error {
		var err error
		replaced, err = sched.AddPreference(developer, models.WeekOf(day), sentiment)
		return err
	})
	if err != nil {
		return false, err
	}
	s.Metrics.RecordPreference(sentiment.String())
	logger.Info("Recorded preference", "developer", developer, "week", models.WeekOf(day).Key(), "sentiment", sentiment, "replaced", replaced)
	return replaced, nil
}

// Vacation marks the week containing day as a week developer cannot be on support.
func (s *Service) Vacation(developer string, day time.Time) (bool, error) {
	return s.Prefer(developer, day, models.VeryNegative)
}

// Unprefer drops the developer's preference for the week containing day.
func (s *Service) Unprefer(developer string, day time.Time) (bool, error) {
	var removed bool
	_, err := s.mutate(func(sched *models.Schedule) error {
		var err error
		removed, err = sched.RemovePreference(developer, models.WeekOf(day))
		return err
	})
	return removed, err
}

func (s *Service) AddDeveloper(name string) error {
	_, err := s.mutate(func(sched *models.Schedule) error {
		return sched.AddDeveloper(name)
	})
	return err
}

// ExtendHorizon appends n weeks to the stored schedule.
func (s *Service) ExtendHorizon(n int) ([]models.Week, error) {
	if n < 1 {
		return nil, fmt.Errorf("number of weeks must be positive, got %d", n)
	}
	var added []models.Week
	_, err := s.mutate(func(sched *models.Schedule) error {
		var err error
		added, err = sched.ExtendHorizon(n)
		return err
	})
	return added, err
}

// Solve solves the stored schedule and records the run. The result is not
// saved; pass the outcome to Accept to keep it.
func (s *Service) Solve(ctx context.Context) (scheduler.Outcome, error) {
	sched, err := s.Schedule()
	if err != nil {
		return scheduler.Outcome{}, err
	}

	outcome, solveErr := s.Scheduler.Solve(ctx, sched)
	if err := s.Store.AddSolveRun(outcome.Run(solveErr)); err != nil {
		logger.Warn("Failed to record solve run", "run", outcome.RunID, "error", err)
	}
	return outcome, solveErr
}

// Accept snapshots the current store and saves the solved schedule over it.
func (s *Service) Accept(outcome scheduler.Outcome) error {
	if outcome.Schedule == nil {
		return errors.New("solve produced no schedule to save")
	}
	s.snapshot()
	return s.Store.SaveSchedule(outcome.Schedule)
}

// SolveAndSave is Solve followed by Accept.
func (s *Service) SolveAndSave(ctx context.Context) (scheduler.Outcome, error) {
	outcome, err := s.Solve(ctx)
	if err != nil {
		return outcome, err
	}
	return outcome, s.Accept(outcome)
}

// snapshot backs up file stores before they are overwritten. Failures are
// logged and do not block the save.
func (s *Service) snapshot() {
	path := s.Store.GetConfigPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	mgr := backup.NewManager(path)
	if backupPath, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	} else {
		logger.Debug("Created automatic backup", "path", backupPath)
	}
}

// Validate checks the stored roster and preferences against the policy's rules.
func (s *Service) Validate() (validation.ValidationResult, error) {
	sched, err := s.Schedule()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	v := validation.New(s.Policy.Scheduler.Rules())
	result := v.ValidateSchedule(sched)
	prefs := v.ValidatePreferences(sched)
	result.Conflicts = append(result.Conflicts, prefs.Conflicts...)
	return result, nil
}

// AssignmentsForDay returns the assignments of the week containing day.
func (s *Service) AssignmentsForDay(day time.Time) ([]models.Assignment, error) {
	sched, err := s.Schedule()
	if err != nil {
		return nil, err
	}
	return sched.AssignmentsForDay(day), nil
}

func (s *Service) Runs(limit int) ([]models.SolveRun, error) {
	return s.Store.GetSolveRuns(limit)
}
