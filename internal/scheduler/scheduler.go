// Package scheduler turns a Schedule into a boolean constraint model, solves
// it within a time budget and materializes the roster.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/metrics"
	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/solver"
	"github.com/julianstephens/rota/internal/validation"
)

// Scheduler posts the rotation rules for a schedule and solves them.
// A Scheduler holds no per-solve state and can be reused.
type Scheduler struct {
	cfg     Config
	backend solver.Backend
	metrics metrics.Collector
}

// New creates a Scheduler with the default configuration and the SAT backend.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		cfg:     DefaultConfig(),
		backend: solver.NewSATModel,
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration the scheduler solves with.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Outcome describes one solve. Schedule is set only when Status has a solution.
type Outcome struct {
	RunID       string
	StartedAt   time.Time
	Status      solver.Status
	Schedule    *models.Schedule
	Duration    time.Duration
	Developers  int
	Weeks       int
	Variables   int
	Constraints int
}

// Run converts the outcome into a history record. err is the error Solve
// returned alongside the outcome, if any.
func (o Outcome) Run(err error) models.SolveRun {
	run := models.SolveRun{
		ID:         o.RunID,
		StartedAt:  o.StartedAt,
		DurationMs: o.Duration.Milliseconds(),
		Status:     o.Status.String(),
		Developers: o.Developers,
		Weeks:      o.Weeks,
	}
	if err != nil {
		run.Message = err.Error()
	}
	if o.Schedule != nil {
		if fp, fpErr := o.Schedule.Fingerprint(); fpErr == nil {
			run.Fingerprint = fp
		}
	}
	return run
}

// Solve builds the constraint model for sched and solves it within the
// configured time budget. sched is never modified; on success the outcome
// carries a new schedule with every assignment decided.
//
// Errors: ErrInfeasible when no roster satisfies the rules, ErrSolverTimeout
// when the budget runs out, ErrInvariantViolation when sched (or the solver's
// answer) breaks the week x developer product.
func (s *Scheduler) Solve(ctx context.Context, sched *models.Schedule) (Outcome, error) {
	outcome := Outcome{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		Status:     solver.Unknown,
		Developers: sched.NumDevelopers(),
		Weeks:      sched.NumWeeks(),
	}

	if err := s.cfg.Validate(); err != nil {
		return outcome, err
	}
	if err := sched.CheckInvariant(); err != nil {
		logger.Error("Refusing to solve a broken schedule", "error", err)
		return outcome, err
	}

	if sched.NumWeeks() == 0 {
		outcome.Status = solver.Optimal
		outcome.Schedule = sched.Clone()
		s.finish(&outcome)
		return outcome, nil
	}

	// Step 1: Formulate
	f, err := formulate(s.backend(), sched, s.cfg)
	if err != nil {
		logger.Error("Failed to formulate model", "run", outcome.RunID, "error", err)
		return outcome, err
	}
	outcome.Variables = f.model.NumVars()
	outcome.Constraints = f.model.NumConstraints()
	s.metrics.SetModelSize(outcome.Variables, outcome.Constraints)
	logger.Debug("Formulated model",
		"run", outcome.RunID,
		"developers", outcome.Developers,
		"weeks", outcome.Weeks,
		"variables", outcome.Variables,
		"constraints", outcome.Constraints)

	// Step 2: Solve
	status, solveErr := f.model.Solve(ctx, s.cfg.TimeBudget)
	outcome.Status = status

	switch {
	case status.HasSolution():
		// Step 3: Materialize and verify
		solved, err := sched.Materialize(func(key models.AssignmentKey) (bool, error) {
			v, err := f.lookup("materialize", key.Developer, key.Week)
			if err != nil {
				return false, err
			}
			return f.model.Value(v), nil
		})
		if err != nil {
			outcome.Status = solver.Unknown
			s.finish(&outcome)
			return outcome, err
		}
		if err := s.verify(solved); err != nil {
			outcome.Status = solver.Unknown
			s.finish(&outcome)
			logger.Error("Solver returned a roster that breaks the rules", "run", outcome.RunID, "error", err)
			return outcome, err
		}
		outcome.Schedule = solved
		s.finish(&outcome)
		logger.Info("Solved schedule", "run", outcome.RunID, "status", status, "duration", outcome.Duration)
		return outcome, nil

	case status == solver.Infeasible:
		s.finish(&outcome)
		logger.Warn("No roster satisfies the constraints", "run", outcome.RunID, "duration", outcome.Duration)
		return outcome, fmt.Errorf("%w (%d developers, %d weeks)", apperrors.ErrInfeasible, outcome.Developers, outcome.Weeks)

	default:
		s.finish(&outcome)
		logger.Warn("Solver gave no answer within budget", "run", outcome.RunID, "budget", s.cfg.TimeBudget, "error", solveErr)
		if solveErr != nil {
			return outcome, fmt.Errorf("%w: %w", apperrors.ErrSolverTimeout, solveErr)
		}
		return outcome, fmt.Errorf("%w after %s", apperrors.ErrSolverTimeout, s.cfg.TimeBudget)
	}
}

func (s *Scheduler) finish(o *Outcome) {
	o.Duration = time.Since(o.StartedAt)
	s.metrics.RecordSolve(o.Status.String(), o.Duration.Seconds())
}

// verify re-checks a materialized roster with the independent validator.
func (s *Scheduler) verify(solved *models.Schedule) error {
	result := validation.New(s.cfg.Rules()).ValidateSchedule(solved)
	if !result.HasConflicts() {
		return nil
	}
	first := result.Conflicts[0]
	week := ""
	if len(first.Weeks) > 0 {
		week = first.Weeks[0]
	}
	return apperrors.Invariant("verify", first.Developer, week,
		fmt.Sprintf("%s (%d conflict(s))", first.Description, len(result.Conflicts)))
}

// IsInfeasible reports whether err means no roster exists under the current rules.
func IsInfeasible(err error) bool {
	return errors.Is(err, apperrors.ErrInfeasible)
}
