package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/rota/internal/constants"
	"github.com/julianstephens/rota/internal/metrics"
	"github.com/julianstephens/rota/internal/solver"
	"github.com/julianstephens/rota/internal/validation"
)

// Config holds the rotation limits the formulator posts.
type Config struct {
	// Coverage is the exact number of developers on support each week.
	Coverage int
	// MaxShifts caps each developer's on-support weeks over the horizon.
	MaxShifts int
	// RollingWindow and RollingCap bound duty within any run of consecutive weeks.
	RollingWindow int
	RollingCap    int
	// TimeBudget bounds the search. Zero means no limit.
	TimeBudget time.Duration
}

// DefaultConfig returns the standard rotation limits.
func DefaultConfig() Config {
	return Config{
		Coverage:      constants.DefaultCoverage,
		MaxShifts:     constants.DefaultMaxShifts,
		RollingWindow: constants.DefaultRollingWindow,
		RollingCap:    constants.DefaultRollingCap,
		TimeBudget:    constants.DefaultTimeBudget,
	}
}

// Validate rejects limits that cannot describe a rotation.
func (c Config) Validate() error {
	if c.Coverage < 1 {
		return fmt.Errorf("coverage must be at least 1, got %d", c.Coverage)
	}
	if c.MaxShifts < 1 {
		return fmt.Errorf("max shifts must be at least 1, got %d", c.MaxShifts)
	}
	if c.RollingWindow < 1 {
		return fmt.Errorf("rolling window must be at least 1, got %d", c.RollingWindow)
	}
	if c.RollingCap < 1 {
		return fmt.Errorf("rolling cap must be at least 1, got %d", c.RollingCap)
	}
	if c.TimeBudget < 0 {
		return fmt.Errorf("time budget must not be negative, got %s", c.TimeBudget)
	}
	return nil
}

// Rules returns the limits in the form the validator checks.
func (c Config) Rules() validation.Rules {
	return validation.Rules{
		Coverage:      c.Coverage,
		MaxShifts:     c.MaxShifts,
		RollingWindow: c.RollingWindow,
		RollingCap:    c.RollingCap,
	}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConfig replaces the rotation limits.
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) {
		s.cfg = cfg
	}
}

// WithTimeBudget overrides only the search budget.
func WithTimeBudget(budget time.Duration) Option {
	return func(s *Scheduler) {
		s.cfg.TimeBudget = budget
	}
}

// WithBackend sets the solving backend. Each solve builds a fresh model.
func WithBackend(backend solver.Backend) Option {
	return func(s *Scheduler) {
		if backend != nil {
			s.backend = backend
		}
	}
}

// WithMetrics sets a metrics collector.
func WithMetrics(m metrics.Collector) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}
