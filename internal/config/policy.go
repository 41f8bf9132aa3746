// Package config loads the rotation policy: who is on the roster, how far the
// horizon reaches and which limits the solver enforces.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/rota/internal/constants"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/scheduler"
)

// Policy is a validated rotation policy.
type Policy struct {
	Roster           []string
	HorizonWeeks     int
	WeeksBeforeToday int
	Scheduler        scheduler.Config
	// LogLevel is handed to the logger; --debug overrides it.
	LogLevel         string
}

// Default returns the built-in policy.
func Default() Policy {
	return Policy{
		Roster:           append([]string(nil), constants.DefaultRoster...),
		HorizonWeeks:     constants.DefaultHorizonWeeks,
		WeeksBeforeToday: constants.DefaultWeeksBeforeToday,
		Scheduler:        scheduler.DefaultConfig(),
		LogLevel:         constants.DefaultLogLevel,
	}
}

// Validate rejects empty or duplicate roster names, a bad horizon or log
// level, and an unbounded solve. The constraint limits are checked by the
// scheduler's own Config.Validate.
func (p Policy) Validate() error {
	if len(p.Roster) == 0 {
		return fmt.Errorf("roster must not be empty")
	}
	seen := make(map[string]bool, len(p.Roster))
	for _, name := range p.Roster {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("roster contains an empty name")
		}
		if seen[trimmed] {
			return fmt.Errorf("roster contains %q more than once", trimmed)
		}
		seen[trimmed] = true
	}

	if p.HorizonWeeks < 1 {
		return fmt.Errorf("horizon_weeks must be positive, got %d", p.HorizonWeeks)
	}
	if p.WeeksBeforeToday < 0 {
		return fmt.Errorf("weeks_before_today must not be negative, got %d", p.WeeksBeforeToday)
	}
	if _, err := logger.ParseLevel(p.LogLevel); err != nil {
		return err
	}
	if p.Scheduler.TimeBudget <= 0 {
		return fmt.Errorf("time_budget must be positive, got %s", p.Scheduler.TimeBudget)
	}
	return p.Scheduler.Validate()
}

// FirstDay returns the day the seeded horizon starts from, counted back from today.
func (p Policy) FirstDay(today time.Time) time.Time {
	return today.AddDate(0, 0, -constants.DaysPerWeek*p.WeeksBeforeToday)
}

// Seed builds a fresh schedule for the policy's roster and horizon.
func (p Policy) Seed(today time.Time) (*models.Schedule, error) {
	return models.Seed(p.Roster, p.FirstDay(today), p.HorizonWeeks)
}
