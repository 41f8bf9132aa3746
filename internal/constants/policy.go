package constants

import "time"

const (
	// Horizon seeding
	DefaultHorizonWeeks     = 24
	DefaultWeeksBeforeToday = 12

	// Constraint defaults
	DefaultCoverage      = 2 // developers on support per week, exactly
	DefaultMaxShifts     = 8 // per developer across the horizon
	DefaultRollingWindow = 5 // weeks
	DefaultRollingCap    = 2 // duty weeks within any rolling window
	CooldownWindow       = 3 // weeks

	// DefaultTimeBudget bounds a single solve
	DefaultTimeBudget = 30 * time.Second

	// DefaultLogLevel applies unless --debug is given
	DefaultLogLevel = "info"
)
