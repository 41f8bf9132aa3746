package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/rota/internal/logger"
)

// Sentinel errors for scheduling outcomes and domain lookups.
// Match them with errors.Is; wrapped variants carry context.
var (
	// ErrUnknownDeveloper is returned when a developer name is not part of the schedule.
	ErrUnknownDeveloper = errors.New("unknown developer")

	// ErrUnknownWeek is returned when a week is outside the schedule's horizon.
	ErrUnknownWeek = errors.New("week outside schedule horizon")

	// ErrDuplicateDeveloper is returned when a developer name is already taken.
	ErrDuplicateDeveloper = errors.New("developer already exists")

	// ErrDuplicateWeek is returned when a week is already part of the horizon.
	ErrDuplicateWeek = errors.New("week already exists")

	// ErrInvariantViolation marks a broken week x developer product. Always a bug.
	ErrInvariantViolation = errors.New("schedule invariant violated")

	// ErrInfeasible is returned when no roster satisfies the posted constraints.
	ErrInfeasible = errors.New("no roster satisfies the current constraints")

	// ErrSolverTimeout is returned when the solver exhausts its budget without an answer.
	ErrSolverTimeout = errors.New("solver time budget exhausted without an answer")

	// ErrNotInitialized is returned by stores that hold no schedule yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'rota init' first")
)

// InvariantError describes which developer/week pair broke the schedule invariant.
type InvariantError struct {
	Op        string
	Developer string
	Week      string
	Reason    string
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, ErrInvariantViolation)
	if e.Developer != "" {
		msg += fmt.Sprintf(" (developer=%q", e.Developer)
		if e.Week != "" {
			msg += fmt.Sprintf(", week=%s", e.Week)
		}
		msg += ")"
	} else if e.Week != "" {
		msg += fmt.Sprintf(" (week=%s)", e.Week)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// Invariant builds an InvariantError for the given operation and pair.
func Invariant(op, developer, week, reason string) error {
	return &InvariantError{Op: op, Developer: developer, Week: week, Reason: reason}
}

// IsRetryable reports whether retrying with a larger budget could succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSolverTimeout)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
