package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/rota/internal/constants"
)

// Date truncates t to its calendar date at midnight UTC, so that two values for
// the same day compare equal regardless of clock or location.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the date of the canonical first weekday on or before day.
func StartOfWeek(day time.Time) time.Time {
	d := Date(day)
	offset := (int(d.Weekday()) - int(constants.WeekStart) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// Today returns the current calendar date in the local timezone.
func Today() time.Time {
	return Date(time.Now())
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
// The keyword "today" resolves to the current date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "today") {
		return Today(), nil
	}
	// Week labels ("2025-01-06 to 2025-01-12") are accepted by their first token.
	if fields := strings.Fields(s); len(fields) > 1 {
		s = fields[0]
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or 'today': %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date in the standard format (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}
