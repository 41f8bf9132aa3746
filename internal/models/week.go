package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/rota/internal/constants"
	"github.com/julianstephens/rota/internal/utils"
)

// WeekKey identifies a Week by its first day (YYYY-MM-DD). Equality and
// map lookups for weeks go through this key only.
type WeekKey string

// Week is a 7-day period identified by its first day.
type Week struct {
	FirstDay time.Time
}

// NewWeek returns the week whose first day is the calendar date of day.
// The weekday is kept as given; use WeekOf to align to the canonical start.
func NewWeek(day time.Time) Week {
	return Week{FirstDay: utils.Date(day)}
}

// WeekOf returns the canonical week containing day.
func WeekOf(day time.Time) Week {
	return Week{FirstDay: utils.StartOfWeek(day)}
}

// ParseWeek parses a date (or a week label) and returns the canonical week containing it.
func ParseWeek(s string) (Week, error) {
	day, err := utils.ParseDate(s)
	if err != nil {
		return Week{}, err
	}
	return WeekOf(day), nil
}

func (w Week) Key() WeekKey {
	return WeekKey(utils.FormatDate(w.FirstDay))
}

func (w Week) Equal(other Week) bool {
	return w.Key() == other.Key()
}

// IsCanonical reports whether the week starts on the configured first weekday.
func (w Week) IsCanonical() bool {
	return w.FirstDay.Weekday() == constants.WeekStart
}

// LastDay returns the seventh day of the week.
func (w Week) LastDay() time.Time {
	return utils.Date(w.FirstDay).AddDate(0, 0, constants.DaysPerWeek-1)
}

// Contains reports whether day falls within the week, bounds included.
func (w Week) Contains(day time.Time) bool {
	d := utils.Date(day)
	return !d.Before(utils.Date(w.FirstDay)) && !d.After(w.LastDay())
}

// Next returns the week starting seven days after w.
func (w Week) Next() Week {
	return Week{FirstDay: utils.Date(w.FirstDay).AddDate(0, 0, constants.DaysPerWeek)}
}

// Label is the human-readable span, e.g. "2025-01-06 to 2025-01-12".
func (w Week) Label() string {
	return fmt.Sprintf("%s to %s", utils.FormatDate(w.FirstDay), utils.FormatDate(w.LastDay()))
}

func (w Week) String() string {
	return string(w.Key())
}

type weekJSON struct {
	FirstDay string `json:"first_day"`
}

func (w Week) MarshalJSON() ([]byte, error) {
	return json.Marshal(weekJSON{FirstDay: string(w.Key())})
}

func (w *Week) UnmarshalJSON(data []byte) error {
	var raw weekJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := time.Parse(constants.DateFormat, raw.FirstDay)
	if err != nil {
		return fmt.Errorf("invalid week first_day %q: %w", raw.FirstDay, err)
	}
	*w = NewWeek(t)
	return nil
}
