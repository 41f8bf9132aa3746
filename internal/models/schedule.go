package models

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/rota/internal/errors"
)

// Schedule is the aggregate root owning weeks, developers and assignments.
// The assignment set is always the full product of weeks and developers:
// every mutation below inserts or rewrites whole rows/columns, never single cells.
type Schedule struct {
	weeks       map[WeekKey]Week
	developers  map[string]*Developer
	assignments map[AssignmentKey]Assignment
}

// NewSchedule returns an empty schedule with its own containers.
func NewSchedule() *Schedule {
	return &Schedule{
		weeks:       make(map[WeekKey]Week),
		developers:  make(map[string]*Developer),
		assignments: make(map[AssignmentKey]Assignment),
	}
}

// Seed builds a schedule for roster over horizon consecutive weeks, the first
// being the canonical week containing firstDay. All assignments start off support.
func Seed(roster []string, firstDay time.Time, horizon int) (*Schedule, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon must not be negative, got %d", horizon)
	}

	s := NewSchedule()
	for _, name := range roster {
		if err := s.AddDeveloper(name); err != nil {
			return nil, err
		}
	}

	week := WeekOf(firstDay)
	for i := 0; i < horizon; i++ {
		if err := s.AddWeek(week); err != nil {
			return nil, err
		}
		week = week.Next()
	}

	return s, nil
}

// Restore rebuilds a schedule from stored parts and verifies the product invariant.
// Stores use it so that a corrupted snapshot fails on load rather than at solve time.
func Restore(weeks []Week, developers []Developer, assignments []Assignment) (*Schedule, error) {
	s := NewSchedule()

	for _, w := range weeks {
		w = NewWeek(w.FirstDay)
		if !w.IsCanonical() {
			return nil, apperrors.Invariant("restore", "", string(w.Key()), "week does not start on the canonical weekday")
		}
		if _, ok := s.weeks[w.Key()]; ok {
			return nil, apperrors.Invariant("restore", "", string(w.Key()), "duplicate week")
		}
		s.weeks[w.Key()] = w
	}

	for _, d := range developers {
		if strings.TrimSpace(d.Name) == "" {
			return nil, apperrors.Invariant("restore", "", "", "developer with empty name")
		}
		if _, ok := s.developers[d.Key()]; ok {
			return nil, apperrors.Invariant("restore", d.Name, "", "duplicate developer")
		}
		dev := Developer{Name: d.Name}
		for _, p := range d.Preferences {
			if _, ok := s.weeks[p.Week.Key()]; !ok {
				return nil, apperrors.Invariant("restore", d.Name, string(p.Week.Key()), "preference for week outside horizon")
			}
			if !p.Sentiment.Valid() {
				return nil, apperrors.Invariant("restore", d.Name, string(p.Week.Key()), fmt.Sprintf("invalid sentiment %d", p.Sentiment))
			}
			if dev.setPreference(p) {
				return nil, apperrors.Invariant("restore", d.Name, string(p.Week.Key()), "duplicate preference for week")
			}
		}
		s.developers[dev.Key()] = &dev
	}

	for _, a := range assignments {
		key := a.Key()
		if _, ok := s.developers[key.Developer]; !ok {
			return nil, apperrors.Invariant("restore", key.Developer, string(key.Week), "assignment for unknown developer")
		}
		if _, ok := s.weeks[key.Week]; !ok {
			return nil, apperrors.Invariant("restore", key.Developer, string(key.Week), "assignment for unknown week")
		}
		if _, ok := s.assignments[key]; ok {
			return nil, apperrors.Invariant("restore", key.Developer, string(key.Week), "duplicate assignment")
		}
		s.assignments[key] = Assignment{Developer: key.Developer, Week: s.weeks[key.Week], OnSupport: a.OnSupport}
	}

	if err := s.CheckInvariant(); err != nil {
		return nil, err
	}
	return s, nil
}

// AddDeveloper adds a developer with an off-support assignment for every week.
func (s *Schedule) AddDeveloper(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("developer name cannot be empty")
	}
	if _, ok := s.developers[name]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateDeveloper, name)
	}

	s.developers[name] = &Developer{Name: name}
	for _, w := range s.weeks {
		a := Assignment{Developer: name, Week: w}
		s.assignments[a.Key()] = a
	}
	return nil
}

// AddWeek adds a canonical week with an off-support assignment for every developer.
func (s *Schedule) AddWeek(week Week) error {
	week = NewWeek(week.FirstDay)
	if !week.IsCanonical() {
		return fmt.Errorf("week %s does not start on the canonical weekday", week.Key())
	}
	if _, ok := s.weeks[week.Key()]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateWeek, week.Key())
	}

	s.weeks[week.Key()] = week
	for name := range s.developers {
		a := Assignment{Developer: name, Week: week}
		s.assignments[a.Key()] = a
	}
	return nil
}

// ExtendHorizon appends n weeks after the last week of the horizon and returns them.
func (s *Schedule) ExtendHorizon(n int) ([]Week, error) {
	weeks := s.WeeksSortedByFirstDay()
	if len(weeks) == 0 {
		return nil, fmt.Errorf("cannot extend an empty horizon")
	}

	added := make([]Week, 0, n)
	next := weeks[len(weeks)-1].Next()
	for i := 0; i < n; i++ {
		if err := s.AddWeek(next); err != nil {
			return added, err
		}
		added = append(added, next)
		next = next.Next()
	}
	return added, nil
}

// CheckInvariant verifies that assignments are exactly weeks x developers.
func (s *Schedule) CheckInvariant() error {
	for key := range s.assignments {
		if _, ok := s.developers[key.Developer]; !ok {
			return apperrors.Invariant("check", key.Developer, string(key.Week), "assignment for unknown developer")
		}
		if _, ok := s.weeks[key.Week]; !ok {
			return apperrors.Invariant("check", key.Developer, string(key.Week), "assignment for unknown week")
		}
	}
	for name := range s.developers {
		for wk := range s.weeks {
			if _, ok := s.assignments[AssignmentKey{Developer: name, Week: wk}]; !ok {
				return apperrors.Invariant("check", name, string(wk), "missing assignment")
			}
		}
	}
	if want := len(s.weeks) * len(s.developers); len(s.assignments) != want {
		return apperrors.Invariant("check", "", "", fmt.Sprintf("have %d assignments, want %d", len(s.assignments), want))
	}
	return nil
}

// Materialize returns a copy of s whose on-support flags come from onSupport.
// The receiver is left untouched so callers keep it as a rollback point.
func (s *Schedule) Materialize(onSupport func(key AssignmentKey) (bool, error)) (*Schedule, error) {
	if err := s.CheckInvariant(); err != nil {
		return nil, err
	}

	out := s.Clone()
	for key, a := range out.assignments {
		on, err := onSupport(key)
		if err != nil {
			return nil, err
		}
		a.OnSupport = on
		out.assignments[key] = a
	}
	return out, nil
}

// Clone returns a deep copy sharing no containers with s.
func (s *Schedule) Clone() *Schedule {
	out := NewSchedule()
	for k, w := range s.weeks {
		out.weeks[k] = w
	}
	for k, d := range s.developers {
		dev := d.clone()
		out.developers[k] = &dev
	}
	for k, a := range s.assignments {
		out.assignments[k] = a
	}
	return out
}
