package models

import (
	"sort"
	"time"
)

// Read-only views over a Schedule. Lookups that miss return empty results;
// returned values are copies and never alias the schedule's containers.

// NumWeeks returns the length of the horizon.
func (s *Schedule) NumWeeks() int {
	return len(s.weeks)
}

// NumDevelopers returns the roster size.
func (s *Schedule) NumDevelopers() int {
	return len(s.developers)
}

// NumAssignments returns the number of (developer, week) assignments.
func (s *Schedule) NumAssignments() int {
	return len(s.assignments)
}

// DevelopersSortedByName returns the roster in lexicographic order.
func (s *Schedule) DevelopersSortedByName() []Developer {
	devs := make([]Developer, 0, len(s.developers))
	for _, d := range s.developers {
		devs = append(devs, d.clone())
	}
	sort.Slice(devs, func(i, j int) bool {
		return devs[i].Name < devs[j].Name
	})
	return devs
}

// WeeksSortedByFirstDay returns the horizon in chronological order. The
// formulator indexes windows by position in this slice.
func (s *Schedule) WeeksSortedByFirstDay() []Week {
	weeks := make([]Week, 0, len(s.weeks))
	for _, w := range s.weeks {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].FirstDay.Before(weeks[j].FirstDay)
	})
	return weeks
}

// HasWeek reports whether week is part of the horizon.
func (s *Schedule) HasWeek(week Week) bool {
	_, ok := s.weeks[week.Key()]
	return ok
}

// WeekContaining returns the week whose span contains day.
func (s *Schedule) WeekContaining(day time.Time) (Week, bool) {
	for _, w := range s.weeks {
		if w.Contains(day) {
			return w, true
		}
	}
	return Week{}, false
}

// DeveloperByName looks up a developer.
func (s *Schedule) DeveloperByName(name string) (Developer, bool) {
	d, ok := s.developers[name]
	if !ok {
		return Developer{}, false
	}
	return d.clone(), true
}

// AssignmentFor returns the assignment for the (developer, week) pair.
func (s *Schedule) AssignmentFor(developer string, week Week) (Assignment, bool) {
	a, ok := s.assignments[AssignmentKey{Developer: developer, Week: week.Key()}]
	return a, ok
}

// AssignmentsForWeek returns one assignment per developer for week.
func (s *Schedule) AssignmentsForWeek(week Week) []Assignment {
	if !s.HasWeek(week) {
		return nil
	}
	out := make([]Assignment, 0, len(s.developers))
	for name := range s.developers {
		if a, ok := s.assignments[AssignmentKey{Developer: name, Week: week.Key()}]; ok {
			out = append(out, a)
		}
	}
	return out
}

// AssignmentsForWeekSortedByDeveloper is AssignmentsForWeek in developer-name order.
func (s *Schedule) AssignmentsForWeekSortedByDeveloper(week Week) []Assignment {
	out := s.AssignmentsForWeek(week)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Developer < out[j].Developer
	})
	return out
}

// AssignmentsForDay returns the assignments of the week containing day.
func (s *Schedule) AssignmentsForDay(day time.Time) []Assignment {
	week, ok := s.WeekContaining(day)
	if !ok {
		return nil
	}
	return s.AssignmentsForWeekSortedByDeveloper(week)
}

// AssignmentsForDeveloper returns a developer's assignments in chronological order.
func (s *Schedule) AssignmentsForDeveloper(name string) []Assignment {
	if _, ok := s.developers[name]; !ok {
		return nil
	}
	out := make([]Assignment, 0, len(s.weeks))
	for _, w := range s.WeeksSortedByFirstDay() {
		if a, ok := s.assignments[AssignmentKey{Developer: name, Week: w.Key()}]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Assignments returns every assignment ordered by week, then developer.
func (s *Schedule) Assignments() []Assignment {
	out := make([]Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week.Key() != out[j].Week.Key() {
			return out[i].Week.Key() < out[j].Week.Key()
		}
		return out[i].Developer < out[j].Developer
	})
	return out
}

// OnSupport returns the developers on support in week, sorted by name.
func (s *Schedule) OnSupport(week Week) []string {
	var names []string
	for _, a := range s.AssignmentsForWeekSortedByDeveloper(week) {
		if a.OnSupport {
			names = append(names, a.Developer)
		}
	}
	return names
}

// SupportCount returns how many weeks a developer is on support across the horizon.
func (s *Schedule) SupportCount(name string) int {
	count := 0
	for _, a := range s.AssignmentsForDeveloper(name) {
		if a.OnSupport {
			count++
		}
	}
	return count
}

// TotalOnSupport returns the number of on-support assignments.
func (s *Schedule) TotalOnSupport() int {
	count := 0
	for _, a := range s.assignments {
		if a.OnSupport {
			count++
		}
	}
	return count
}
