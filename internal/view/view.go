// Package view shapes a Schedule for display: one column per developer and
// one row per week.
package view

import (
	"github.com/julianstephens/rota/internal/models"
)

const (
	On  = "On"
	Off = "Off"
)

// Row is one week of the roster.
type Row struct {
	Week        models.WeekKey    `json:"week"`
	DateRange   string            `json:"date_range"`
	Assignments map[string]string `json:"assignments"` // developer name -> On/Off
	OnSupport   []string          `json:"on_support"`
}

// Roster is the presentation model of a schedule.
type Roster struct {
	Developers []string       `json:"devs"`
	Schedule   []Row          `json:"schedule"`
	Totals     map[string]int `json:"totals"` // on-support weeks per developer
}

// FromSchedule builds the roster with developers sorted by name and weeks in
// chronological order.
func FromSchedule(s *models.Schedule) Roster {
	r := Roster{
		Developers: make([]string, 0, s.NumDevelopers()),
		Schedule:   make([]Row, 0, s.NumWeeks()),
		Totals:     make(map[string]int, s.NumDevelopers()),
	}
	for _, d := range s.DevelopersSortedByName() {
		r.Developers = append(r.Developers, d.Name)
		r.Totals[d.Name] = 0
	}

	for _, w := range s.WeeksSortedByFirstDay() {
		r.Schedule = append(r.Schedule, rowFor(w, s.AssignmentsForWeekSortedByDeveloper(w)))
		for _, name := range s.OnSupport(w) {
			r.Totals[name]++
		}
	}
	return r
}

// WeekView is the roster row of a single week.
func WeekView(s *models.Schedule, week models.Week) Row {
	return rowFor(week, s.AssignmentsForWeekSortedByDeveloper(week))
}

func rowFor(w models.Week, assignments []models.Assignment) Row {
	row := Row{
		Week:        w.Key(),
		DateRange:   w.Label(),
		Assignments: make(map[string]string, len(assignments)),
		OnSupport:   []string{},
	}
	for _, a := range assignments {
		if a.OnSupport {
			row.Assignments[a.Developer] = On
			row.OnSupport = append(row.OnSupport, a.Developer)
		} else {
			row.Assignments[a.Developer] = Off
		}
	}
	return row
}

// Cells returns the row's On/Off values in the given developer order.
func (r Row) Cells(developers []string) []string {
	cells := make([]string, len(developers))
	for i, name := range developers {
		cells[i] = r.Assignments[name]
	}
	return cells
}
