package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/rota/internal/constants"
	"github.com/julianstephens/rota/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvariant     ConflictType = "invariant"
	ConflictCoverage      ConflictType = "coverage"
	ConflictLoadCap       ConflictType = "load_cap"
	ConflictIsolatedDuty  ConflictType = "isolated_duty"
	ConflictCooldown      ConflictType = "cooldown"
	ConflictRollingCap    ConflictType = "rolling_cap"
	ConflictForcedOff     ConflictType = "forced_off"
	ConflictForcedOn      ConflictType = "forced_on"
	ConflictShortRoster   ConflictType = "short_roster"
	ConflictOverRequested ConflictType = "over_requested"
)

// Conflict represents a rule a roster breaks
type Conflict struct {
	Type        ConflictType `json:"type"`
	Description string       `json:"description"`
	Developer   string       `json:"developer,omitempty"`
	Weeks       []string     `json:"weeks,omitempty"` // YYYY-MM-DD first days
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict `json:"conflicts"`
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Rules are the roster limits a schedule is checked against.
type Rules struct {
	Coverage      int
	MaxShifts     int
	RollingWindow int
	RollingCap    int
}

// DefaultRules returns the standard rotation limits.
func DefaultRules() Rules {
	return Rules{
		Coverage:      constants.DefaultCoverage,
		MaxShifts:     constants.DefaultMaxShifts,
		RollingWindow: constants.DefaultRollingWindow,
		RollingCap:    constants.DefaultRollingCap,
	}
}

// Validator checks solved rosters independently of the solver
type Validator struct {
	rules Rules
}

// New creates a new Validator
func New(rules Rules) *Validator {
	return &Validator{rules: rules}
}

// ValidateSchedule checks every on-support flag in s against the rules and
// the developers' forced preferences.
func (v *Validator) ValidateSchedule(s *models.Schedule) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if err := s.CheckInvariant(); err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvariant,
			Description: err.Error(),
		})
		return result
	}

	weeks := s.WeeksSortedByFirstDay()
	devs := s.DevelopersSortedByName()

	for _, w := range weeks {
		on := s.OnSupport(w)
		if len(on) != v.rules.Coverage {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictCoverage,
				Description: fmt.Sprintf("Week %s has %d developer(s) on support, expected %d", w.Label(), len(on), v.rules.Coverage),
				Weeks:       []string{string(w.Key())},
			})
		}
	}

	for _, d := range devs {
		duty := make([]bool, len(weeks))
		total := 0
		for i, w := range weeks {
			a, _ := s.AssignmentFor(d.Name, w)
			duty[i] = a.OnSupport
			if a.OnSupport {
				total++
			}
		}

		if total > v.rules.MaxShifts {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictLoadCap,
				Description: fmt.Sprintf("%s is on support %d weeks, limit is %d", d.Name, total, v.rules.MaxShifts),
				Developer:   d.Name,
			})
		}

		result.Conflicts = append(result.Conflicts, v.checkCooldown(d.Name, weeks, duty)...)
		result.Conflicts = append(result.Conflicts, v.checkRolling(d.Name, weeks, duty)...)
		result.Conflicts = append(result.Conflicts, checkForced(s, d)...)
	}

	return result
}

func (v *Validator) checkCooldown(name string, weeks []models.Week, duty []bool) []Conflict {
	var conflicts []Conflict
	for i := constants.CooldownWindow - 1; i < len(duty); i++ {
		first, mid, last := duty[i-2], duty[i-1], duty[i]
		window := []string{string(weeks[i-2].Key()), string(weeks[i-1].Key()), string(weeks[i].Key())}

		if mid && !first && !last {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictIsolatedDuty,
				Description: fmt.Sprintf("%s has an isolated duty week %s", name, weeks[i-1].Label()),
				Developer:   name,
				Weeks:       window,
			})
		}
		if first && last {
			conflicts = append(conflicts, Conflict{
				Type:        ConflictCooldown,
				Description: fmt.Sprintf("%s is on support in both %s and %s", name, weeks[i-2].Label(), weeks[i].Label()),
				Developer:   name,
				Weeks:       window,
			})
		}
	}
	return conflicts
}

func (v *Validator) checkRolling(name string, weeks []models.Week, duty []bool) []Conflict {
	var conflicts []Conflict
	for start := 0; start+v.rules.RollingWindow <= len(duty); start++ {
		count := 0
		for i := start; i < start+v.rules.RollingWindow; i++ {
			if duty[i] {
				count++
			}
		}
		if count > v.rules.RollingCap {
			end := start + v.rules.RollingWindow - 1
			conflicts = append(conflicts, Conflict{
				Type: ConflictRollingCap,
				Description: fmt.Sprintf("%s is on support %d times between %s and %s, limit is %d",
					name, count, weeks[start].Key(), weeks[end].LastDay().Format(constants.DateFormat), v.rules.RollingCap),
				Developer: name,
				Weeks:     []string{string(weeks[start].Key()), string(weeks[end].Key())},
			})
		}
	}
	return conflicts
}

func checkForced(s *models.Schedule, d models.Developer) []Conflict {
	var conflicts []Conflict
	for _, p := range d.Preferences {
		a, ok := s.AssignmentFor(d.Name, p.Week)
		if !ok {
			continue
		}
		switch {
		case p.Sentiment == models.VeryNegative && a.OnSupport:
			conflicts = append(conflicts, Conflict{
				Type:        ConflictForcedOff,
				Description: fmt.Sprintf("%s is on support in blocked week %s", d.Name, p.Week.Label()),
				Developer:   d.Name,
				Weeks:       []string{string(p.Week.Key())},
			})
		case p.Sentiment == models.VeryPositive && !a.OnSupport:
			conflicts = append(conflicts, Conflict{
				Type:        ConflictForcedOn,
				Description: fmt.Sprintf("%s is off support in requested week %s", d.Name, p.Week.Label()),
				Developer:   d.Name,
				Weeks:       []string{string(p.Week.Key())},
			})
		}
	}
	return conflicts
}

// ValidatePreferences reports forced preferences that no roster could honor
// before any solve is attempted: more requests in one week than the coverage
// allows, or more blocks than leave enough developers to cover it.
func (v *Validator) ValidatePreferences(s *models.Schedule) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	requested := make(map[models.WeekKey][]string)
	blocked := make(map[models.WeekKey]int)
	for _, fp := range s.ForcedPreferences() {
		if fp.Sentiment == models.VeryPositive {
			requested[fp.Week.Key()] = append(requested[fp.Week.Key()], fp.Developer)
		} else {
			blocked[fp.Week.Key()]++
		}
	}

	for _, w := range s.WeeksSortedByFirstDay() {
		names := requested[w.Key()]
		if len(names) > v.rules.Coverage {
			sort.Strings(names)
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOverRequested,
				Description: fmt.Sprintf("Week %s has %d forced requests (%s), only %d can be on support", w.Label(), len(names), strings.Join(names, ", "), v.rules.Coverage),
				Weeks:       []string{string(w.Key())},
			})
		}
		if available := s.NumDevelopers() - blocked[w.Key()]; available < v.rules.Coverage {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictShortRoster,
				Description: fmt.Sprintf("Week %s has only %d available developer(s), %d needed", w.Label(), available, v.rules.Coverage),
				Weeks:       []string{string(w.Key())},
			})
		}
	}

	return result
}
