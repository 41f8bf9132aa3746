package scheduler

import (
	"fmt"

	"github.com/julianstephens/rota/internal/constants"
	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/solver"
)

// formulation is a posted model plus the variable index for its assignments.
type formulation struct {
	model solver.Model
	vars  map[models.AssignmentKey]solver.Var
	weeks []models.Week
	devs  []models.Developer
}

// formulate declares one variable per assignment and posts the rules in order:
// coverage, load cap, cooldown, rolling cap, forced preferences.
func formulate(model solver.Model, sched *models.Schedule, cfg Config) (*formulation, error) {
	f := &formulation{
		model: model,
		vars:  make(map[models.AssignmentKey]solver.Var, sched.NumAssignments()),
		weeks: sched.WeeksSortedByFirstDay(),
		devs:  sched.DevelopersSortedByName(),
	}

	for _, a := range sched.Assignments() {
		f.vars[a.Key()] = model.NewBoolVar(fmt.Sprintf("%s@%s", a.Developer, a.Week.Key()))
	}

	steps := []func(Config) error{
		f.postCoverage,
		f.postLoadCap,
		f.postCooldown,
		f.postRollingCap,
		func(Config) error { return f.postForced(sched.ForcedPreferences()) },
	}
	for _, post := range steps {
		if err := post(cfg); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// lookup returns the variable of a (developer, week) pair. A miss means the
// schedule's assignments and its weeks/developers disagree.
func (f *formulation) lookup(op, developer string, week models.WeekKey) (solver.Var, error) {
	v, ok := f.vars[models.AssignmentKey{Developer: developer, Week: week}]
	if !ok {
		return 0, apperrors.Invariant(op, developer, string(week), "no assignment variable for pair")
	}
	return v, nil
}

// column returns a developer's variables in chronological order.
func (f *formulation) column(op, developer string) ([]solver.Var, error) {
	out := make([]solver.Var, len(f.weeks))
	for i, w := range f.weeks {
		v, err := f.lookup(op, developer, w.Key())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *formulation) post(op string, terms []solver.Term, cmp solver.Comparator, rhs int) error {
	if err := f.model.AddLinear(terms, cmp, rhs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// postCoverage: exactly cfg.Coverage developers per week.
func (f *formulation) postCoverage(cfg Config) error {
	for _, w := range f.weeks {
		row := make([]solver.Var, 0, len(f.devs))
		for _, d := range f.devs {
			v, err := f.lookup("coverage", d.Name, w.Key())
			if err != nil {
				return err
			}
			row = append(row, v)
		}
		if err := f.post("coverage", solver.Sum(row...), solver.Eq, cfg.Coverage); err != nil {
			return err
		}
	}
	return nil
}

// postLoadCap: at most cfg.MaxShifts weeks per developer over the horizon.
func (f *formulation) postLoadCap(cfg Config) error {
	for _, d := range f.devs {
		col, err := f.column("load_cap", d.Name)
		if err != nil {
			return err
		}
		if err := f.post("load_cap", solver.Sum(col...), solver.Le, cfg.MaxShifts); err != nil {
			return err
		}
	}
	return nil
}

// postCooldown: in every three-week window the middle week needs a flank on
// duty, and the two flanks are never both on duty.
func (f *formulation) postCooldown(Config) error {
	for _, d := range f.devs {
		col, err := f.column("cooldown", d.Name)
		if err != nil {
			return err
		}
		for i := constants.CooldownWindow - 1; i < len(col); i++ {
			first, mid, last := col[i-2], col[i-1], col[i]
			supported := []solver.Term{{Var: mid, Coef: 1}, {Var: first, Coef: -1}, {Var: last, Coef: -1}}
			if err := f.post("cooldown", supported, solver.Le, 0); err != nil {
				return err
			}
			if err := f.post("cooldown", solver.Sum(first, last), solver.Le, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

// postRollingCap: at most cfg.RollingCap duty weeks in any cfg.RollingWindow
// consecutive weeks.
func (f *formulation) postRollingCap(cfg Config) error {
	for _, d := range f.devs {
		col, err := f.column("rolling_cap", d.Name)
		if err != nil {
			return err
		}
		for start := 0; start+cfg.RollingWindow <= len(col); start++ {
			window := col[start : start+cfg.RollingWindow]
			if err := f.post("rolling_cap", solver.Sum(window...), solver.Le, cfg.RollingCap); err != nil {
				return err
			}
		}
	}
	return nil
}

// postForced pins VERY_NEGATIVE weeks to off and VERY_POSITIVE weeks to on.
func (f *formulation) postForced(forced []models.ForcedPreference) error {
	for _, fp := range forced {
		v, err := f.lookup("preference", fp.Developer, fp.Week.Key())
		if err != nil {
			return err
		}
		value := 0
		if fp.Sentiment == models.VeryPositive {
			value = 1
		}
		if err := f.post("preference", solver.Sum(v), solver.Eq, value); err != nil {
			return err
		}
	}
	return nil
}
