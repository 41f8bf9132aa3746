// Package solver declares the boolean constraint model the scheduler posts
// its rules to, and provides a SAT backend for it.
package solver

import (
	"context"
	"fmt"
	"time"
)

// Status is the outcome of a solve.
type Status int

const (
	// Unknown means the search ended without an answer, usually because the budget ran out.
	Unknown Status = iota
	// Optimal means a solution was found and no better one exists.
	Optimal
	// Feasible means a solution was found but optimality was not proven.
	Feasible
	// Infeasible means no assignment satisfies the posted constraints.
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// HasSolution reports whether variable values can be read after a solve.
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Var is a boolean decision variable. Vars are numbered from 1 in declaration order.
type Var int

// Term is one coefficient-weighted variable of a linear expression.
type Term struct {
	Var  Var
	Coef int
}

// Comparator relates a linear expression to its right-hand side.
type Comparator int

const (
	Eq Comparator = iota
	Le
	Ge
)

func (c Comparator) String() string {
	switch c {
	case Eq:
		return "=="
	case Le:
		return "<="
	case Ge:
		return ">="
	default:
		return fmt.Sprintf("Comparator(%d)", int(c))
	}
}

// Model accumulates boolean variables and linear constraints over them.
// A Model is used by one goroutine at a time and solved at most once.
type Model interface {
	// NewBoolVar declares a variable. The name is only used in diagnostics.
	NewBoolVar(name string) Var
	// AddLinear posts sum(terms) cmp rhs.
	AddLinear(terms []Term, cmp Comparator, rhs int) error
	// Solve searches for an assignment, giving up after budget or when ctx is done.
	Solve(ctx context.Context, budget time.Duration) (Status, error)
	// Value returns the assigned value of v. Only meaningful when the last
	// Solve returned a status with a solution.
	Value(v Var) bool
	NumVars() int
	NumConstraints() int
}

// Backend constructs empty models.
type Backend func() Model

// Sum returns the unit-coefficient terms of vars.
func Sum(vars ...Var) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return terms
}
