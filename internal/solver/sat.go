package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// pollInterval is how often a running search is checked for cancellation.
const pollInterval = 5 * time.Millisecond

// pbConstr is sum(weights[i] * lits[i]) >= atLeast with positive weights.
// A literal is a variable number, negated for its complement.
type pbConstr struct {
	lits    []int
	weights []int
	atLeast int
}

// satModel encodes every linear constraint as a cardinality sorting network
// and hands the resulting CNF to gini.
type satModel struct {
	names   []string
	constrs []pbConstr
	// trivially unsatisfiable constraint seen while posting
	unsat  bool
	solved []bool
}

// NewSATModel returns a Model backed by the gini SAT solver.
func NewSATModel() Model {
	return &satModel{}
}

func (m *satModel) NewBoolVar(name string) Var {
	m.names = append(m.names, name)
	return Var(len(m.names))
}

func (m *satModel) NumVars() int {
	return len(m.names)
}

func (m *satModel) NumConstraints() int {
	return len(m.constrs)
}

func (m *satModel) AddLinear(terms []Term, cmp Comparator, rhs int) error {
	for _, t := range terms {
		if t.Var < 1 || int(t.Var) > len(m.names) {
			return fmt.Errorf("term references undeclared variable %d", t.Var)
		}
	}

	switch cmp {
	case Ge:
		m.addAtLeast(terms, rhs)
	case Le:
		m.addAtLeast(negate(terms), -rhs)
	case Eq:
		m.addAtLeast(terms, rhs)
		m.addAtLeast(negate(terms), -rhs)
	default:
		return fmt.Errorf("unsupported comparator %s", cmp)
	}
	return nil
}

// addAtLeast posts sum(terms) >= k. A negative coefficient c on x is rewritten
// as |c| on the negated literal, moving c to the right-hand side.
func (m *satModel) addAtLeast(terms []Term, k int) {
	merged := make(map[Var]int, len(terms))
	order := make([]Var, 0, len(terms))
	for _, t := range terms {
		if _, seen := merged[t.Var]; !seen {
			order = append(order, t.Var)
		}
		merged[t.Var] += t.Coef
	}

	var lits, weights []int
	total := 0
	for _, v := range order {
		c := merged[v]
		switch {
		case c > 0:
			lits = append(lits, int(v))
			weights = append(weights, c)
			total += c
		case c < 0:
			lits = append(lits, -int(v))
			weights = append(weights, -c)
			total += -c
			k -= c
		}
	}

	if k <= 0 {
		return
	}
	if k > total {
		m.unsat = true
		return
	}
	m.constrs = append(m.constrs, pbConstr{lits: lits, weights: weights, atLeast: k})
}

func negate(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Var: t.Var, Coef: -t.Coef}
	}
	return out
}

// encode builds the circuit for all constraints and loads it into a fresh
// solver. It returns the literal standing for each declared variable.
func (m *satModel) encode() (*gini.Gini, []z.Lit) {
	c := logic.NewC()
	inputs := make([]z.Lit, len(m.names))
	for i := range inputs {
		inputs[i] = c.Lit()
	}

	roots := make([]z.Lit, 0, len(m.constrs))
	for _, pb := range m.constrs {
		// a weight w enters the sorting network as w copies of its literal
		var ms []z.Lit
		for i, l := range pb.lits {
			lit := inputs[abs(l)-1]
			if l < 0 {
				lit = lit.Not()
			}
			for j := 0; j < pb.weights[i]; j++ {
				ms = append(ms, lit)
			}
		}
		roots = append(roots, c.CardSort(ms).Geq(pb.atLeast))
	}

	g := gini.New()
	c.ToCnf(g)
	g.Add(c.T)
	g.Add(z.LitNull)
	for _, r := range roots {
		g.Add(r)
		g.Add(z.LitNull)
	}
	return g, inputs
}

func (m *satModel) Solve(ctx context.Context, budget time.Duration) (Status, error) {
	m.solved = nil
	if m.unsat {
		return Infeasible, nil
	}
	if len(m.constrs) == 0 {
		m.solved = make([]bool, len(m.names))
		return Optimal, nil
	}
	if err := ctx.Err(); err != nil {
		return Unknown, err
	}

	g, inputs := m.encode()
	search := g.GoSolve()

	var timeout <-chan time.Time
	if budget > 0 {
		timer := time.NewTimer(budget)
		defer timer.Stop()
		timeout = timer.C
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// Every exit path either sees the search finish or stops it, so no search
	// outlives the call.
	for {
		if res, done := search.Test(); done {
			return m.result(g, inputs, res), nil
		}
		select {
		case <-ticker.C:
		case <-timeout:
			if res := search.Stop(); res != 0 {
				return m.result(g, inputs, res), nil
			}
			return Unknown, nil
		case <-ctx.Done():
			search.Stop()
			return Unknown, ctx.Err()
		}
	}
}

// result maps a gini answer (1 sat, -1 unsat, 0 undetermined) to a Status.
func (m *satModel) result(g *gini.Gini, inputs []z.Lit, res int) Status {
	switch res {
	case 1:
		m.solved = make([]bool, len(inputs))
		for i, lit := range inputs {
			m.solved[i] = g.Value(lit)
		}
		// No objective is posted, so any model is optimal.
		return Optimal
	case -1:
		return Infeasible
	default:
		return Unknown
	}
}

func (m *satModel) Value(v Var) bool {
	i := int(v) - 1
	if i < 0 || i >= len(m.solved) {
		return false
	}
	return m.solved[i]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
