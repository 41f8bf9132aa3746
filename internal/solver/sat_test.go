package solver

import (
	"context"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, m Model) Status {
	t.Helper()
	status, err := m.Solve(context.Background(), 5*time.Second)
	require.NoError(t, err)
	return status
}

func TestSATModel_ExactlyK(t *testing.T) {
	m := NewSATModel()
	vars := []Var{m.NewBoolVar("a"), m.NewBoolVar("b"), m.NewBoolVar("c"), m.NewBoolVar("d")}
	require.NoError(t, m.AddLinear(Sum(vars...), Eq, 2))

	require.Equal(t, Optimal, solve(t, m))

	count := 0
	for _, v := range vars {
		if m.Value(v) {
			count++
		}
	}
	require.Equal(t, 2, count)
}

func TestSATModel_NegativeCoefficients(t *testing.T) {
	// mid <= left + right, i.e. left + right - mid >= 0
	m := NewSATModel()
	left, mid, right := m.NewBoolVar("left"), m.NewBoolVar("mid"), m.NewBoolVar("right")
	require.NoError(t, m.AddLinear([]Term{{mid, 1}, {left, -1}, {right, -1}}, Le, 0))
	require.NoError(t, m.AddLinear([]Term{{mid, 1}}, Eq, 1))
	require.NoError(t, m.AddLinear([]Term{{left, 1}}, Eq, 0))

	require.Equal(t, Optimal, solve(t, m))
	require.True(t, m.Value(mid))
	require.False(t, m.Value(left))
	require.True(t, m.Value(right))
}

func TestSATModel_MergesRepeatedVariables(t *testing.T) {
	m := NewSATModel()
	a, b := m.NewBoolVar("a"), m.NewBoolVar("b")
	// 2a - a + b >= 2 forces both
	require.NoError(t, m.AddLinear([]Term{{a, 2}, {a, -1}, {b, 1}}, Ge, 2))

	require.Equal(t, Optimal, solve(t, m))
	require.True(t, m.Value(a))
	require.True(t, m.Value(b))
}

func TestSATModel_Infeasible(t *testing.T) {
	m := NewSATModel()
	a, b, c := m.NewBoolVar("a"), m.NewBoolVar("b"), m.NewBoolVar("c")
	require.NoError(t, m.AddLinear(Sum(a, b, c), Le, 1))
	require.NoError(t, m.AddLinear(Sum(a, b), Eq, 2))

	require.Equal(t, Infeasible, solve(t, m))
}

func TestSATModel_TriviallyInfeasibleConstraint(t *testing.T) {
	m := NewSATModel()
	a := m.NewBoolVar("a")
	require.NoError(t, m.AddLinear(Sum(a), Ge, 2))

	require.Equal(t, Infeasible, solve(t, m))
	require.False(t, m.Value(a))
}

func TestSATModel_NoConstraints(t *testing.T) {
	m := NewSATModel()
	a := m.NewBoolVar("a")
	require.NoError(t, m.AddLinear(Sum(a), Le, 1))

	require.Equal(t, 0, m.NumConstraints())
	require.Equal(t, Optimal, solve(t, m))
	require.False(t, m.Value(a))
}

func TestSATModel_RejectsUndeclaredVariable(t *testing.T) {
	m := NewSATModel()
	m.NewBoolVar("a")
	require.Error(t, m.AddLinear([]Term{{Var(7), 1}}, Eq, 1))
}

func TestSATModel_CancelledContext(t *testing.T) {
	m := NewSATModel()
	a, b := m.NewBoolVar("a"), m.NewBoolVar("b")
	require.NoError(t, m.AddLinear(Sum(a, b), Eq, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, err := m.Solve(ctx, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Unknown, status)
}

// pigeonhole posts pigeons into holes with at most one pigeon per hole.
// It is infeasible when pigeons > holes and hard to refute with pairwise
// exclusions.
func pigeonhole(t *testing.T, pigeons, holes int) Model {
	t.Helper()
	m := NewSATModel()
	x := make([][]Var, pigeons)
	for p := range x {
		x[p] = make([]Var, holes)
		for h := range x[p] {
			x[p][h] = m.NewBoolVar(fmt.Sprintf("p%d_h%d", p, h))
		}
		require.NoError(t, m.AddLinear(Sum(x[p]...), Ge, 1))
	}
	for h := 0; h < holes; h++ {
		for p := 0; p < pigeons; p++ {
			for q := p + 1; q < pigeons; q++ {
				require.NoError(t, m.AddLinear(Sum(x[p][h], x[q][h]), Le, 1))
			}
		}
	}
	return m
}

func TestSATModel_BudgetStopsSearch(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 3; i++ {
		m := pigeonhole(t, 12, 11)
		start := time.Now()
		status, err := m.Solve(context.Background(), 50*time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, Unknown, status)
		require.Less(t, time.Since(start), 2*time.Second)
	}

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond, "searches still running after their budget")
}

func TestSATModel_CancelStopsSearch(t *testing.T) {
	before := runtime.NumGoroutine()
	m := pigeonhole(t, 12, 11)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	status, err := m.Solve(ctx, 0)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, Unknown, status)

	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSATModel_SmallPigeonholeIsInfeasible(t *testing.T) {
	require.Equal(t, Infeasible, solve(t, pigeonhole(t, 4, 3)))
}

func TestStatus(t *testing.T) {
	require.Equal(t, "OPTIMAL", Optimal.String())
	require.Equal(t, "INFEASIBLE", Infeasible.String())
	require.Equal(t, "UNKNOWN", Unknown.String())
	require.True(t, Feasible.HasSolution())
	require.False(t, Unknown.HasSolution())
}
