package solver

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// RelaxationBound solves the LP relaxation of m with the simplex method and
// returns an upper bound on the 0-1 optimum. Exactly-one groups are relaxed
// to at-most-one and generic clauses are dropped, which only loosens the
// bound. Pairwise conflicts are kept while the dense tableau stays within
// maxCells. ok is false when the relaxation is too large or the solver fails.
func RelaxationBound(m *Model, maxCells int) (bound float64, ok bool) {
	n := len(m.obj)
	if n == 0 {
		return 0, true
	}
	rows, rhs := relaxationRows(m, n)
	if len(rows)*(n+len(rows)) > maxCells {
		// retry without pairwise conflicts
		rows, rhs = rows[:len(m.groups)+len(m.linear)+ungrouped(m)], rhs[:len(m.groups)+len(m.linear)+ungrouped(m)]
		if len(rows)*(n+len(rows)) > maxCells {
			return 0, false
		}
	}
	for _, b := range rhs {
		if b < 0 {
			return 0, false
		}
	}

	nRows := len(rows)
	cols := n + nRows
	a := mat.NewDense(nRows, cols, nil)
	for i, r := range rows {
		for v, coef := range r {
			a.Set(i, v, coef)
		}
		a.Set(i, n+i, 1)
	}
	c := make([]float64, cols)
	for v, o := range m.obj {
		c[v] = -o
	}
	basic := make([]int, nRows)
	for i := range basic {
		basic[i] = n + i
	}

	defer func() {
		// gonum panics on degenerate shapes instead of returning an error
		if r := recover(); r != nil {
			bound, ok = 0, false
		}
	}()
	opt, _, err := lp.Simplex(c, a, rhs, 1e-10, basic)
	if err != nil {
		return 0, false
	}
	return -opt, true
}

// relaxationRows returns sparse "<=" rows: groups, linear constraints, a
// unit bound for ungrouped variables, then pairwise conflicts. Every
// variable appears in at least one row so no column of the tableau is zero.
func relaxationRows(m *Model, n int) ([]map[int]float64, []float64) {
	var rows []map[int]float64
	var rhs []float64
	for _, g := range m.groups {
		r := make(map[int]float64, len(g.vars))
		for _, v := range g.vars {
			r[int(v)] = 1
		}
		rows = append(rows, r)
		rhs = append(rhs, 1)
	}
	for _, l := range m.linear {
		r := make(map[int]float64, len(l.terms))
		for _, t := range l.terms {
			r[int(t.Var)] += float64(t.Coef)
		}
		rows = append(rows, r)
		rhs = append(rhs, float64(l.rhs))
	}
	for v := 0; v < n; v++ {
		if m.inGroup[v] < 0 {
			rows = append(rows, map[int]float64{v: 1})
			rhs = append(rhs, 1)
		}
	}
	for _, c := range m.clauses {
		if len(c) == 2 && c[0].Negated && c[1].Negated && c[0].Var != c[1].Var {
			rows = append(rows, map[int]float64{int(c[0].Var): 1, int(c[1].Var): 1})
			rhs = append(rhs, 1)
		}
	}
	return rows, rhs
}

func ungrouped(m *Model) int {
	n := 0
	for _, g := range m.inGroup {
		if g < 0 {
			n++
		}
	}
	return n
}
