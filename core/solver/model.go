package solver

import (
	"errors"
	"fmt"
)

// Var identifies a boolean variable of a Model.
type Var int

// Literal is a variable or its negation.
type Literal struct {
	Var     Var
	Negated bool
}

// Lit returns the positive literal of v.
func (v Var) Lit() Literal { return Literal{Var: v} }

// Not returns the negative literal of v.
func (v Var) Not() Literal { return Literal{Var: v, Negated: true} }

// Term is a coefficient applied to a variable in a linear constraint.
type Term struct {
	Var  Var
	Coef int
}

// ErrModel reports a malformed model.
var ErrModel = errors.New("invalid model")

type group struct {
	vars  []Var
	exact bool
}

type linear struct {
	terms []Term
	rhs   int
}

// Model is a 0-1 maximisation problem. A Model is not safe for concurrent
// mutation; build one per run.
type Model struct {
	names   []string
	obj     []float64
	inGroup []int
	groups  []group
	linear  []linear
	clauses [][]Literal
	err     error
}

// NewModel returns an empty model.
func NewModel() *Model { return &Model{} }

// NewBoolVar declares a variable.
func (m *Model) NewBoolVar(name string) Var {
	m.names = append(m.names, name)
	m.obj = append(m.obj, 0)
	m.inGroup = append(m.inGroup, -1)
	return Var(len(m.names) - 1)
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.names) }

// Name returns the name given to v.
func (m *Model) Name(v Var) string { return m.names[v] }

// AddAtMostOne constrains at most one of vars to be true. A variable may
// belong to a single group.
func (m *Model) AddAtMostOne(vars ...Var) { m.addGroup(vars, false) }

// AddExactlyOne constrains exactly one of vars to be true.
func (m *Model) AddExactlyOne(vars ...Var) { m.addGroup(vars, true) }

func (m *Model) addGroup(vars []Var, exact bool) {
	if len(vars) == 0 {
		if exact {
			m.fail(fmt.Errorf("%w: empty exactly-one group", ErrModel))
		}
		return
	}
	idx := len(m.groups)
	for _, v := range vars {
		if !m.valid(v) {
			return
		}
		if m.inGroup[v] >= 0 {
			m.fail(fmt.Errorf("%w: variable %s already grouped", ErrModel, m.names[v]))
			return
		}
		m.inGroup[v] = idx
	}
	m.groups = append(m.groups, group{vars: append([]Var(nil), vars...), exact: exact})
}

// AddLinearLE adds sum(coef*var) <= rhs. Coefficients must be non-negative.
func (m *Model) AddLinearLE(terms []Term, rhs int) {
	if len(terms) == 0 {
		if rhs < 0 {
			m.fail(fmt.Errorf("%w: empty linear constraint with negative bound", ErrModel))
		}
		return
	}
	for _, t := range terms {
		if !m.valid(t.Var) {
			return
		}
		if t.Coef < 0 {
			m.fail(fmt.Errorf("%w: negative coefficient on %s", ErrModel, m.names[t.Var]))
			return
		}
	}
	m.linear = append(m.linear, linear{terms: append([]Term(nil), terms...), rhs: rhs})
}

// AddBoolOr requires at least one literal to hold.
func (m *Model) AddBoolOr(lits ...Literal) {
	if len(lits) == 0 {
		m.fail(fmt.Errorf("%w: empty clause", ErrModel))
		return
	}
	for _, l := range lits {
		if !m.valid(l.Var) {
			return
		}
	}
	m.clauses = append(m.clauses, append([]Literal(nil), lits...))
}

// AddConflict forbids a and b from both being true.
func (m *Model) AddConflict(a, b Var) { m.AddBoolOr(a.Not(), b.Not()) }

// SetObjective sets the coefficient of v in the maximised objective.
func (m *Model) SetObjective(v Var, coef float64) {
	if m.valid(v) {
		m.obj[v] = coef
	}
}

// Objective evaluates the objective for a full assignment.
func (m *Model) Objective(values []bool) float64 {
	var sum float64
	for v, on := range values {
		if on {
			sum += m.obj[v]
		}
	}
	return sum
}

// Err returns the first construction error.
func (m *Model) Err() error { return m.err }

// Check verifies that values satisfies every constraint.
func (m *Model) Check(values []bool) error {
	if len(values) != len(m.names) {
		return fmt.Errorf("%w: %d values for %d variables", ErrModel, len(values), len(m.names))
	}
	for gi, g := range m.groups {
		n := 0
		for _, v := range g.vars {
			if values[v] {
				n++
			}
		}
		if n > 1 || (g.exact && n == 0) {
			return fmt.Errorf("group %d has %d true variables", gi, n)
		}
	}
	for li, l := range m.linear {
		sum := 0
		for _, t := range l.terms {
			if values[t.Var] {
				sum += t.Coef
			}
		}
		if sum > l.rhs {
			return fmt.Errorf("linear constraint %d: %d > %d", li, sum, l.rhs)
		}
	}
	for ci, c := range m.clauses {
		ok := false
		for _, lit := range c {
			if values[lit.Var] != lit.Negated {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("clause %d violated", ci)
		}
	}
	return nil
}

func (m *Model) valid(v Var) bool {
	if v < 0 || int(v) >= len(m.names) {
		m.fail(fmt.Errorf("%w: unknown variable %d", ErrModel, v))
		return false
	}
	return true
}

func (m *Model) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}
