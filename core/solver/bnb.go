package solver

import (
	"context"
	"math"
	"sort"
	"time"
)

const (
	defaultTimeBudget    = 10 * time.Second
	defaultCheckInterval = 256
	defaultRelaxMinGroup = 6
	defaultRelaxMaxCells = 400_000
	objectiveEpsilon     = 1e-9
)

// Options tune BranchAndBound.
type Options struct {
	// TimeBudgetSeconds bounds the wall-clock search time.
	TimeBudgetSeconds float64 `json:"time_budget_seconds"`
	// CheckInterval is the number of nodes explored between deadline checks.
	CheckInterval int `json:"check_interval"`
	// RelaxMinGroups is the group count from which an LP relaxation bound is
	// computed before searching.
	RelaxMinGroups int `json:"relax_min_groups"`
	// RelaxMaxCells caps the dense LP size (rows*columns). Zero uses the
	// default, a negative value disables the relaxation.
	RelaxMaxCells int `json:"relax_max_cells"`
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.TimeBudgetSeconds <= 0 {
		o.TimeBudgetSeconds = defaultTimeBudget.Seconds()
	}
	if o.CheckInterval <= 0 {
		o.CheckInterval = defaultCheckInterval
	}
	if o.RelaxMinGroups <= 0 {
		o.RelaxMinGroups = defaultRelaxMinGroup
	}
	if o.RelaxMaxCells == 0 {
		o.RelaxMaxCells = defaultRelaxMaxCells
	}
}

// TimeBudget returns the budget as a duration.
func (o Options) TimeBudget() time.Duration {
	return time.Duration(o.TimeBudgetSeconds * float64(time.Second))
}

// BranchAndBound is a depth-first search over the model's groups. Each
// level decides one group: one of its variables, tried in decreasing
// objective order, or none when the group allows it. Partial assignments are
// pruned against the linear constraints, the clauses and an optimistic bound
// built from the best still-admissible variable of every open group.
type BranchAndBound struct {
	Options Options
	// relax is swapped in tests.
	relax func(m *Model, maxCells int) (float64, bool)
}

// NewBranchAndBound returns a solver with default options.
func NewBranchAndBound() *BranchAndBound {
	var o Options
	o.SetDefaults()
	return &BranchAndBound{Options: o}
}

const (
	undecided = -1
	none      = -2
)

type search struct {
	m      *Model
	ctx    context.Context
	check  int64
	groups []group
	order  [][]Var // per group, variables by decreasing objective
	gOf    []int
	// decided[g] is the chosen variable, none or undecided.
	decided []int
	linOf   [][]linRef
	linSum  []int
	conf    [][]Var
	clOf    [][]int // generic clauses per group
	clauses [][]Literal

	best     float64
	bestDec  []int
	found    bool
	target   float64
	hasTgt   bool
	nodes    int64
	stopped  bool
	boundHit bool
}

type linRef struct {
	idx  int
	coef int
}

// Solve implements Solver.
func (b *BranchAndBound) Solve(ctx context.Context, m *Model) (Solution, error) {
	if err := m.Err(); err != nil {
		return Solution{}, err
	}
	opts := b.Options
	opts.SetDefaults()
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, opts.TimeBudget())
	defer cancel()

	s := newSearch(ctx, m, int64(opts.CheckInterval))

	sol := Solution{}
	if len(s.groups) >= opts.RelaxMinGroups && opts.RelaxMaxCells > 0 {
		relax := b.relax
		if relax == nil {
			relax = RelaxationBound
		}
		if bound, ok := relax(m, opts.RelaxMaxCells); ok {
			sol.Bound, sol.HasBound = bound, true
			s.target, s.hasTgt = bound, true
		}
	}

	s.run()

	sol.Nodes = s.nodes
	sol.Elapsed = time.Since(started)
	switch {
	case !s.found && s.stopped:
		sol.Status = StatusUnknown
	case !s.found:
		sol.Status = StatusInfeasible
	case s.stopped && !s.boundHit:
		sol.Status = StatusFeasible
	default:
		sol.Status = StatusOptimal
	}
	if s.found {
		sol.Values = s.values()
		sol.Objective = m.Objective(sol.Values)
		if sol.Status == StatusOptimal && !s.boundHit {
			sol.Bound, sol.HasBound = sol.Objective, true
		}
	}
	return sol, nil
}

func newSearch(ctx context.Context, m *Model, check int64) *search {
	s := &search{m: m, ctx: ctx, check: check, best: math.Inf(-1)}

	s.groups = append(s.groups, m.groups...)
	s.gOf = append([]int(nil), m.inGroup...)
	for v, g := range s.gOf {
		if g < 0 {
			s.gOf[v] = len(s.groups)
			s.groups = append(s.groups, group{vars: []Var{Var(v)}})
		}
	}

	s.order = make([][]Var, len(s.groups))
	maxCoef := make([]float64, len(s.groups))
	for gi, g := range s.groups {
		ord := append([]Var(nil), g.vars...)
		sort.SliceStable(ord, func(i, j int) bool { return m.obj[ord[i]] > m.obj[ord[j]] })
		s.order[gi] = ord
		maxCoef[gi] = m.obj[ord[0]]
	}

	// Decide the most valuable groups first so the first dive yields a
	// good incumbent. perm maps search depth to original group index.
	perm := make([]int, len(s.groups))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return maxCoef[perm[i]] > maxCoef[perm[j]] })
	groups := make([]group, len(perm))
	order := make([][]Var, len(perm))
	pos := make([]int, len(perm))
	for depth, gi := range perm {
		groups[depth] = s.groups[gi]
		order[depth] = s.order[gi]
		pos[gi] = depth
	}
	s.groups, s.order = groups, order
	for v := range s.gOf {
		s.gOf[v] = pos[s.gOf[v]]
	}

	s.decided = make([]int, len(s.groups))
	for i := range s.decided {
		s.decided[i] = undecided
	}

	s.linOf = make([][]linRef, len(m.obj))
	s.linSum = make([]int, len(m.linear))
	for li, l := range m.linear {
		for _, t := range l.terms {
			if t.Coef == 0 {
				continue
			}
			s.linOf[t.Var] = append(s.linOf[t.Var], linRef{idx: li, coef: t.Coef})
		}
	}

	s.conf = make([][]Var, len(m.obj))
	s.clOf = make([][]int, len(s.groups))
	for _, c := range m.clauses {
		if len(c) == 2 && c[0].Negated && c[1].Negated {
			a, b := c[0].Var, c[1].Var
			s.conf[a] = append(s.conf[a], b)
			s.conf[b] = append(s.conf[b], a)
			continue
		}
		ci := len(s.clauses)
		s.clauses = append(s.clauses, c)
		seen := map[int]bool{}
		for _, lit := range c {
			g := s.gOf[lit.Var]
			if !seen[g] {
				seen[g] = true
				s.clOf[g] = append(s.clOf[g], ci)
			}
		}
	}
	return s
}

func (s *search) run() {
	if s.allOptional() {
		// deciding every group as none is always admissible
		s.best = 0
		s.bestDec = make([]int, len(s.groups))
		for i := range s.bestDec {
			s.bestDec[i] = none
		}
		s.found = true
		if s.hasTgt && s.best >= s.target-objectiveEpsilon {
			s.boundHit = true
			s.stopped = true
			return
		}
	}
	s.dfs(0, 0)
}

func (s *search) allOptional() bool {
	for _, g := range s.groups {
		if g.exact {
			return false
		}
	}
	return s.clausesHoldWhenEmpty()
}

func (s *search) clausesHoldWhenEmpty() bool {
	for _, c := range s.clauses {
		ok := false
		for _, lit := range c {
			if lit.Negated {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func (s *search) dfs(depth int, value float64) {
	if s.stopped {
		return
	}
	s.nodes++
	if s.nodes%s.check == 0 && s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	if depth == len(s.groups) {
		if value > s.best+objectiveEpsilon || !s.found {
			s.best = value
			s.bestDec = append(s.bestDec[:0], s.decided...)
			s.found = true
			if s.hasTgt && s.best >= s.target-objectiveEpsilon {
				s.boundHit = true
				s.stopped = true
			}
		}
		return
	}
	rest, ok := s.remaining(depth)
	if !ok || (s.found && value+rest <= s.best+objectiveEpsilon) {
		return
	}

	g := s.groups[depth]
	for _, v := range s.order[depth] {
		if !s.admissible(v) {
			continue
		}
		s.set(depth, int(v))
		if s.clausesOK(depth) {
			s.dfs(depth+1, value+s.m.obj[v])
		}
		s.unset(depth, int(v))
		if s.stopped {
			return
		}
	}
	if !g.exact {
		s.decided[depth] = none
		if s.clausesOK(depth) {
			s.dfs(depth+1, value)
		}
		s.decided[depth] = undecided
	}
}

// remaining returns an optimistic value for the undecided groups from depth
// on. ok is false when an exactly-one group has no admissible variable.
func (s *search) remaining(depth int) (float64, bool) {
	var sum float64
	for d := depth; d < len(s.groups); d++ {
		bestV := math.Inf(-1)
		for _, v := range s.order[d] {
			if s.admissible(v) {
				bestV = s.m.obj[v]
				break
			}
		}
		switch {
		case s.groups[d].exact && math.IsInf(bestV, -1):
			return 0, false
		case s.groups[d].exact:
			sum += bestV
		case bestV > 0:
			sum += bestV
		}
	}
	return sum, true
}

func (s *search) state(v Var) int {
	d := s.decided[s.gOf[v]]
	switch d {
	case undecided:
		return undecided
	case int(v):
		return 1
	default:
		return 0
	}
}

func (s *search) admissible(v Var) bool {
	for _, r := range s.linOf[v] {
		if s.linSum[r.idx]+r.coef > s.m.linear[r.idx].rhs {
			return false
		}
	}
	for _, w := range s.conf[v] {
		if s.state(w) == 1 {
			return false
		}
	}
	return true
}

func (s *search) set(depth, v int) {
	s.decided[depth] = v
	for _, r := range s.linOf[v] {
		s.linSum[r.idx] += r.coef
	}
}

func (s *search) unset(depth, v int) {
	for _, r := range s.linOf[v] {
		s.linSum[r.idx] -= r.coef
	}
	s.decided[depth] = undecided
}

// clausesOK reports whether every generic clause touching the group at depth
// can still be satisfied.
func (s *search) clausesOK(depth int) bool {
	for _, ci := range s.clOf[depth] {
		sat := false
		for _, lit := range s.clauses[ci] {
			st := s.state(lit.Var)
			if st == undecided || (st == 1) != lit.Negated {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func (s *search) values() []bool {
	out := make([]bool, len(s.m.obj))
	for _, d := range s.bestDec {
		if d >= 0 {
			out[d] = true
		}
	}
	return out
}
