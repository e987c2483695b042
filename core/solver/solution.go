package solver

import (
	"context"
	"time"
)

// Status describes how a solve ended.
type Status int

const (
	// StatusUnknown means the budget ran out before any feasible assignment.
	StatusUnknown Status = iota
	// StatusFeasible means an incumbent exists but optimality is not proven.
	StatusFeasible
	// StatusOptimal means the incumbent is proven optimal.
	StatusOptimal
	// StatusInfeasible means no assignment satisfies the model.
	StatusInfeasible
)

// String returns a lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "feasible"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Solution is the outcome of a solve. Values is nil unless Status is
// StatusFeasible or StatusOptimal.
type Solution struct {
	Status    Status
	Values    []bool
	Objective float64
	// Bound is an upper bound on the optimum when HasBound is set.
	Bound    float64
	HasBound bool
	Nodes    int64
	Elapsed  time.Duration
}

// Value reports whether v is true in the solution.
func (s Solution) Value(v Var) bool {
	if int(v) < 0 || int(v) >= len(s.Values) {
		return false
	}
	return s.Values[v]
}

// Solver maximises a model. Errors are reserved for malformed models;
// infeasibility and timeouts are reported through the Status.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Solution, error)
}
