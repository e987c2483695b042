// Package solver provides the narrow boolean optimisation capability used by
// the placement optimizer: declare boolean variables, group them with
// at-most-one or exactly-one constraints, add non-negative linear "<="
// constraints and clauses, set a linear objective to maximise, and solve
// under a wall-clock budget.
//
// BranchAndBound is the built-in implementation. It always returns the best
// incumbent found when the budget runs out.
package solver
