// Package optimizer places tasks on the scored weekly slot grid.
//
// Each (task, feasible start) pair becomes a boolean variable of a
// solver.Model. Slot exclusion, the minimum buffer between tasks and the
// daily cap are expressed as solver constraints and the objective rewards
// category-adjusted utility weighted by priority.
package optimizer
