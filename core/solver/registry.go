package solver

import "github.com/kilianp07/weekplan/core/factory"

// TypeBranchAndBound selects BranchAndBound.
const TypeBranchAndBound = "bnb"

// NewRegistry returns a registry with the built-in solvers. An empty module
// type selects branch and bound.
func NewRegistry() *factory.Registry[Solver] {
	reg := factory.NewRegistry[Solver](TypeBranchAndBound)
	_ = reg.Register(TypeBranchAndBound, func(conf map[string]any) (Solver, error) {
		var o Options
		if err := factory.Decode(conf, &o); err != nil {
			return nil, err
		}
		o.SetDefaults()
		return &BranchAndBound{Options: o}, nil
	})
	return reg
}
