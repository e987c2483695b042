// Package scheduler is the planning entry point. A Planner turns one
// immutable Request into a Response: it builds the weekly grid, scores the
// slots with a forecaster, resolves availability and runs the placement
// optimizer. Request files can be decoded from YAML or JSON.
package scheduler
