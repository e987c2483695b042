package model

import "time"

// Request is the immutable input of one planning run. Callers carry state
// such as accumulated missed intervals across runs themselves.
type Request struct {
	// WeekStart must carry an explicit zone.
	WeekStart   time.Time    `json:"week_start"`
	Preferences Preferences  `json:"preferences"`
	FixedEvents []FixedEvent `json:"fixed_events" validate:"dive"`
	Tasks       []Task       `json:"tasks" validate:"unique=ID,dive"`
	// Missed lists previously assigned blocks that must not be reused.
	Missed []Interval `json:"missed,omitempty"`
	// EarliestAllowed blocks every slot starting before it.
	EarliestAllowed *time.Time `json:"earliest_allowed,omitempty"`
}

// Assignment places one task.
type Assignment struct {
	TaskID   string    `json:"id"`
	Label    string    `json:"label"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Priority float64   `json:"priority"`
}

// Interval returns the occupied span.
func (a Assignment) Interval() Interval { return Interval{Start: a.Start, End: a.End} }

// SolveStatus summarises how the search ended.
type SolveStatus string

const (
	// StatusOptimal means the search space was exhausted or the bound was met.
	StatusOptimal SolveStatus = "optimal"
	// StatusFeasible means the budget ran out with an incumbent.
	StatusFeasible SolveStatus = "feasible"
	// StatusEmpty means nothing could be placed.
	StatusEmpty SolveStatus = "empty"
)

// SolveStats describes the optimizer run.
type SolveStats struct {
	RunID     string        `json:"run_id"`
	Status    SolveStatus   `json:"status"`
	Objective float64       `json:"objective"`
	Bound     float64       `json:"bound,omitempty"`
	HasBound  bool          `json:"has_bound"`
	Nodes     int64         `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Response is the output of one planning run.
type Response struct {
	// Assignments are ordered by start time.
	Assignments []Assignment `json:"assignments"`
	// Slots is the scored target week, exposed for visualisation.
	Slots []Slot `json:"slots"`
	// Unscheduled lists input task ids without an assignment.
	Unscheduled []string   `json:"unscheduled"`
	Stats       SolveStats `json:"stats"`
}
