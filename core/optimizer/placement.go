package optimizer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kilianp07/weekplan/core/logger"
	"github.com/kilianp07/weekplan/core/model"
	"github.com/kilianp07/weekplan/core/solver"
)

// Input is one placement problem. Slots and Blocked are aligned.
type Input struct {
	Slots   []model.Slot
	Blocked []bool
	Tasks   []model.Task
	Prefs   model.Preferences
}

// Result holds the placement and the search outcome.
type Result struct {
	// Assignments are ordered by start.
	Assignments []model.Assignment
	// Unscheduled lists task ids in input order.
	Unscheduled []string
	Status      model.SolveStatus
	// Objective is the summed priority-weighted utility of the assignments.
	Objective float64
	// Bound is an upper bound on Objective when HasBound is set.
	Bound    float64
	HasBound bool
	Solution solver.Solution
}

// Optimizer builds and solves the placement model.
type Optimizer struct {
	Solver solver.Solver
	Config Config
	Log    logger.Logger
}

// New returns an optimizer using s. A nil solver selects branch and bound
// with default options.
func New(s solver.Solver, cfg Config, log logger.Logger) *Optimizer {
	if s == nil {
		s = solver.NewBranchAndBound()
	}
	cfg.SetDefaults()
	return &Optimizer{Solver: s, Config: cfg, Log: logger.OrNop(log)}
}

// FeasibleStarts returns every slot index where run consecutive slots are
// unblocked and, when deadline is set, the run ends at or before it.
func FeasibleStarts(slots []model.Slot, blocked []bool, run int, slot time.Duration, deadline *time.Time) []int {
	n := len(slots)
	if run <= 0 || run > n {
		return nil
	}
	// prefix[i] counts blocked slots in [0, i).
	prefix := make([]int, n+1)
	for i := 0; i < n; i++ {
		prefix[i+1] = prefix[i]
		if i < len(blocked) && blocked[i] {
			prefix[i+1]++
		}
	}
	var starts []int
	for i := 0; i+run <= n; i++ {
		if prefix[i+run]-prefix[i] > 0 {
			continue
		}
		if deadline != nil {
			end := slots[i].Start.Add(time.Duration(run) * slot)
			if end.After(*deadline) {
				continue
			}
		}
		starts = append(starts, i)
	}
	return starts
}

type placement struct {
	task   int
	start  int
	run    int
	weight float64
	v      solver.Var
}

type taskVars struct {
	list []*placement
}

// Place builds the model for in and solves it under ctx.
func (o *Optimizer) Place(ctx context.Context, in Input) (Result, error) {
	if len(in.Blocked) != len(in.Slots) {
		return Result{}, fmt.Errorf("optimizer: %d blocked flags for %d slots", len(in.Blocked), len(in.Slots))
	}
	log := logger.OrNop(o.Log)
	cfg := o.Config
	cfg.SetDefaults()

	g := in.Prefs.SlotMinutes
	slotDur := in.Prefs.Slot()
	days := dayIndex(in.Slots)
	capSlots := in.Prefs.MaxSlotsPerDay()

	m := solver.NewModel()
	vars := make([]taskVars, len(in.Tasks))
	reward := 1.0
	noStart := 0

	for ti, task := range in.Tasks {
		run := task.RunSlots(g)
		starts := FeasibleStarts(in.Slots, in.Blocked, run, slotDur, task.Deadline)
		var tv taskVars
		best := 0.0
		for _, s := range starts {
			if capSlots >= 0 && !fitsCap(days, s, run, capSlots, cfg.DailyCapMode) {
				continue
			}
			w := o.weight(cfg, in.Slots[s:s+run], task)
			p := &placement{task: ti, start: s, run: run, weight: w}
			p.v = m.NewBoolVar(fmt.Sprintf("x_t%d_i%d", ti, s))
			tv.list = append(tv.list, p)
			best = math.Max(best, w)
		}
		if len(tv.list) == 0 {
			noStart++
			log.Debugf("task %s has no feasible start (run %d slots)", task.ID, run)
		}
		reward += best
		vars[ti] = tv
	}

	for _, tv := range vars {
		group := make([]solver.Var, 0, len(tv.list))
		for _, p := range tv.list {
			m.SetObjective(p.v, reward+p.weight)
			group = append(group, p.v)
		}
		m.AddAtMostOne(group...)
	}
	addSlotExclusion(m, vars, len(in.Slots))
	addBuffers(m, vars, bufferSlots(in.Prefs))
	if capSlots >= 0 {
		addDailyCap(m, vars, days, capSlots, cfg.DailyCapMode)
	}
	if err := m.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Status: model.StatusEmpty}
	if m.NumVars() > 0 {
		sol, err := o.Solver.Solve(ctx, m)
		if err != nil {
			return Result{}, err
		}
		res.Solution = sol
		solveSeconds.WithLabelValues(sol.Status.String()).Observe(sol.Elapsed.Seconds())
		searchNodes.Add(float64(sol.Nodes))
		o.extract(&res, in, vars, sol, reward)
	}

	placed := make(map[string]bool, len(res.Assignments))
	for _, a := range res.Assignments {
		placed[a.TaskID] = true
	}
	for _, t := range in.Tasks {
		if !placed[t.ID] {
			res.Unscheduled = append(res.Unscheduled, t.ID)
		}
	}
	tasksPlaced.Add(float64(len(res.Assignments)))
	tasksDropped.WithLabelValues("no_start").Add(float64(noStart))
	tasksDropped.WithLabelValues("conflict").Add(float64(len(res.Unscheduled) - noStart))

	log.Debugw("placement solved", map[string]any{
		"variables":   m.NumVars(),
		"status":      string(res.Status),
		"objective":   res.Objective,
		"placed":      len(res.Assignments),
		"unscheduled": len(res.Unscheduled),
		"nodes":       res.Solution.Nodes,
	})
	return res, nil
}

func (o *Optimizer) weight(cfg Config, run []model.Slot, task model.Task) float64 {
	var sum float64
	for _, s := range run {
		sum += cfg.Adjust(task.Category, s.Hour, s.Utility)
	}
	return sum * task.Priority
}

func (o *Optimizer) extract(res *Result, in Input, vars []taskVars, sol solver.Solution, reward float64) {
	switch sol.Status {
	case solver.StatusOptimal:
		res.Status = model.StatusOptimal
	case solver.StatusFeasible:
		res.Status = model.StatusFeasible
	default:
		return
	}
	slotDur := in.Prefs.Slot()
	for _, tv := range vars {
		for _, p := range tv.list {
			if !sol.Value(p.v) {
				continue
			}
			task := in.Tasks[p.task]
			start := in.Slots[p.start].Start
			res.Assignments = append(res.Assignments, model.Assignment{
				TaskID:   task.ID,
				Label:    task.Label,
				Start:    start,
				End:      start.Add(time.Duration(p.run) * slotDur),
				Priority: task.Priority,
			})
			res.Objective += p.weight
			break
		}
	}
	sort.Slice(res.Assignments, func(i, j int) bool {
		return res.Assignments[i].Start.Before(res.Assignments[j].Start)
	})
	if len(res.Assignments) == 0 {
		res.Status = model.StatusEmpty
	}
	if sol.HasBound {
		res.HasBound = true
		res.Bound = math.Max(res.Objective, sol.Bound-float64(len(res.Assignments))*reward)
	}
}

func bufferSlots(p model.Preferences) int {
	if p.BufferMinutes <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.BufferMinutes) / float64(p.SlotMinutes)))
}

// addSlotExclusion allows at most one run to cover each slot.
func addSlotExclusion(m *solver.Model, vars []taskVars, n int) {
	cover := make([][]solver.Term, n)
	for _, tv := range vars {
		for _, p := range tv.list {
			for k := p.start; k < p.start+p.run; k++ {
				cover[k] = append(cover[k], solver.Term{Var: p.v, Coef: 1})
			}
		}
	}
	for _, terms := range cover {
		if len(terms) > 1 {
			m.AddLinearLE(terms, 1)
		}
	}
}

// addBuffers forbids pairs of runs from distinct tasks that are closer than
// buf slots. Overlapping runs are covered by the same rule.
func addBuffers(m *solver.Model, vars []taskVars, buf int) {
	for a := 0; a < len(vars); a++ {
		for b := a + 1; b < len(vars); b++ {
			for _, pa := range vars[a].list {
				// pb conflicts when pb.start < pa.end+buf and pa.start < pb.end+buf.
				lo := pa.start - buf
				hi := pa.start + pa.run + buf
				for _, pb := range vars[b].list {
					if pb.start+pb.run > lo && pb.start < hi {
						m.AddConflict(pa.v, pb.v)
					}
				}
			}
		}
	}
}

// dayIndex maps each slot to a dense calendar day number.
func dayIndex(slots []model.Slot) []int {
	out := make([]int, len(slots))
	seen := make(map[model.Date]int)
	for i, s := range slots {
		d := model.DateOf(s.Start)
		idx, ok := seen[d]
		if !ok {
			idx = len(seen)
			seen[d] = idx
		}
		out[i] = idx
	}
	return out
}

// daySlots counts the run slots falling on each day.
func daySlots(days []int, start, run int) map[int]int {
	out := make(map[int]int, 2)
	for k := start; k < start+run; k++ {
		out[days[k]]++
	}
	return out
}

func fitsCap(days []int, start, run, capSlots int, mode string) bool {
	for _, n := range daySlots(days, start, run) {
		if mode == CapPlacements {
			n = 1
		}
		if n > capSlots {
			return false
		}
	}
	return true
}

func addDailyCap(m *solver.Model, vars []taskVars, days []int, capSlots int, mode string) {
	rows := make(map[int][]solver.Term)
	for _, tv := range vars {
		for _, p := range tv.list {
			for day, n := range daySlots(days, p.start, p.run) {
				if mode == CapPlacements {
					n = 1
				}
				rows[day] = append(rows[day], solver.Term{Var: p.v, Coef: n})
			}
		}
	}
	keys := make([]int, 0, len(rows))
	for d := range rows {
		keys = append(keys, d)
	}
	sort.Ints(keys)
	for _, d := range keys {
		m.AddLinearLE(rows[d], capSlots)
	}
}
