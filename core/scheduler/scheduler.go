package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kilianp07/weekplan/core/availability"
	"github.com/kilianp07/weekplan/core/features"
	"github.com/kilianp07/weekplan/core/grid"
	"github.com/kilianp07/weekplan/core/logger"
	"github.com/kilianp07/weekplan/core/model"
	"github.com/kilianp07/weekplan/core/optimizer"
	"github.com/kilianp07/weekplan/core/prediction"
)

// RunRecorder observes completed runs.
type RunRecorder interface {
	RecordRun(res model.Response)
}

// Planner runs planning requests. It holds no per-run state and may be
// shared between goroutines.
type Planner struct {
	Forecaster prediction.Forecaster
	Optimizer  *optimizer.Optimizer
	Log        logger.Logger
	// Recorder is optional.
	Recorder RunRecorder

	validate *validator.Validate
}

// NewPlanner wires a planner. A nil forecaster selects the seasonal
// regression and a nil optimizer uses branch and bound with default options.
func NewPlanner(fc prediction.Forecaster, opt *optimizer.Optimizer, log logger.Logger) *Planner {
	log = logger.OrNop(log)
	if fc == nil {
		fc = prediction.NewSeasonalRegression()
	}
	if opt == nil {
		opt = optimizer.New(nil, optimizer.Config{}, log)
	}
	return &Planner{
		Forecaster: fc,
		Optimizer:  opt,
		Log:        log,
		validate:   validator.New(),
	}
}

// Plan computes the schedule for req. Validation failures wrap
// model.ErrValidation and abort before any computation; tasks that cannot be
// placed are reported in Response.Unscheduled.
func (p *Planner) Plan(ctx context.Context, req model.Request) (model.Response, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := logger.OrNop(p.Log)

	req, err := p.normalize(req)
	if err != nil {
		return model.Response{}, err
	}
	prefs := req.Preferences

	slots, err := grid.Week(req.WeekStart, prefs.SlotMinutes)
	if err != nil {
		return model.Response{}, err
	}
	history := grid.History(req.WeekStart, prefs.SlotMinutes)
	eng := features.NewEngine(prefs, req.FixedEvents, req.Tasks)

	fc := p.Forecaster
	if fc == nil {
		fc = prediction.NewSeasonalRegression()
	}
	scored, err := prediction.ScoreSlots(ctx, fc, eng, history, slots)
	if err != nil {
		return model.Response{}, err
	}

	blocked := availability.BlockedMask(availability.Input{
		Slots:           scored,
		SlotMinutes:     prefs.SlotMinutes,
		Events:          req.FixedEvents,
		WeekendOK:       prefs.WeekendOK,
		Missed:          req.Missed,
		EarliestAllowed: req.EarliestAllowed,
	})
	log.Infof("run %s: week %s, %d slots (%d blocked), %d tasks",
		runID, req.WeekStart.Format(time.RFC3339), len(scored), countTrue(blocked), len(req.Tasks))

	opt := p.Optimizer
	if opt == nil {
		opt = optimizer.New(nil, optimizer.Config{}, log)
	}
	res, err := opt.Place(ctx, optimizer.Input{
		Slots:   scored,
		Blocked: blocked,
		Tasks:   req.Tasks,
		Prefs:   prefs,
	})
	if err != nil {
		return model.Response{}, fmt.Errorf("place tasks: %w", err)
	}

	for _, id := range res.Unscheduled {
		log.Warnf("run %s: task %s left unscheduled", runID, id)
	}
	stats := model.SolveStats{
		RunID:     runID,
		Status:    res.Status,
		Objective: res.Objective,
		Bound:     res.Bound,
		HasBound:  res.HasBound,
		Nodes:     res.Solution.Nodes,
		Elapsed:   time.Since(started),
	}
	log.Infof("run %s: status=%s placed=%d unscheduled=%d objective=%.4f elapsed=%s",
		runID, stats.Status, len(res.Assignments), len(res.Unscheduled), stats.Objective, stats.Elapsed)

	resp := model.Response{
		Assignments: res.Assignments,
		Slots:       scored,
		Unscheduled: res.Unscheduled,
		Stats:       stats,
	}
	if p.Recorder != nil {
		p.Recorder.RecordRun(resp)
	}
	return resp, nil
}

// normalize validates req and returns a copy whose timestamps are expressed
// in the preferred zone.
func (p *Planner) normalize(req model.Request) (model.Request, error) {
	if err := req.Preferences.Validate(); err != nil {
		return req, err
	}
	v := p.validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", model.ErrInvalidTask, err)
	}
	loc, err := req.Preferences.Location()
	if err != nil {
		return req, err
	}

	out := req
	if out.WeekStart, err = grid.Resolve(req.WeekStart, loc); err != nil {
		return req, err
	}

	out.FixedEvents = make([]model.FixedEvent, len(req.FixedEvents))
	for i, ev := range req.FixedEvents {
		if ev.Start, err = grid.Resolve(ev.Start, loc); err != nil {
			return req, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		if ev.End, err = grid.Resolve(ev.End, loc); err != nil {
			return req, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		if err := ev.Interval().Validate(); err != nil {
			return req, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		out.FixedEvents[i] = ev
	}

	out.Missed = make([]model.Interval, len(req.Missed))
	for i, iv := range req.Missed {
		if iv.Start, err = grid.Resolve(iv.Start, loc); err != nil {
			return req, fmt.Errorf("missed interval %d: %w", i, err)
		}
		if iv.End, err = grid.Resolve(iv.End, loc); err != nil {
			return req, fmt.Errorf("missed interval %d: %w", i, err)
		}
		if err := iv.Validate(); err != nil {
			return req, fmt.Errorf("missed interval %d: %w", i, err)
		}
		out.Missed[i] = iv
	}

	out.Tasks = make([]model.Task, len(req.Tasks))
	for i, t := range req.Tasks {
		if t.Deadline != nil {
			d, err := grid.Resolve(*t.Deadline, loc)
			if err != nil {
				return req, fmt.Errorf("task %s deadline: %w", t.ID, err)
			}
			t.Deadline = &d
		}
		out.Tasks[i] = t
	}

	if req.EarliestAllowed != nil {
		e, err := grid.Resolve(*req.EarliestAllowed, loc)
		if err != nil {
			return req, fmt.Errorf("earliest allowed: %w", err)
		}
		out.EarliestAllowed = &e
	}
	return out, nil
}

// EarliestAllowed returns the first instant a plan computed at now may use.
// When now falls inside the target week it is floored to the slot
// granularity within its hour, otherwise the week start is returned.
func EarliestAllowed(now, weekStart time.Time, slotMinutes int) time.Time {
	weekEnd := weekStart.Add(grid.WeekDays * 24 * time.Hour)
	if now.Before(weekStart) || now.After(weekEnd) || slotMinutes <= 0 {
		return weekStart
	}
	now = now.In(weekStart.Location())
	minute := now.Minute() / slotMinutes * slotMinutes
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), minute, 0, 0, now.Location())
}

// MarkMissed returns a copy of req where the span of a is excluded from
// future runs.
func MarkMissed(req model.Request, a model.Assignment) model.Request {
	out := req
	out.Missed = make([]model.Interval, 0, len(req.Missed)+1)
	out.Missed = append(out.Missed, req.Missed...)
	out.Missed = append(out.Missed, a.Interval())
	return out
}

func countTrue(mask []bool) int {
	n := 0
	for _, b := range mask {
		if b {
			n++
		}
	}
	return n
}
