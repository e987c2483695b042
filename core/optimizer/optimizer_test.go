package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/weekplan/core/grid"
	"github.com/kilianp07/weekplan/core/model"
	"github.com/kilianp07/weekplan/core/solver"
	"github.com/kilianp07/weekplan/infra/logger"
)

var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

func at(day, h int) time.Time {
	return monday.Add(time.Duration(day*24+h) * time.Hour)
}

// hourlyWeek returns a 60 minute grid where utility(day, hour) is set by fn.
func hourlyWeek(t *testing.T, fn func(day, hour int) float64) []model.Slot {
	t.Helper()
	slots, err := grid.Week(monday, 60)
	require.NoError(t, err)
	for i := range slots {
		slots[i].Utility = fn(i/24, slots[i].Hour)
	}
	return slots
}

func prefs(buffer int, maxHours float64) model.Preferences {
	p := model.DefaultPreferences()
	p.Timezone = "UTC"
	p.BufferMinutes = buffer
	p.MaxHoursPerDay = maxHours
	return p
}

func newOptimizer(t *testing.T, cfg Config) *Optimizer {
	t.Helper()
	ResetMetrics(prometheus.NewRegistry())
	return New(nil, cfg, logger.NopLogger{})
}

func place(t *testing.T, o *Optimizer, in Input) Result {
	t.Helper()
	if in.Blocked == nil {
		in.Blocked = make([]bool, len(in.Slots))
	}
	res, err := o.Place(context.Background(), in)
	require.NoError(t, err)
	return res
}

func TestFeasibleStarts(t *testing.T) {
	slots := hourlyWeek(t, func(int, int) float64 { return 0.5 })[:10]
	blocked := make([]bool, 10)
	blocked[3] = true

	starts := FeasibleStarts(slots, blocked, 2, time.Hour, nil)
	assert.Equal(t, []int{0, 1, 4, 5, 6, 7, 8}, starts)

	deadline := at(0, 7)
	starts = FeasibleStarts(slots, blocked, 2, time.Hour, &deadline)
	assert.Equal(t, []int{0, 1, 4, 5}, starts)

	assert.Nil(t, FeasibleStarts(slots, blocked, 0, time.Hour, nil))
	assert.Nil(t, FeasibleStarts(slots, blocked, 11, time.Hour, nil))
}

func TestAdjust(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, 0.68, cfg.Adjust(model.CategoryFocus, 20, 0.8), 1e-9)
	assert.InDelta(t, 0.8, cfg.Adjust(model.CategoryFocus, 10, 0.8), 1e-9)
	assert.Equal(t, 1.0, cfg.Adjust(model.CategoryExercise, 7, 0.9))
	assert.InDelta(t, 0.4, cfg.Adjust(model.CategoryExercise, 12, 0.5), 1e-9)
	assert.Equal(t, 0.3, cfg.Adjust(model.CategoryGeneral, 3, 0.3))
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"mode", Config{DailyCapMode: "hours"}},
		{"category", Config{DailyCapMode: CapSlots, Categories: map[string]CategoryProfile{"nap": {WindowEnd: 3, Inside: 1}}}},
		{"window", Config{DailyCapMode: CapSlots, Categories: map[string]CategoryProfile{"focus": {WindowStart: 18, WindowEnd: 9}}}},
		{"negative", Config{DailyCapMode: CapSlots, Categories: map[string]CategoryProfile{"focus": {WindowEnd: 9, Outside: -1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestPlaceBufferAndOrdering(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 {
		if day == 0 && hour >= 9 && hour <= 11 {
			return 1
		}
		return 0.1
	})
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots: slots,
		Prefs: prefs(60, 4),
		Tasks: []model.Task{
			{ID: "b", DurationHours: 1, Priority: 1},
			{ID: "a", DurationHours: 1, Priority: 1},
		},
	})

	assert.Equal(t, model.StatusOptimal, res.Status)
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, at(0, 9), res.Assignments[0].Start)
	assert.Equal(t, at(0, 11), res.Assignments[1].Start)
	assert.GreaterOrEqual(t, res.Assignments[1].Start.Sub(res.Assignments[0].End), time.Hour)
	assert.InDelta(t, 2.0, res.Objective, 1e-9)
	assert.Empty(t, res.Unscheduled)
}

func TestPlaceWithoutBufferAllowsAdjacentRuns(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 {
		if day == 0 && hour >= 9 && hour <= 10 {
			return 1
		}
		return 0.1
	})
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots: slots,
		Prefs: prefs(0, 0),
		Tasks: []model.Task{
			{ID: "a", DurationHours: 1, Priority: 1},
			{ID: "b", DurationHours: 1, Priority: 1},
		},
	})
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, res.Assignments[0].End, res.Assignments[1].Start)
}

func TestPlaceDailyCapSlots(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 {
		if day == 0 {
			return 1
		}
		return 0.5
	})
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots: slots,
		Prefs: prefs(0, 2),
		Tasks: []model.Task{
			{ID: "a", DurationHours: 1, Priority: 1},
			{ID: "b", DurationHours: 1, Priority: 1},
			{ID: "c", DurationHours: 1, Priority: 1},
		},
	})
	require.Len(t, res.Assignments, 3)
	perDay := map[model.Date]int{}
	for _, a := range res.Assignments {
		perDay[model.DateOf(a.Start)]++
	}
	for d, n := range perDay {
		assert.LessOrEqual(t, n, 2, "day %v", d)
	}
	assert.InDelta(t, 2.5, res.Objective, 1e-9)
}

func TestPlaceDailyCapModes(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 {
		if day == 0 {
			return 1
		}
		return 0.1
	})
	tasks := []model.Task{
		{ID: "a", DurationHours: 2, Priority: 1},
		{ID: "b", DurationHours: 2, Priority: 1},
	}
	mondays := func(res Result) int {
		n := 0
		for _, a := range res.Assignments {
			if model.DateOf(a.Start) == model.DateOf(monday) {
				n++
			}
		}
		return n
	}

	res := place(t, newOptimizer(t, Config{DailyCapMode: CapSlots}), Input{Slots: slots, Prefs: prefs(0, 2), Tasks: tasks})
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, 1, mondays(res))

	res = place(t, newOptimizer(t, Config{DailyCapMode: CapPlacements}), Input{Slots: slots, Prefs: prefs(0, 2), Tasks: tasks})
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, 2, mondays(res))
}

func TestPlaceRespectsDeadlineAndBlocked(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 { return float64(day)/10 + float64(hour)/1000 })
	blocked := make([]bool, len(slots))
	for i := 24; i < 48; i++ {
		blocked[i] = true
	}
	deadline := at(2, 12)
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots:   slots,
		Blocked: blocked,
		Prefs:   prefs(60, 4),
		Tasks:   []model.Task{{ID: "a", DurationHours: 3, Priority: 2, Deadline: &deadline}},
	})
	require.Len(t, res.Assignments, 1)
	a := res.Assignments[0]
	assert.False(t, a.End.After(deadline))
	assert.True(t, a.Start.Before(at(1, 0)) || !a.Start.Before(at(2, 0)))
	// later slots score higher, so the run ends exactly at the deadline
	assert.Equal(t, deadline, a.End)
	assert.InDelta(t, 2*(0.6+0.030), res.Objective, 1e-9)
}

func TestPlaceDropsTasks(t *testing.T) {
	slots := hourlyWeek(t, func(int, int) float64 { return 0.5 })
	blocked := make([]bool, len(slots))
	for i := range blocked {
		blocked[i] = i != 10 && i != 11
	}
	past := monday.Add(-time.Hour)
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots:   slots,
		Blocked: blocked,
		Prefs:   prefs(60, 4),
		Tasks: []model.Task{
			{ID: "low", DurationHours: 1, Priority: 1},
			{ID: "high", DurationHours: 1, Priority: 5},
			{ID: "late", DurationHours: 1, Priority: 9, Deadline: &past},
			{ID: "short", DurationHours: 0.5, Priority: 9},
		},
	})
	require.Len(t, res.Assignments, 1)
	assert.Equal(t, "high", res.Assignments[0].TaskID)
	assert.Equal(t, []string{"low", "late", "short"}, res.Unscheduled)
	assert.Equal(t, 1.0, testutil.ToFloat64(tasksPlaced))
	assert.Equal(t, 2.0, testutil.ToFloat64(tasksDropped.WithLabelValues("no_start")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tasksDropped.WithLabelValues("conflict")))
}

func TestPlacePrefersMoreTasksOverUtility(t *testing.T) {
	// One long high-value task would crowd out two short ones.
	slots := hourlyWeek(t, func(int, int) float64 { return 0.5 })
	blocked := make([]bool, len(slots))
	for i := range blocked {
		blocked[i] = i < 8 || i > 11
	}
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots:   slots,
		Blocked: blocked,
		Prefs:   prefs(0, 0),
		Tasks: []model.Task{
			{ID: "long", DurationHours: 4, Priority: 10},
			{ID: "x", DurationHours: 2, Priority: 1},
			{ID: "y", DurationHours: 2, Priority: 1},
		},
	})
	require.Len(t, res.Assignments, 2)
	assert.Equal(t, []string{"long"}, res.Unscheduled)
}

func TestPlaceCategoryShiftsExercise(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 {
		switch {
		case day == 0 && hour == 7:
			return 0.6
		case day == 0 && hour == 14:
			return 0.7
		}
		return 0.01
	})
	o := newOptimizer(t, Config{})
	res := place(t, o, Input{
		Slots: slots,
		Prefs: prefs(0, 0),
		Tasks: []model.Task{{ID: "gym", DurationHours: 1, Priority: 1, Category: model.CategoryExercise}},
	})
	require.Len(t, res.Assignments, 1)
	assert.Equal(t, at(0, 7), res.Assignments[0].Start)
	assert.InDelta(t, 0.78, res.Objective, 1e-9)
}

func TestPlaceEmptyAndErrors(t *testing.T) {
	slots := hourlyWeek(t, func(int, int) float64 { return 0.5 })
	o := newOptimizer(t, Config{})

	res := place(t, o, Input{Slots: slots, Prefs: prefs(60, 4)})
	assert.Equal(t, model.StatusEmpty, res.Status)
	assert.Empty(t, res.Assignments)

	_, err := o.Place(context.Background(), Input{Slots: slots, Blocked: []bool{true}, Prefs: prefs(60, 4)})
	assert.Error(t, err)
}

func TestPlaceReportsBound(t *testing.T) {
	slots := hourlyWeek(t, func(day, hour int) float64 { return float64(hour%5) / 5 })
	bnb := solver.NewBranchAndBound()
	bnb.Options.RelaxMinGroups = 1
	ResetMetrics(prometheus.NewRegistry())
	o := New(bnb, Config{}, nil)

	res := place(t, o, Input{
		Slots: slots,
		Prefs: prefs(60, 4),
		Tasks: []model.Task{
			{ID: "a", DurationHours: 2, Priority: 2},
			{ID: "b", DurationHours: 1, Priority: 1},
		},
	})
	require.Len(t, res.Assignments, 2)
	require.True(t, res.HasBound)
	assert.GreaterOrEqual(t, res.Bound+1e-6, res.Objective)
	assert.Equal(t, 1, testutil.CollectAndCount(solveSeconds))
}
