package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/weekplan/core/model"
)

var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.Add(time.Duration(day)*24*time.Hour + time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestCalendarIndicators(t *testing.T) {
	p := model.DefaultPreferences()
	tests := []struct {
		name    string
		t       time.Time
		morning float64
		late    float64
		weekend float64
	}{
		{"before morning", at(0, 7, 0), 0, 0, 0},
		{"morning start inclusive", at(0, 8, 0), 1, 0, 0},
		{"morning end inclusive", at(0, 11, 59), 1, 0, 0},
		{"afternoon", at(0, 12, 0), 0, 0, 0},
		{"late boundary", at(0, 20, 0), 0, 1, 0},
		{"saturday morning", at(5, 9, 0), 1, 0, 1},
		{"sunday night", at(6, 23, 0), 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Calendar(tt.t, p)
			assert.Equal(t, tt.morning, f.PreferMorning)
			assert.Equal(t, tt.late, f.AvoidLate)
			assert.Equal(t, tt.weekend, f.Weekend)
		})
	}
}

func TestMeetingDensity(t *testing.T) {
	ev := model.FixedEvent{ID: "m", Start: at(1, 12, 0), End: at(1, 13, 0)}
	assert.Zero(t, MeetingDensity(at(1, 12, 0), nil, DefaultDensityWindow))

	// window 10:30-13:30 covers the whole hour: 60/180
	assert.InDelta(t, 1.0/3.0, MeetingDensity(at(1, 12, 0), []model.FixedEvent{ev}, DefaultDensityWindow), 1e-9)
	// window 09:00-12:00 touches nothing
	assert.Zero(t, MeetingDensity(at(1, 10, 30), []model.FixedEvent{ev}, DefaultDensityWindow))
	// window 11:00-14:00 covers 60 minutes
	assert.InDelta(t, 1.0/3.0, MeetingDensity(at(1, 12, 30), []model.FixedEvent{ev}, DefaultDensityWindow), 1e-9)

	long := model.FixedEvent{ID: "l", Start: at(1, 8, 0), End: at(1, 18, 0)}
	assert.Equal(t, 1.0, MeetingDensity(at(1, 12, 0), []model.FixedEvent{long}, DefaultDensityWindow))
	assert.Equal(t, 1.0, MeetingDensity(at(1, 12, 0), []model.FixedEvent{long, ev}, DefaultDensityWindow))

	// double-booked hours count twice before the clip
	twin := model.FixedEvent{ID: "t", Start: ev.Start, End: ev.End}
	assert.InDelta(t, 2.0/3.0, MeetingDensity(at(1, 12, 0), []model.FixedEvent{ev, twin}, DefaultDensityWindow), 1e-9)
}

func TestDeadlinePressure(t *testing.T) {
	ddl := at(4, 17, 0)
	tasks := []model.Task{{ID: "a", Deadline: &ddl}, {ID: "b"}}

	assert.Zero(t, DeadlinePressure(at(0, 0, 0), nil, DefaultPressureWindow))
	assert.Zero(t, DeadlinePressure(ddl.Add(-4*24*time.Hour), tasks, DefaultPressureWindow))
	assert.InDelta(t, 0.0, DeadlinePressure(ddl.Add(-3*24*time.Hour), tasks, DefaultPressureWindow), 1e-9)
	assert.InDelta(t, 0.5, DeadlinePressure(ddl.Add(-36*time.Hour), tasks, DefaultPressureWindow), 1e-9)
	assert.InDelta(t, 1.0, DeadlinePressure(ddl, tasks, DefaultPressureWindow), 1e-9)
	assert.InDelta(t, 1.0, DeadlinePressure(ddl.Add(time.Hour), tasks, DefaultPressureWindow), 1e-9)

	sooner := at(2, 17, 0)
	tasks = append(tasks, model.Task{ID: "c", Deadline: &sooner})
	assert.InDelta(t, 1.0, DeadlinePressure(at(2, 17, 0), tasks, DefaultPressureWindow), 1e-9)
}

func TestEngineVector(t *testing.T) {
	ddl := at(0, 12, 0)
	eng := NewEngine(model.DefaultPreferences(),
		[]model.FixedEvent{{ID: "e", Start: at(0, 9, 0), End: at(0, 10, 0)}},
		[]model.Task{{ID: "t", Deadline: &ddl}})
	fs := eng.ComputeAll([]time.Time{at(0, 9, 0), at(6, 21, 0)})
	v := fs[0].Vector()
	assert.Len(t, v, len(Names))
	assert.Equal(t, 1.0, v[0])
	assert.Equal(t, 0.0, v[1])
	assert.Equal(t, 0.0, v[2])
	assert.InDelta(t, 60.0/180.0, v[3], 1e-9)
	assert.InDelta(t, 1-3.0/72.0, v[4], 1e-9)

	v = fs[1].Vector()
	assert.Equal(t, []float64{0, 1, 1, 0, 1}, v)
	for _, x := range v {
		assert.False(t, math.IsNaN(x))
	}
}
