// Package features derives the contextual regressors used by the utility
// forecaster. Every value is a pure function of a timestamp, the user
// preferences, the fixed events and the tasks.
package features

import (
	"time"

	"github.com/kilianp07/weekplan/core/model"
)

// Names lists the regressors in the order used by Vector.
var Names = []string{"prefer_morning", "avoid_late", "is_weekend", "meeting_density", "deadline_pressure"}

const (
	// DefaultDensityWindow is the half-width of the meeting density window.
	DefaultDensityWindow = 90 * time.Minute
	// DefaultPressureWindow is the look-back over which deadline pressure ramps up.
	DefaultPressureWindow = 3 * 24 * time.Hour
)

// Features is the regressor set of one timestamp.
type Features struct {
	PreferMorning    float64
	AvoidLate        float64
	Weekend          float64
	MeetingDensity   float64
	DeadlinePressure float64
}

// Vector returns the features in Names order.
func (f Features) Vector() []float64 {
	return []float64{f.PreferMorning, f.AvoidLate, f.Weekend, f.MeetingDensity, f.DeadlinePressure}
}

// Engine evaluates features against a fixed context.
type Engine struct {
	Prefs  model.Preferences
	Events []model.FixedEvent
	Tasks  []model.Task
	// DensityWindow and PressureWindow fall back to the defaults when zero.
	DensityWindow  time.Duration
	PressureWindow time.Duration
}

// NewEngine returns an Engine with default windows.
func NewEngine(prefs model.Preferences, events []model.FixedEvent, tasks []model.Task) *Engine {
	return &Engine{
		Prefs:          prefs,
		Events:         events,
		Tasks:          tasks,
		DensityWindow:  DefaultDensityWindow,
		PressureWindow: DefaultPressureWindow,
	}
}

// Compute returns all features for t.
func (e *Engine) Compute(t time.Time) Features {
	f := Calendar(t, e.Prefs)
	f.MeetingDensity = MeetingDensity(t, e.Events, e.densityWindow())
	f.DeadlinePressure = DeadlinePressure(t, e.Tasks, e.pressureWindow())
	return f
}

// ComputeAll evaluates Compute for each timestamp.
func (e *Engine) ComputeAll(ts []time.Time) []Features {
	out := make([]Features, len(ts))
	for i, t := range ts {
		out[i] = e.Compute(t)
	}
	return out
}

func (e *Engine) densityWindow() time.Duration {
	if e.DensityWindow <= 0 {
		return DefaultDensityWindow
	}
	return e.DensityWindow
}

func (e *Engine) pressureWindow() time.Duration {
	if e.PressureWindow <= 0 {
		return DefaultPressureWindow
	}
	return e.PressureWindow
}

// Calendar returns the preference indicators of t. Only PreferMorning,
// AvoidLate and Weekend are set.
func Calendar(t time.Time, p model.Preferences) Features {
	h := t.Hour()
	var f Features
	if h >= p.MorningStartHour && h <= p.MorningEndHour {
		f.PreferMorning = 1
	}
	if h >= p.AvoidAfterHour {
		f.AvoidLate = 1
	}
	if model.IsWeekend(t.Weekday()) {
		f.Weekend = 1
	}
	return f
}

// MeetingDensity is the fraction of [t-half, t+half) covered by fixed events.
// Overlapping events are summed, so the value is clipped to 1.
func MeetingDensity(t time.Time, events []model.FixedEvent, half time.Duration) float64 {
	if len(events) == 0 || half <= 0 {
		return 0
	}
	window := model.Interval{Start: t.Add(-half), End: t.Add(half)}
	var busy time.Duration
	for _, ev := range events {
		busy += window.Overlap(ev.Interval())
	}
	return clip(float64(busy)/float64(2*half), 0, 1)
}

// DeadlinePressure ramps from 0 to 1 over the window before each deadline and
// returns the maximum across tasks. Past a deadline the pressure stays at 1.
func DeadlinePressure(t time.Time, tasks []model.Task, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	var best float64
	for _, task := range tasks {
		if task.Deadline == nil {
			continue
		}
		left := task.Deadline.Sub(t)
		p := clip(float64(window-left)/float64(window), 0, 1)
		if p > best {
			best = p
		}
	}
	return best
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
