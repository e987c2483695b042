package prediction

import (
	"time"

	"github.com/kilianp07/weekplan/core/features"
)

const (
	priorBase     = 0.45
	priorMorning  = 0.20
	priorLate     = -0.15
	priorWeekend  = -0.15
	priorFloor    = 0.05
	priorCeiling  = 0.95
	forecastFloor = 0.0
	forecastCeil  = 1.0
)

// PriorTarget is the cold-start utility of a historical slot.
func PriorTarget(f features.Features) float64 {
	v := priorBase + priorMorning*f.PreferMorning + priorLate*f.AvoidLate + priorWeekend*f.Weekend
	return clamp(v, priorFloor, priorCeiling)
}

// HistoryRows builds synthetic training rows: regressors come from eng and
// targets from PriorTarget.
func HistoryRows(eng *features.Engine, ts []time.Time) []Row {
	rows := make([]Row, len(ts))
	for i, t := range ts {
		f := eng.Compute(t)
		rows[i] = Row{Time: t, Regressors: f.Vector(), Target: PriorTarget(f)}
	}
	return rows
}

// FutureRows builds prediction rows for the target timestamps.
func FutureRows(eng *features.Engine, ts []time.Time) []Row {
	rows := make([]Row, len(ts))
	for i, t := range ts {
		rows[i] = Row{Time: t, Regressors: eng.Compute(t).Vector()}
	}
	return rows
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
