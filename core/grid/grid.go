// Package grid builds the fixed-cadence slot sequences used by the planner:
// the target week and the four weeks preceding it that seed forecasting.
package grid

import (
	"fmt"
	"time"

	"github.com/kilianp07/weekplan/core/model"
)

const (
	// WeekDays is the length of the target window.
	WeekDays = 7
	// HistoryDays is the length of the synthetic history window.
	HistoryDays = 28
)

// Resolve checks that t is usable as a zoned instant and expresses it in
// loc. The instant itself never changes. Without a configured location a
// time in time.Local is rejected, since the process zone is not a planning
// zone the caller chose.
func Resolve(t time.Time, loc *time.Location) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: zero timestamp", model.ErrMissingTimezone)
	}
	if loc != nil {
		return t.In(loc), nil
	}
	if t.Location() == time.Local {
		return time.Time{}, fmt.Errorf("%w: %s has no explicit zone", model.ErrMissingTimezone, t.Format("2006-01-02T15:04:05"))
	}
	return t, nil
}

// Timestamps returns every slot start in [start, start+days) spaced by slot.
func Timestamps(start time.Time, days int, slot time.Duration) []time.Time {
	if slot <= 0 || days <= 0 {
		return nil
	}
	n := int(time.Duration(days) * 24 * time.Hour / slot)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * slot)
	}
	return out
}

// Week builds the target-week slot sequence.
func Week(weekStart time.Time, slotMinutes int) ([]model.Slot, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot_minutes %d", model.ErrInvalidPreferences, slotMinutes)
	}
	ts := Timestamps(weekStart, WeekDays, time.Duration(slotMinutes)*time.Minute)
	slots := make([]model.Slot, len(ts))
	for i, t := range ts {
		slots[i] = model.NewSlot(i, t)
	}
	return slots, nil
}

// History returns the slot starts of the HistoryDays immediately preceding
// weekStart.
func History(weekStart time.Time, slotMinutes int) []time.Time {
	start := weekStart.Add(-HistoryDays * 24 * time.Hour)
	return Timestamps(start, HistoryDays, time.Duration(slotMinutes)*time.Minute)
}
