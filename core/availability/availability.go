// Package availability computes which slots of the target week can host a
// task. The blocked mask is the union of four independent conditions.
package availability

import (
	"time"

	"github.com/kilianp07/weekplan/core/model"
)

// Input gathers everything that can block a slot.
type Input struct {
	Slots       []model.Slot
	SlotMinutes int
	Events      []model.FixedEvent
	WeekendOK   bool
	Missed      []model.Interval
	// EarliestAllowed blocks slots starting before it when non-nil.
	EarliestAllowed *time.Time
}

// BlockedMask returns one flag per slot. A slot is blocked when it starts
// before EarliestAllowed, its span intersects a fixed event or a missed
// interval, or it is on a weekend that is not allowed.
func BlockedMask(in Input) []bool {
	mask := make([]bool, len(in.Slots))
	orInto(mask, BeforeMask(in.Slots, in.EarliestAllowed))
	orInto(mask, IntervalMask(in.Slots, in.SlotMinutes, eventIntervals(in.Events)))
	if !in.WeekendOK {
		orInto(mask, WeekendMask(in.Slots))
	}
	orInto(mask, IntervalMask(in.Slots, in.SlotMinutes, in.Missed))
	return mask
}

// BeforeMask flags slots starting before cutoff.
func BeforeMask(slots []model.Slot, cutoff *time.Time) []bool {
	mask := make([]bool, len(slots))
	if cutoff == nil {
		return mask
	}
	for i, s := range slots {
		mask[i] = s.Start.Before(*cutoff)
	}
	return mask
}

// WeekendMask flags Saturday and Sunday slots.
func WeekendMask(slots []model.Slot) []bool {
	mask := make([]bool, len(slots))
	for i, s := range slots {
		mask[i] = s.Weekend
	}
	return mask
}

// IntervalMask flags slots whose span [start, start+slot) intersects any
// interval.
func IntervalMask(slots []model.Slot, slotMinutes int, ivs []model.Interval) []bool {
	mask := make([]bool, len(slots))
	if len(ivs) == 0 {
		return mask
	}
	d := time.Duration(slotMinutes) * time.Minute
	for i, s := range slots {
		span := model.Interval{Start: s.Start, End: s.Start.Add(d)}
		for _, iv := range ivs {
			if span.Overlaps(iv) {
				mask[i] = true
				break
			}
		}
	}
	return mask
}

func eventIntervals(events []model.FixedEvent) []model.Interval {
	out := make([]model.Interval, len(events))
	for i, e := range events {
		out[i] = e.Interval()
	}
	return out
}

func orInto(dst, src []bool) {
	for i := range dst {
		dst[i] = dst[i] || src[i]
	}
}
