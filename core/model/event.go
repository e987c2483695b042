package model

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Validate rejects empty or inverted intervals.
func (iv Interval) Validate() error {
	if !iv.End.After(iv.Start) {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval, iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t lies in [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Overlaps reports whether the two half-open intervals intersect.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// Overlap returns the length of the intersection with o.
func (iv Interval) Overlap(o Interval) time.Duration {
	start := iv.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := iv.End
	if o.End.Before(end) {
		end = o.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// FixedEvent is an immovable commitment. It is never moved by the optimizer
// and only ever blocks the slots it covers.
type FixedEvent struct {
	ID    string    `json:"id" yaml:"id" validate:"required"`
	Label string    `json:"label" yaml:"label"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Interval returns the event span.
func (e FixedEvent) Interval() Interval { return Interval{Start: e.Start, End: e.End} }
