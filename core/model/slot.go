package model

import "time"

// Slot is one cell of the weekly grid.
type Slot struct {
	Index   int          `json:"index"`
	Start   time.Time    `json:"start"`
	Hour    int          `json:"hour"`
	Weekday time.Weekday `json:"weekday"`
	Weekend bool         `json:"weekend"`
	// Utility is the forecast base desirability in [0,1].
	Utility float64 `json:"utility"`
}

// NewSlot derives the calendar fields of a slot from its start.
func NewSlot(index int, start time.Time) Slot {
	wd := start.Weekday()
	return Slot{
		Index:   index,
		Start:   start,
		Hour:    start.Hour(),
		Weekday: wd,
		Weekend: IsWeekend(wd),
	}
}

// IsWeekend reports whether d is Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// Date identifies a calendar day in a slot's zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}
