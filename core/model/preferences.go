package model

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// Preferences configure one planning run.
type Preferences struct {
	// Timezone is an IANA zone name. When set, slots are expressed in it.
	Timezone string `json:"timezone" yaml:"timezone"`
	// SlotMinutes is the grid granularity. It must divide a day.
	SlotMinutes int `json:"slot_minutes" yaml:"slot_minutes"`
	// MorningStartHour and MorningEndHour bound the preferred morning window (inclusive).
	MorningStartHour int `json:"morning_start_hour" yaml:"morning_start_hour"`
	MorningEndHour   int `json:"morning_end_hour" yaml:"morning_end_hour"`
	// AvoidAfterHour marks hours at or after it as late.
	AvoidAfterHour int  `json:"avoid_after_hour" yaml:"avoid_after_hour"`
	WeekendOK      bool `json:"weekend_ok" yaml:"weekend_ok"`
	// BufferMinutes is the minimum gap between two placed tasks.
	BufferMinutes int `json:"buffer_minutes" yaml:"buffer_minutes"`
	// MaxHoursPerDay caps scheduled time per calendar day. Zero disables the cap.
	MaxHoursPerDay float64 `json:"max_hours_per_day" yaml:"max_hours_per_day"`
}

// DefaultPreferences returns the defaults used when a request omits them.
func DefaultPreferences() Preferences {
	return Preferences{
		Timezone:         "America/New_York",
		SlotMinutes:      60,
		MorningStartHour: 8,
		MorningEndHour:   11,
		AvoidAfterHour:   20,
		WeekendOK:        false,
		BufferMinutes:    60,
		MaxHoursPerDay:   4,
	}
}

// Validate checks value ranges.
func (p Preferences) Validate() error {
	if p.SlotMinutes <= 0 || minutesPerDay%p.SlotMinutes != 0 {
		return fmt.Errorf("%w: slot_minutes %d must be positive and divide a day", ErrInvalidPreferences, p.SlotMinutes)
	}
	if p.MorningStartHour < 0 || p.MorningEndHour > 23 || p.MorningStartHour > p.MorningEndHour {
		return fmt.Errorf("%w: morning window %d-%d", ErrInvalidPreferences, p.MorningStartHour, p.MorningEndHour)
	}
	if p.AvoidAfterHour < 0 || p.AvoidAfterHour > 24 {
		return fmt.Errorf("%w: avoid_after_hour %d", ErrInvalidPreferences, p.AvoidAfterHour)
	}
	if p.BufferMinutes < 0 {
		return fmt.Errorf("%w: buffer_minutes %d", ErrInvalidPreferences, p.BufferMinutes)
	}
	if p.MaxHoursPerDay < 0 || p.MaxHoursPerDay > 24 {
		return fmt.Errorf("%w: max_hours_per_day %g", ErrInvalidPreferences, p.MaxHoursPerDay)
	}
	if _, err := p.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. It returns nil when no zone is configured.
func (p Preferences) Location() (*time.Location, error) {
	if p.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidPreferences, p.Timezone, err)
	}
	return loc, nil
}

// Slot returns the slot duration.
func (p Preferences) Slot() time.Duration {
	return time.Duration(p.SlotMinutes) * time.Minute
}

// Buffer returns the minimum gap between tasks.
func (p Preferences) Buffer() time.Duration {
	return time.Duration(p.BufferMinutes) * time.Minute
}

// MaxSlotsPerDay converts the daily cap into whole slots. It returns -1 when
// the cap is disabled.
func (p Preferences) MaxSlotsPerDay() int {
	if p.MaxHoursPerDay <= 0 || p.SlotMinutes <= 0 {
		return -1
	}
	return int(p.MaxHoursPerDay * 60 / float64(p.SlotMinutes))
}
