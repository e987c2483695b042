package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskCategory selects the hour-of-day utility profile applied to a task.
type TaskCategory int

const (
	CategoryGeneral TaskCategory = iota
	CategoryFocus
	CategoryExercise
)

// String returns the lowercase name used in configuration and request files.
func (c TaskCategory) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryFocus:
		return "focus"
	case CategoryExercise:
		return "exercise"
	default:
		return "unknown"
	}
}

// ParseTaskCategory maps a name to its category. The empty string is general.
func ParseTaskCategory(s string) (TaskCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general":
		return CategoryGeneral, nil
	case "focus":
		return CategoryFocus, nil
	case "exercise":
		return CategoryExercise, nil
	default:
		return CategoryGeneral, fmt.Errorf("%w: unknown task category %q", ErrInvalidTask, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c TaskCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *TaskCategory) UnmarshalText(b []byte) error {
	v, err := ParseTaskCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Task is a movable, duration-bound activity.
type Task struct {
	ID            string       `json:"id" yaml:"id" validate:"required"`
	Label         string       `json:"label" yaml:"label"`
	DurationHours float64      `json:"duration_hours" yaml:"duration_hours" validate:"gt=0"`
	Priority      float64      `json:"priority" yaml:"priority" validate:"gt=0"`
	Deadline      *time.Time   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Category      TaskCategory `json:"category" yaml:"category"`
}

// RunSlots returns the number of whole slots the task occupies. Durations
// that are not a multiple of the slot length are truncated.
func (t Task) RunSlots(slotMinutes int) int {
	if slotMinutes <= 0 {
		return 0
	}
	return int(t.DurationHours * 60 / float64(slotMinutes))
}
