package optimizer

import (
	"fmt"

	"github.com/kilianp07/weekplan/core/model"
)

// Daily cap accounting modes.
const (
	// CapSlots counts the run slots a placement puts on each day.
	CapSlots = "slots"
	// CapPlacements counts each placement touching a day once.
	CapPlacements = "placements"
)

// CategoryProfile scales utility inside and outside an hour window.
type CategoryProfile struct {
	// WindowStart and WindowEnd are inclusive hours of day.
	WindowStart int     `json:"window_start"`
	WindowEnd   int     `json:"window_end"`
	Inside      float64 `json:"inside"`
	Outside     float64 `json:"outside"`
}

func (p CategoryProfile) factor(hour int) float64 {
	if hour >= p.WindowStart && hour <= p.WindowEnd {
		return p.Inside
	}
	return p.Outside
}

// Config controls model construction.
type Config struct {
	DailyCapMode string `json:"daily_cap_mode"`
	// Categories is keyed by category name. Missing categories are unadjusted.
	Categories map[string]CategoryProfile `json:"categories"`
}

// DefaultCategories returns the built-in profiles.
func DefaultCategories() map[string]CategoryProfile {
	return map[string]CategoryProfile{
		model.CategoryFocus.String():    {WindowStart: 8, WindowEnd: 17, Inside: 1, Outside: 0.85},
		model.CategoryExercise.String(): {WindowStart: 6, WindowEnd: 9, Inside: 1.3, Outside: 0.8},
	}
}

// SetDefaults fills missing values.
func (c *Config) SetDefaults() {
	if c.DailyCapMode == "" {
		c.DailyCapMode = CapSlots
	}
	if c.Categories == nil {
		c.Categories = DefaultCategories()
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.DailyCapMode {
	case CapSlots, CapPlacements:
	default:
		return fmt.Errorf("optimizer: unknown daily_cap_mode %q", c.DailyCapMode)
	}
	for name, p := range c.Categories {
		if _, err := model.ParseTaskCategory(name); err != nil {
			return fmt.Errorf("optimizer: %w", err)
		}
		if p.WindowStart < 0 || p.WindowEnd > 23 || p.WindowStart > p.WindowEnd {
			return fmt.Errorf("optimizer: category %s window %d-%d", name, p.WindowStart, p.WindowEnd)
		}
		if p.Inside < 0 || p.Outside < 0 {
			return fmt.Errorf("optimizer: category %s has a negative multiplier", name)
		}
	}
	return nil
}

// Adjust applies the category profile to a base utility and clips the
// result to [0,1].
func (c Config) Adjust(cat model.TaskCategory, hour int, u float64) float64 {
	p, ok := c.Categories[cat.String()]
	if !ok {
		return u
	}
	v := u * p.factor(hour)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
