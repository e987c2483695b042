package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/weekplan/core/model"
)

// naiveLayouts are accepted for timestamps without an offset. They are
// interpreted in the request timezone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// RequestFile is the on-disk form of a Request. Timestamps are RFC3339
// strings or naive local times.
type RequestFile struct {
	WeekStart       string            `json:"week_start" yaml:"week_start"`
	Preferences     model.Preferences `json:"preferences" yaml:"preferences"`
	FixedEvents     []EventFile       `json:"fixed_events" yaml:"fixed_events"`
	Tasks           []TaskFile        `json:"tasks" yaml:"tasks"`
	Missed          []IntervalFile    `json:"missed" yaml:"missed"`
	EarliestAllowed string            `json:"earliest_allowed" yaml:"earliest_allowed"`
}

// EventFile describes a fixed event.
type EventFile struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// TaskFile describes a task.
type TaskFile struct {
	ID            string  `json:"id" yaml:"id"`
	Label         string  `json:"label" yaml:"label"`
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours"`
	Priority      float64 `json:"priority" yaml:"priority"`
	Deadline      string  `json:"deadline" yaml:"deadline"`
	Category      string  `json:"category" yaml:"category"`
}

// IntervalFile describes a missed interval.
type IntervalFile struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// LoadRequest reads a JSON or YAML request file. Preferences absent from the
// file keep the values of defaults.
func LoadRequest(path string, defaults model.Preferences) (model.Request, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json":
	default:
		return model.Request{}, fmt.Errorf("unsupported request format: %s", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Request{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodeRequest(f, strings.TrimPrefix(ext, "."), defaults)
}

// DecodeRequest reads a request in the given format ("yaml" or "json").
func DecodeRequest(r io.Reader, format string, defaults model.Preferences) (model.Request, error) {
	rf := RequestFile{Preferences: defaults}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&rf); err != nil && err != io.EOF {
			return model.Request{}, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&rf); err != nil {
			return model.Request{}, err
		}
	default:
		return model.Request{}, fmt.Errorf("unsupported format: %s", format)
	}
	return rf.Request()
}

// Request converts the file form. Missing ids are filled with random UUIDs.
func (rf RequestFile) Request() (model.Request, error) {
	if err := rf.Preferences.Validate(); err != nil {
		return model.Request{}, err
	}
	loc, err := rf.Preferences.Location()
	if err != nil {
		return model.Request{}, err
	}
	req := model.Request{Preferences: rf.Preferences}
	if req.WeekStart, err = ParseTime(rf.WeekStart, loc); err != nil {
		return model.Request{}, fmt.Errorf("week_start: %w", err)
	}

	for i, ev := range rf.FixedEvents {
		out := model.FixedEvent{ID: ev.ID, Label: ev.Label}
		if out.ID == "" {
			out.ID = uuid.NewString()
		}
		if out.Start, err = ParseTime(ev.Start, loc); err != nil {
			return model.Request{}, fmt.Errorf("fixed_events[%d].start: %w", i, err)
		}
		if out.End, err = ParseTime(ev.End, loc); err != nil {
			return model.Request{}, fmt.Errorf("fixed_events[%d].end: %w", i, err)
		}
		req.FixedEvents = append(req.FixedEvents, out)
	}

	for i, t := range rf.Tasks {
		out := model.Task{ID: t.ID, Label: t.Label, DurationHours: t.DurationHours, Priority: t.Priority}
		if out.ID == "" {
			out.ID = uuid.NewString()
		}
		if out.Category, err = model.ParseTaskCategory(t.Category); err != nil {
			return model.Request{}, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		if t.Deadline != "" {
			d, err := ParseTime(t.Deadline, loc)
			if err != nil {
				return model.Request{}, fmt.Errorf("tasks[%d].deadline: %w", i, err)
			}
			out.Deadline = &d
		}
		req.Tasks = append(req.Tasks, out)
	}

	for i, iv := range rf.Missed {
		var out model.Interval
		if out.Start, err = ParseTime(iv.Start, loc); err != nil {
			return model.Request{}, fmt.Errorf("missed[%d].start: %w", i, err)
		}
		if out.End, err = ParseTime(iv.End, loc); err != nil {
			return model.Request{}, fmt.Errorf("missed[%d].end: %w", i, err)
		}
		req.Missed = append(req.Missed, out)
	}

	if rf.EarliestAllowed != "" {
		e, err := ParseTime(rf.EarliestAllowed, loc)
		if err != nil {
			return model.Request{}, fmt.Errorf("earliest_allowed: %w", err)
		}
		req.EarliestAllowed = &e
	}
	return req, nil
}

// ParseTime accepts RFC3339 or a naive layout. Naive values are read as wall
// clock in loc and need one.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", model.ErrValidation)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		switch {
		case loc != nil:
			t = t.In(loc)
		case t.Location() == time.Local:
			// time.Parse reuses Local when the offset matches it; pin the
			// offset so the value keeps an explicit zone.
			name, off := t.Zone()
			t = t.In(time.FixedZone(name, off))
		}
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, s); err != nil {
			continue
		}
		if loc == nil {
			return time.Time{}, fmt.Errorf("%w: %q", model.ErrMissingTimezone, s)
		}
		return time.ParseInLocation(layout, s, loc)
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse timestamp %q", model.ErrValidation, s)
}
