package model

import "errors"

// ErrValidation is the umbrella error for rejected planning inputs. All other
// validation errors wrap it.
var ErrValidation = errors.New("validation error")

var (
	// ErrMissingTimezone indicates a timestamp without an explicit zone.
	ErrMissingTimezone = wrapValidation("timestamp lacks timezone information")
	// ErrInvalidInterval indicates an interval whose end is not after its start.
	ErrInvalidInterval = wrapValidation("interval end must be after start")
	// ErrInvalidPreferences indicates out-of-range preference values.
	ErrInvalidPreferences = wrapValidation("invalid preferences")
	// ErrInvalidTask indicates a task with a non-positive duration or priority.
	ErrInvalidTask = wrapValidation("invalid task")
)

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func (e validationError) Unwrap() error { return ErrValidation }

func wrapValidation(msg string) error { return validationError{msg: msg} }
