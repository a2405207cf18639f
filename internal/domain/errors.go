package domain

import "errors"

var (
	// ErrHabitNotFound indicates that the requested habit does not exist.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrRecordNotFound indicates that no completion record exists for the requested day.
	ErrRecordNotFound = errors.New("completion record not found")
	// ErrNotOwner indicates that the caller does not own the requested habit.
	ErrNotOwner = errors.New("not authorized to access this habit")
	// ErrInvalidDate indicates a malformed or future-dated day.
	ErrInvalidDate = errors.New("invalid date")
	// ErrValidation indicates missing or invalid habit fields.
	ErrValidation = errors.New("validation failed")
	// ErrStoreUnavailable indicates the record store could not be reached.
	// The core does not retry; retry policy belongs to the caller.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
