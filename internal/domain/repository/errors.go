package repository

import "errors"

var (
	// ErrNotFound is returned when a row does not exist (or is not visible to the caller).
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on unique violations.
	ErrConflict = errors.New("conflict")
	// ErrInUse is returned when a row cannot be removed because other rows reference it.
	ErrInUse = errors.New("in use")
)
