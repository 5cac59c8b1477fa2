package repository

import "errors"

var (
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")

	// ErrVersionConflict is returned by GameRepository.Save when the stored
	// game changed since it was loaded
	ErrVersionConflict = errors.New("game was modified concurrently")
)
