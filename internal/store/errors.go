package store

import "errors"

var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
	// ErrSeatVacant is returned when a rower status is written to a seat
	// whose member has been cleared.
	ErrSeatVacant = errors.New("seat has no member")
)
