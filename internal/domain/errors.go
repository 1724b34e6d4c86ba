package domain

import "errors"

var (
	// ErrNotFound is returned when a keyed lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")

	// ErrUnauthorized is returned when a session token resolves to no
	// user association.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionConflict is returned when more than one session is
	// associated with a single user. The unique constraint on
	// user_sessions makes this unreachable under normal operation.
	ErrSessionConflict = errors.New("multiple sessions associated with one user")

	// ErrTerminationFailed is returned when a session row is still
	// resolvable after its deletion was issued.
	ErrTerminationFailed = errors.New("session could not be terminated")
)
