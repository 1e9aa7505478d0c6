package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation (e.g. duplicate email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller's role or ownership does not permit the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput indicates a malformed or out-of-range argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates the operation is illegal in the entity's current state.
	ErrConflict = errors.New("conflict")
)
