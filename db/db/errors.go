package db

import "errors"

var (
	// ErrNotFound covers both absent records and records owned by another
	// tenant; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a unique-constraint violation (email, vehicle number).
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidInput signals a malformed or out-of-domain field.
	ErrInvalidInput = errors.New("invalid input")
)
