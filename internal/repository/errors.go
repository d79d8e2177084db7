package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when trying to create a user with an
	// existing username
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateRun is returned when a synced activity already has a run
	// for the same user
	ErrDuplicateRun = errors.New("run for this activity already exists")

	// ErrDuplicateToken is returned when trying to create a token with an
	// existing hash
	ErrDuplicateToken = errors.New("token with this hash already exists")
)
