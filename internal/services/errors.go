package services

import "errors"

// Domain errors. Handlers match these with errors.Is and translate them
// into a flash message or an HTTP error page; raw datastore errors never
// cross the request boundary.
var (
	// ErrValidation means a required field was missing; nothing was persisted.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the principal lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials means login failed; which part was wrong is
	// deliberately not disclosed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken means the datastore reported a username uniqueness
	// conflict during account creation.
	ErrUsernameTaken = errors.New("username already exists")
)
