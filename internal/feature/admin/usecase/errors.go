package usecase

import "errors"

var (
	// ErrClientNotFound is returned when no user has the given id.
	ErrClientNotFound = errors.New("client not found")

	// ErrNotAClient is returned when the target user is not a client.
	ErrNotAClient = errors.New("user is not a client")

	// ErrClientAlreadyExists is returned when the email is taken.
	ErrClientAlreadyExists = errors.New("email already exists")

	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password too short")
)
