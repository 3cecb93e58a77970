package types

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	// Raised by the registration pre-check and by the store itself when a
	// concurrent registration wins the unique-index race.
	ErrEmailAlreadyExists = errors.New("email already in use")

	ErrNotFound = errors.New("requested item not found")
)
