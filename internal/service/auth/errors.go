package auth

import "errors"

var (
	// Unknown email and wrong password deliberately collapse into this one
	// error so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenGenerateFail = errors.New("failed to generate token")
	ErrUnexpected        = errors.New("unexpected error")

	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("expired token")
	ErrUnknownSubject = errors.New("token subject no longer exists")
)
