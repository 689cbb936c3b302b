// Package errs holds the sentinel errors shared by repositories, services and the HTTP layer.
package errs

import "errors"

var (
	// ErrValidation: required field missing or malformed.
	ErrValidation = errors.New("validation")

	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers bad credentials and missing or invalid tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited means the (username, client) pair is locked out of signin for now.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists is a unique constraint conflict such as a taken username.
	ErrAlreadyExists = errors.New("already exists")
)
