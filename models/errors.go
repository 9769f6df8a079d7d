package models

import "errors"

var (
	// Store errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInvalidStatus = errors.New("invalid task status")
)
