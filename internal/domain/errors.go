package domain

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	// Keeping this sentinel in domain lets adapters map it consistently upward.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists signals a registration against an email that is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidToken is returned when a reset token matches no outstanding record.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidAttribute marks a directory call naming an unrecognized column.
	// This is a programmer error, never a user-facing condition.
	ErrInvalidAttribute = errors.New("invalid attribute")
	ErrInvalidInput     = errors.New("invalid input")
)
