package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate
// them to HTTP statuses with errors.Is, so every service error wraps one
// of these with %w.
var (
	// ErrValidation marks a missing or empty required field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an absent referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks a mutation attempted by a user who does not own the record.
	ErrUnauthorized = errors.New("unauthorized")
)
