package model

import (
	"errors"
	"fmt"
)

// Error categories. Every domain error unwraps to exactly one of these so the
// transport layer can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError is an expected outcome of an input or state check.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// Validationf builds an ad-hoc validation error.
func Validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

// Shared errors
var (
	ErrInvalidID       = newError(ErrValidation, "malformed identifier")
	ErrInvalidPage     = newError(ErrValidation, "page must be a positive integer")
	ErrInvalidPageSize = newError(ErrValidation, "limit is out of range")
	ErrUserNotFound    = newError(ErrNotFound, "user not found")
	ErrChannelNotFound = newError(ErrNotFound, "channel does not exist")
	ErrVideoNotFound   = newError(ErrNotFound, "video not found")
)
