package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")

	ErrTenantNotFound         = errors.New("tenant not found")
	ErrTenantInactive         = errors.New("tenant inactive")
	ErrUnknownType            = errors.New("unknown entity type")
	ErrCrossTenantReference   = errors.New("cross-tenant reference")
	ErrDuplicateSlug          = errors.New("duplicate tenant slug")
	ErrDuplicateConnection    = errors.New("duplicate connection")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrQuotaExceeded          = errors.New("quota exceeded")
	ErrNotAuthenticated       = errors.New("not authenticated")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// QuotaExceededError reports a quota check failure with the numbers that
// caused it. It unwraps to ErrQuotaExceeded.
type QuotaExceededError struct {
	Metric  string
	Current int64
	Limit   int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %s at %d of %d", e.Metric, e.Current, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }
