// Package apperror holds the error classes shared by every domain package.
// Domain errors wrap one of these sentinels so transport layers can map them
// without knowing each package.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConstraint   = errors.New("constraint violation")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError describes malformed mutation input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RequireUser returns ErrUnauthorized when no user id was resolved for the request.
func RequireUser(userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}

	return nil
}
