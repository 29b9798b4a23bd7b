package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a service wraps exactly one of these
// so the transport layer can map it with errors.Is.
var (
	ErrValidation      = errors.New("invalid inputs passed, please check your data")
	ErrUnauthenticated = errors.New("authentication failed")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrGeocoding       = errors.New("could not find location for the specified address")
	ErrTransaction     = errors.New("transaction failed")
	ErrStorage         = errors.New("storage failure")
	ErrSigning         = errors.New("token signing failed")
)

var (
	ErrPlaceNotFound      = fmt.Errorf("place %w", ErrNotFound)
	ErrPlacesNotFound     = fmt.Errorf("places for user %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrCreatorNotFound    = fmt.Errorf("creator %w", ErrNotFound)
	ErrUserExists         = fmt.Errorf("user %w, please login instead", ErrDuplicate)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IsKnown reports whether err already carries one of the domain error kinds.
func IsKnown(err error) bool {
	for _, kind := range []error{
		ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound,
		ErrDuplicate, ErrGeocoding, ErrTransaction, ErrStorage, ErrSigning,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
