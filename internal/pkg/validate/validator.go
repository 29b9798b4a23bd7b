// Package validate wraps go-playground/validator so every layer reports
// rejected input the same way.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sharedplaces/places-api/internal/core/domain"
)

// Validator satisfies both echo.Validator and ports.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator ready to be assigned to echo.Echo.Validator.
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns a *domain.ValidationError listing every rejected field.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldError(fe),
		})
	}
	return out
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
