package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with configuration-oriented
// error formatting.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate performs validation on the provided struct and returns any validation errors.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		// Handle validation errors (field-specific errors)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		// Handle invalid validation errors (non-struct inputs, etc.)
		return err
	}
	return nil
}

// Validate checks cfg against the declared field rules and the
// observability section's own validation.
func Validate(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}
	return cfg.Observability.Validate()
}

// ValidationError wraps validation errors with better messages and structured field errors.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a validation error for a specific field.
// It includes the field name, error message, and the invalid value.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError creates a ValidationError from go-playground/validator errors.
// It converts the errors into a more user-friendly format with descriptive messages.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))

	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: getErrorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	if len(ve.Errors) == 1 {
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}
