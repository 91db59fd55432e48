package handlers

import (
	"github.com/go-playground/validator/v10"
)

// ValidationError is one field-level binding failure as returned to the page
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors flattens gin binding errors into field/message
// pairs. Non-validator errors (malformed JSON and the like) yield nil; the
// caller falls back to a generic envelope for those.
func ParseValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: messageForTag(fieldError),
			})
		}
	}

	return errors
}

// messageForTag covers the tags the request models bind; anything new falls
// through to the generic message.
func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
