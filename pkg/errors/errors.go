package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages for errors.Is branching

var (
	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates missing or inconsistent configuration.
	// Raised before any network call is attempted; not recoverable at runtime.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnavailable indicates a dependency could not be reached
	ErrUnavailable = errors.New("unavailable")
)

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// ConfigurationError creates a configuration error naming the missing setting
func ConfigurationError(setting string) error {
	return fmt.Errorf("%s: %w", setting, ErrConfiguration)
}
