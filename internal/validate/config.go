// Package validate provides configuration validation utilities for batchq
// components.
//
// This file implements common validation patterns used across the config
// packages to ensure consistency and reduce duplication. All functions
// leverage the go-playground/validator library for standardized validation
// behavior.
//
// VALIDATION UTILITIES:
//   - Port validation: Standard port range checking (1-65535)
//   - String validation: Required field and non-empty string checking
//   - Timeout validation: Positive duration validation for timeouts
//   - Count validation: Positive integer checking for sizes and limits
//
// These utilities replace manual validation code scattered across config
// packages with centralized, consistent validation using the validator
// library's built-in tags and error handling.
package validate

import (
	"fmt"
	"time"
)

// ValidatePortRange validates that a port number is within the valid range
// (1-65535). Uses the validator library for consistent error handling.
//
// Rejects port 0 (OS-assigned) since the gateway needs a predictable address
// that clients can be pointed at.
func ValidatePortRange(port int) error {
	return ValidateField(port, "required,min=1,max=65535")
}

// ValidateRequiredString validates that a string field is not empty.
// Used across config validation so required fields like bind addresses and
// base URLs fail fast instead of surfacing as confusing runtime errors.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive.
// A zero or negative timeout would make the HTTP transport either hang
// forever or fail every request immediately.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidatePositiveCount validates that a count or size setting is positive.
// Used for batch item caps, bench counts, and similar knobs where zero
// would disable the feature by accident.
func ValidatePositiveCount(value int, name string) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, value)
	}
	return nil
}
