// Package logging provides centralized log level validation for batchq.
//
// This file defines the canonical set of valid log levels used across the
// gateway daemon configuration, the HTTP transport, and the CLI. Centralizing
// validation ensures consistency and makes it easy to add new log levels
// without updating multiple files.
//
// SUPPORTED LOG LEVELS:
//   - DEBUG: Detailed debugging information for development and troubleshooting
//   - INFO:  General operational information about system activities
//   - WARN:  Warning conditions that should be noted but don't stop operation
//   - ERROR: Error conditions that indicate problems requiring attention
//
// All log level strings are case-sensitive and must be uppercase to maintain
// consistency with the logging system's internal level handling.
package logging

import "fmt"

// ValidLogLevels defines the canonical set of supported log levels. This map
// serves as the single source of truth for log level validation in daemon
// configs and CLI flag processing.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel checks if the provided log level string is supported.
// Returns true for valid levels, false otherwise.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel validates a log level string and returns an error if
// invalid. Provides a standardized validation function that all config
// packages can use for consistent error messages.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}
