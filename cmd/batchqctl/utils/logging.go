// Package utils provides utility functions for the batchqctl CLI.
// This file contains logging setup and Resty logger integration utilities.
package utils

import (
	"os"

	"github.com/concave-dev/batchq/cmd/batchqctl/config"
	"github.com/concave-dev/batchq/internal/logging"
)

// RestyLogger implements resty.Logger interface and routes logs through structured logging
type RestyLogger struct{}

// Errorf routes error messages through structured logging.
func (s RestyLogger) Errorf(format string, v ...interface{}) {
	logging.Error(format, v...)
}

// Warnf routes warning messages through structured logging.
func (s RestyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn(format, v...)
}

// Debugf routes debug messages through structured logging.
func (s RestyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug(format, v...)
}

// SetupLogging configures CLI logging behavior based on environment and config.
// Enables debug output when DEBUG=true, otherwise suppresses verbose logs so
// command output stays clean enough to pipe.
func SetupLogging() {
	// Check for DEBUG environment variable for debug logging
	if os.Getenv("DEBUG") == "true" {
		// Show debug output - restore normal logging and enable DEBUG level
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
	} else {
		// Configure our application logging level first
		logging.SetLevel(config.Global.LogLevel)
		// Suppress debug/info logs by default (only show errors)
		logging.SuppressOutput()
	}
}
