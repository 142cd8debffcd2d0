// Package logging provides ID formatting utilities for consistent ID display
// across all batchq logging contexts.
//
// Implements context-aware ID truncation: full IDs in debug logs for complete
// traceability, short 12-character IDs everywhere else for readability.
//
// USAGE PATTERNS:
//   - FormatRecordID: Format store record IDs for logging
//   - FormatID: Generic ID formatting for any resource type
package logging

import (
	"github.com/charmbracelet/log"
	"github.com/concave-dev/batchq/internal/utils"
)

// FormatID formats an ID for logging based on the current log level context.
// Returns the full ID when debug logging is enabled, a truncated
// 12-character ID otherwise.
func FormatID(id string) string {
	// If debug level is enabled, show full IDs for complete traceability
	// Use stderr logger since debug messages go to stderr
	if stderrLogger.GetLevel() <= log.DebugLevel {
		return id
	}

	return utils.TruncateIDSafe(id)
}

// FormatRecordID formats a store record ID for logging with context-aware
// truncation.
//
// Usage: logging.Info("Saved record %s", logging.FormatRecordID(recordID))
func FormatRecordID(recordID string) string {
	return FormatID(recordID)
}
