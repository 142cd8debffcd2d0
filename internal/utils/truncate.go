// Package utils provides common utility functions for batchq components.
//
// This file implements safe ID truncation used by logging and display code
// to shorten long identifiers without panicking on inputs that are already
// short.

package utils

// TruncateIDLength is the display length for shortened identifiers,
// matching the length GenerateID produces.
const TruncateIDLength = 12

// TruncateIDSafe shortens an ID to TruncateIDLength characters for display.
// IDs at or under the limit come back unchanged, so the function is safe to
// call on any identifier regardless of origin.
func TruncateIDSafe(id string) string {
	if len(id) <= TruncateIDLength {
		return id
	}
	return id[:TruncateIDLength]
}
