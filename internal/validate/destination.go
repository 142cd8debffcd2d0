// Package validate provides input validation for batchq, keeping destination
// paths and instance names well-formed across the library, the gateway, and
// the CLI.
//
// VALIDATION COVERAGE:
//   - Destination Paths: Format validation for batch destination routes
//   - Instance Names: Format validation for gateway instance identifiers
//   - Network Addresses: IP and port validation for bind/connect endpoints
//
// Destination validation matters doubly here: the same string is both the
// queue key on the client side and the mounted route on the gateway side,
// so a malformed destination would silently create a queue that can never
// be served.

package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var destinationSegmentRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// DestinationFormat validates a batch destination path. Destinations must
// start with "/" and consist of one or more segments of [a-z0-9_-] separated
// by single slashes, e.g. "/save" or "/v2/records".
//
// The rules keep destinations usable verbatim as HTTP route paths and as
// map keys without any normalization step in between.
func DestinationFormat(destination string) error {
	if destination == "" {
		return fmt.Errorf("destination cannot be empty")
	}
	if !strings.HasPrefix(destination, "/") {
		return fmt.Errorf("destination '%s' must start with '/'", destination)
	}
	if strings.HasSuffix(destination, "/") {
		return fmt.Errorf("destination '%s' cannot end with '/'", destination)
	}

	for _, segment := range strings.Split(destination[1:], "/") {
		if segment == "" {
			return fmt.Errorf("destination '%s' cannot contain empty path segments", destination)
		}
		if !destinationSegmentRegex.MatchString(segment) {
			return fmt.Errorf("destination '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), underscores (_), and '/' separators", destination)
		}
	}

	return nil
}

// InstanceNameFormat validates gateway instance names. Ensures names contain
// only [a-z0-9_-] and don't start or end with special characters, so they
// stay safe to use in logs, file paths, and HTTP responses.
func InstanceNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}

	validNameRegex := regexp.MustCompile(`^[a-z0-9_-]+$`)
	if !validNameRegex.MatchString(name) {
		return fmt.Errorf("instance name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("instance name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}

	return nil
}
