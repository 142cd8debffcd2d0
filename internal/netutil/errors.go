// Package netutil provides network utilities for the batchq gateway.
//
// This file implements unified network error checking for consistent error
// classification during gateway startup and client connections. Provides
// proper type-based error detection that works reliably across operating
// systems and Go versions, avoiding fragile string-based error matching.
//
// Key capabilities:
//   - Address-in-use detection for port binding conflicts
//   - Connection-refused detection for unreachable gateways
//   - Proper error unwrapping and type checking

package netutil

import (
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError checks if an error indicates "address already in use"
// using proper error type checking rather than string matching.
//
// Used by the gateway's port binding path to distinguish port conflicts
// (which trigger fallback to the next port) from other binding failures
// (which abort startup).
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// IsConnectionRefusedError checks if an error indicates "connection refused"
// using proper error type checking rather than string matching.
//
// Used by the CLI to turn a refused connection into a clear "is the gateway
// running?" message instead of a raw syscall error.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}
