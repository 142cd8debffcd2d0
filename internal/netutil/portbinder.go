// Package netutil provides network utilities for the batchq gateway.
//
// This file implements port binding and socket management utilities that
// eliminate race conditions in gateway startup. The core functionality
// centers around pre-binding network listeners to truly reserve ports before
// passing them to the HTTP server, preventing "test-and-close" race windows
// between port discovery and actual binding.
//
// Key capabilities:
//   - Atomic port reservation through pre-binding
//   - Automatic fallback to the next free port for local development
//   - IPv4-specific binding for consistent cross-platform behavior
package netutil

import (
	"errors"
	"fmt"
	"net"
)

// AddressInUseError represents a "port already in use" error that preserves
// the original error for proper type checking while providing user-friendly
// messages.
type AddressInUseError struct {
	Port    int
	Address string
	Err     error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use on %s", e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}

// PortBinder provides utilities for pre-binding network listeners to
// eliminate port allocation race conditions during gateway startup.
//
// The core problem this solves: "find free port + close + bind later"
// patterns have a window where another process can claim the port between
// discovery and actual binding. PortBinder binds immediately and hands the
// held listener to the server.
type PortBinder struct{}

// NewPortBinder creates a new PortBinder instance for managing port
// reservations.
func NewPortBinder() *PortBinder {
	return &PortBinder{}
}

// BindTCP creates and binds a TCP listener to the specified address,
// immediately reserving the port for exclusive use by this process. Returns
// the bound listener that can be passed directly to the HTTP server.
//
// Forces IPv4 binding for consistent behavior across platforms and to avoid
// dual-stack complications.
func (pb *PortBinder) BindTCP(address string, port int) (net.Listener, error) {
	addr := fmt.Sprintf("%s:%d", address, port)

	// Force IPv4 for consistent behavior across platforms
	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			// Return a wrapped error that preserves the original for type checking
			return nil, &AddressInUseError{
				Port:    port,
				Address: address,
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}

	return listener, nil
}

// BindTCPWithFallback attempts to bind to the preferred port, but if that
// fails with "address in use", it automatically searches for the next
// available port starting from the preferred port. Returns both the listener
// and the actual port that was bound.
//
// Useful for development and testing scenarios where multiple gateway
// instances run on the same host. The search is bounded to prevent infinite
// loops when many consecutive ports are occupied.
func (pb *PortBinder) BindTCPWithFallback(address string, preferredPort int) (net.Listener, int, error) {
	return pb.BindTCPWithFallbackAndLimit(address, preferredPort, DefaultMaxPortAttempts)
}

// DefaultMaxPortAttempts bounds the fallback port search when no explicit
// limit is configured.
const DefaultMaxPortAttempts = 100

// BindTCPWithFallbackAndLimit is BindTCPWithFallback with a caller-supplied
// bound on the number of ports tried, as configured through the MAX_PORTS
// environment variable.
func (pb *PortBinder) BindTCPWithFallbackAndLimit(address string, preferredPort, maxAttempts int) (net.Listener, int, error) {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxPortAttempts
	}

	for port := preferredPort; port < preferredPort+maxAttempts && port <= 65535; port++ {
		listener, err := pb.BindTCP(address, port)
		if err != nil {
			var addrInUseErr *AddressInUseError
			if errors.As(err, &addrInUseErr) {
				// Port is busy, try next port
				continue
			}
			// Some other error (permission, invalid address, etc.)
			return nil, 0, fmt.Errorf("failed to bind TCP starting from port %d: %w", preferredPort, err)
		}

		return listener, port, nil
	}

	return nil, 0, fmt.Errorf("no available TCP port found in range %d-%d on %s",
		preferredPort, preferredPort+maxAttempts-1, address)
}

// GetListenerPort extracts the port number from a bound net.Listener.
// Useful for discovering the actual port when fallback binding picked a
// different port than the preferred one, or in tests that bind port 0.
func (pb *PortBinder) GetListenerPort(listener net.Listener) (int, error) {
	addr := listener.Addr()
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("listener is not a TCP listener: %T", addr)
	}

	return tcpAddr.Port, nil
}
