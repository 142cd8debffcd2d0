// Package config provides configuration management for the batchqctl CLI.
package config

import "github.com/concave-dev/batchq/internal/version"

const (
	DefaultAPIAddr = "127.0.0.1:8418" // Default gateway API address (routable)
)

// Version returns the current batchqctl CLI version from the centralized version package
var Version = version.BatchqctlVersion

// Global holds the global CLI configuration
var Global struct {
	APIAddr  string // Address of the batchq gateway to connect to
	LogLevel string // Log level for CLI operations
	Timeout  int    // Connection timeout in seconds
	Verbose  bool   // Show verbose output
	Output   string // Output format: table, json
}

// Send holds the send command configuration
var Send struct {
	Destination string   // Destination path to enqueue items to
	Items       []string // Item payloads as comma-separated key=value pairs
	Codec       string   // Batch codec: json or legacy
}

// Bench holds the bench command configuration
var Bench struct {
	Destination string // Destination path to benchmark against
	Count       int    // Total number of items to enqueue
	Workers     int    // Concurrent enqueueing goroutines
}

// Gateway holds the gateway query command configuration
var Gateway struct {
	Watch bool // Enable watch mode for live updates
}
