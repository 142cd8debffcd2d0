// Package config provides configuration management for the batchq gateway
// daemon (batchqd).
//
// The daemon has a deliberately small configuration surface: one HTTP bind
// address for the batch API, an instance name for log and stats attribution,
// logging settings, and the per-request batch item cap. Values come from CLI
// flags with environment variable overrides applied during initialization.
//
// EXPLICIT OVERRIDE TRACKING:
// The configuration tracks which values were explicitly set by the user
// versus inherited from defaults. The daemon uses this to decide when port
// fallback is allowed: an explicitly requested port must bind exactly, while
// a defaulted port may fall forward to the next free one for friction-free
// local development.
package config

import (
	configDefaults "github.com/concave-dev/batchq/internal/config"
)

// ConfigField represents a configuration field that can be explicitly set
type ConfigField int

const (
	// Configuration field identifiers
	APIAddrField ConfigField = iota
	LogFileField
	MaxBatchItemsField
)

const (
	// DefaultAPI binds all interfaces so remote batching clients can reach
	// the gateway out of the box.
	// TODO: Add authentication/authorization before production use
	DefaultAPI      = configDefaults.DefaultBindAddr + ":8418" // Default API address
	DefaultLogLevel = configDefaults.DefaultLogLevel           // Default log level
)

// Config holds all daemon configuration values
type Config struct {
	APIAddr       string // HTTP API server address for batch ingestion
	APIPort       int    // HTTP API server port (derived from APIAddr)
	InstanceName  string // Name of this gateway instance
	LogLevel      string // Log level: DEBUG, INFO, WARN, ERROR
	LogFile       string // Log file path (empty = stderr/stdout)
	MaxBatchItems int    // Per-request batch item cap (0 disables)
	MaxPorts      int    // Maximum ports to try during port fallback

	// Flags to track if values were explicitly set by user
	apiAddrExplicitlySet       bool
	logFileExplicitlySet       bool
	maxBatchItemsExplicitlySet bool
}

// Global configuration instance
var Global Config

// SetExplicitlySet marks a configuration field as explicitly set by the user.
// Lets the daemon distinguish a requested port (must bind exactly) from a
// defaulted one (may fall forward to the next free port).
func (c *Config) SetExplicitlySet(field ConfigField, value bool) {
	switch field {
	case APIAddrField:
		c.apiAddrExplicitlySet = value
	case LogFileField:
		c.logFileExplicitlySet = value
	case MaxBatchItemsField:
		c.maxBatchItemsExplicitlySet = value
	}
}

// IsExplicitlySet returns whether a configuration field was explicitly set
// by the user.
func (c *Config) IsExplicitlySet(field ConfigField) bool {
	switch field {
	case APIAddrField:
		return c.apiAddrExplicitlySet
	case LogFileField:
		return c.logFileExplicitlySet
	case MaxBatchItemsField:
		return c.maxBatchItemsExplicitlySet
	}
	return false
}
