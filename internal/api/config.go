// Package api provides the HTTP batch gateway server configuration.
//
// This file defines configuration structures and validation logic for the
// gin server that receives batch envelopes, dispatches their items, and
// exposes the management endpoints. The configuration covers network
// binding, the batch size cap, and the wired collaborators (dispatcher,
// instance identity).
//
// Configuration validation ensures the dispatcher is wired and network
// settings are usable before the server attempts to bind, so configuration
// problems surface at startup rather than on the first request.
package api

import (
	"fmt"

	"github.com/concave-dev/batchq/internal/api/dispatch"
	configDefaults "github.com/concave-dev/batchq/internal/config"
	"github.com/concave-dev/batchq/internal/validate"
)

// Config holds all configuration parameters required for running the batch
// gateway HTTP server.
//
// The struct doubles as a dependency injection container: the dispatcher is
// constructed and populated by the daemon, then handed to the server here.
// This keeps route mounting decoupled from destination registration and
// makes the server testable with a throwaway dispatcher.
//
// TODO: Add support for TLS/HTTPS configuration (cert/key files)
// TODO: Add support for authentication middleware
type Config struct {
	BindAddr      string               // HTTP server bind address (e.g., "0.0.0.0")
	BindPort      int                  // HTTP server bind port
	MaxBatchItems int                  // Per-request item cap (413 when exceeded, 0 disables)
	InstanceName  string               // Gateway instance name reported by health/stats
	Version       string               // Gateway version reported by health/stats
	Dispatcher    *dispatch.Dispatcher // Destination registry; must be populated before Start
}

// DefaultConfig creates a Config with defaults for local development.
// Binds loopback for safety; the daemon overrides this from its flags.
// The Dispatcher must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:      "127.0.0.1",
		BindPort:      configDefaults.DefaultAPIPort,
		MaxBatchItems: configDefaults.DefaultMaxBatchItems,
		InstanceName:  "batchqd",
		Version:       "dev",
		Dispatcher:    nil, // Must be set by caller
	}
}

// Validate checks that the server can start successfully and operate
// correctly: valid binding parameters, a sensible item cap, and a wired
// dispatcher.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return fmt.Errorf("bind port validation failed: %w", err)
	}
	if c.MaxBatchItems < 0 {
		return fmt.Errorf("max batch items must be non-negative, got %d", c.MaxBatchItems)
	}
	if c.InstanceName != "" {
		if err := validate.InstanceNameFormat(c.InstanceName); err != nil {
			return fmt.Errorf("instance name validation failed: %w", err)
		}
	}
	if c.Dispatcher == nil {
		return fmt.Errorf("dispatcher cannot be nil")
	}

	return nil
}
