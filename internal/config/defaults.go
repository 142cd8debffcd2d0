// Package config provides common default configuration values shared across
// batchq components (library transport, gateway daemon, CLI). This
// centralizes configuration management and ensures the two binaries agree on
// defaults.
package config

const (
	// DefaultBindAddr is the default bind address for the gateway server
	// Using 0.0.0.0 allows binding to all available network interfaces
	DefaultBindAddr = "0.0.0.0"

	// DefaultAPIPort is the default port for the gateway HTTP server
	DefaultAPIPort = 8418

	// DefaultLogLevel is the default log level for all components
	// INFO provides good balance of visibility without verbose debug output
	DefaultLogLevel = "INFO"

	// DefaultMaxBatchItems caps how many items the gateway accepts in one
	// batch envelope. Oversized batches are rejected with 413 rather than
	// processed, keeping a runaway client from monopolizing a worker.
	DefaultMaxBatchItems = 1000
)
