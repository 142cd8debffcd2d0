// Package config handles configuration validation for the batchq gateway
// daemon.
//
// Validation transforms raw CLI values into normalized forms ready for
// service startup: the API address is parsed into host and port, instance
// names are lowercased and format-checked (or generated when absent), and
// the batch item cap is range-checked. Catching misconfiguration here keeps
// binding failures and confusing runtime errors out of the daemon itself.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/concave-dev/batchq/internal/logging"
	"github.com/concave-dev/batchq/internal/names"
	"github.com/concave-dev/batchq/internal/validate"
)

// InitializeConfig initializes configuration from environment variables and
// defaults. Runs before validation so the validated state already reflects
// environment overrides.
func InitializeConfig() {
	// Initialize DEBUG environment variable override
	if os.Getenv("DEBUG") == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}

	// Initialize MaxPorts: default + environment variable override
	if Global.MaxPorts == 0 {
		Global.MaxPorts = 100
	}
	if maxPortsEnv := os.Getenv("MAX_PORTS"); maxPortsEnv != "" {
		if maxPorts, err := strconv.Atoi(maxPortsEnv); err == nil {
			Global.MaxPorts = maxPorts
			logging.Info("MAX_PORTS environment variable detected, setting max ports to %d", maxPorts)
		} else {
			logging.Warn("Invalid MAX_PORTS environment variable '%s', using default: %d", maxPortsEnv, Global.MaxPorts)
		}
	}
}

// ValidateConfig performs validation and normalization of all daemon
// configuration parameters before service startup.
//
// The API address is split into host and port, the instance name is
// normalized or generated, and the log level and batch cap are checked.
// Returns an error with descriptive context for any invalid value.
func ValidateConfig() error {
	if Global.MaxPorts < 1 || Global.MaxPorts > 10000 {
		logging.Error("Invalid max-ports value: %d (must be between 1 and 10000)", Global.MaxPorts)
		return fmt.Errorf("max-ports must be between 1 and 10000, got: %d", Global.MaxPorts)
	}

	// Parse and validate the API bind address in "host:port" form.
	netAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		logging.Error("Invalid API address '%s': %v", Global.APIAddr, err)
		return fmt.Errorf("invalid API address: %w", err)
	}

	// Port 0 would let the OS choose, which breaks client configuration:
	// callers point their transports at a known port.
	if err := validate.ValidateField(netAddr.Port, "required,min=1,max=65535"); err != nil {
		logging.Error("API port cannot be 0 (auto-assigned) - clients need a predictable port")
		return fmt.Errorf("daemon requires specific port (not 0): %w", err)
	}

	Global.APIAddr = netAddr.Host
	Global.APIPort = netAddr.Port

	// Instance names are validated if provided; generation fills the gap
	if Global.InstanceName != "" {
		originalName := Global.InstanceName
		Global.InstanceName = strings.ToLower(Global.InstanceName)
		if originalName != Global.InstanceName {
			logging.Warn("Instance name '%s' converted to lowercase: '%s'", originalName, Global.InstanceName)
		}

		if err := validate.InstanceNameFormat(Global.InstanceName); err != nil {
			logging.Error("Invalid instance name '%s': %v", Global.InstanceName, err)
			return fmt.Errorf("invalid instance name: %w", err)
		}
	} else {
		Global.InstanceName = names.Generate()
		logging.Info("Generated instance name: %s", Global.InstanceName)
	}

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	if Global.MaxBatchItems < 0 {
		logging.Error("Invalid max-batch-items value: %d (must be non-negative)", Global.MaxBatchItems)
		return fmt.Errorf("max-batch-items must be non-negative, got: %d", Global.MaxBatchItems)
	}

	return nil
}
