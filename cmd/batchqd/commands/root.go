// Package commands provides the CLI command structure for the batchq
// gateway daemon.
//
// The daemon uses a single root command with a small flag surface: the API
// bind address, the batch item cap, and operational settings (instance name,
// log level, log file). The pre-run pipeline checks explicit flags, wires
// log output, initializes configuration from the environment, and validates
// everything before the daemon starts serving batches.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/concave-dev/batchq/cmd/batchqd/config"
	"github.com/concave-dev/batchq/cmd/batchqd/daemon"
	"github.com/concave-dev/batchq/cmd/batchqd/utils"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/concave-dev/batchq/internal/version"
	"github.com/spf13/cobra"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists.
// Called during daemon shutdown to ensure proper cleanup.
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			// Log to stderr since we're cleaning up the log file
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// Root command for the batchq gateway daemon
var RootCmd = &cobra.Command{
	Use:   "batchqd",
	Short: "Batch gateway daemon for coalesced request processing",
	Long: `Batchq daemon (batchqd) serves batched requests over HTTP.

Clients coalesce many small requests into one envelope per destination; the
gateway decodes the envelope, processes every item in order, and replies with
one result array whose indexes mirror the request.`,
	Version:      version.BatchqdVersion,
	SilenceUsage: true, // Don't show usage on errors
	Example: `  # Start the gateway on the default port
  batchqd

  # Bind a specific interface and port
  batchqd --api=127.0.0.1:9000 --name=edge-gateway

  # Cap batches and log to a file
  batchqd --max-batch-items=200 --log-file=/var/log/batchqd.log`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Display logo first, before any validation or logging
		utils.DisplayLogo(version.BatchqdVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Check which flags were explicitly set by user
		CheckExplicitFlags(cmd)

		// Setup log file redirection if --log-file was specified
		if config.Global.IsExplicitlySet(config.LogFileField) && config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}

			// Redirect all logging to the file
			logging.SetOutput(logFileHandle)
		}

		// Configure logging level immediately after flags are parsed to
		// prevent INFO logs during config initialization when ERROR level
		// is requested
		logging.SetLevel(config.Global.LogLevel)
		// Initialize configuration from environment variables and defaults
		config.InitializeConfig()
		// Re-apply logging level after config initialization to pick up
		// any environment variable overrides
		logging.SetLevel(config.Global.LogLevel)
		// Validate configuration and ensure log file cleanup on failure
		if err := config.ValidateConfig(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ensure log file cleanup on exit
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	// Setup all flags
	SetupFlags(RootCmd)

	// Currently only has the root command
	// Future subcommands can be added here
}
