// Package commands contains Cobra CLI command definitions for batchqd.
package commands

import (
	"github.com/concave-dev/batchq/cmd/batchqd/config"
	configDefaults "github.com/concave-dev/batchq/internal/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	// API flags
	cmd.Flags().StringVar(&config.Global.APIAddr, "api", config.DefaultAPI,
		"Address and port for the batch HTTP API (e.g., "+config.DefaultAPI+")\n"+
			"If not specified, defaults to "+config.DefaultAPI)

	// Batch flags
	cmd.Flags().IntVar(&config.Global.MaxBatchItems, "max-batch-items", configDefaults.DefaultMaxBatchItems,
		"Maximum items accepted in one batch envelope (0 disables the cap)\n"+
			"Oversized batches are rejected with 413 before any item is processed")

	// Operational flags
	cmd.Flags().StringVar(&config.Global.InstanceName, "name", "",
		"Instance name (defaults to generated name like 'swift-conveyor')")
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", config.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Write logs to a file instead of the terminal (e.g., /var/log/batchqd.log)")
}

// CheckExplicitFlags checks if flags were explicitly set by the user
func CheckExplicitFlags(cmd *cobra.Command) {
	config.Global.SetExplicitlySet(config.APIAddrField, cmd.Flags().Changed("api"))
	config.Global.SetExplicitlySet(config.LogFileField, cmd.Flags().Changed("log-file"))
	config.Global.SetExplicitlySet(config.MaxBatchItemsField, cmd.Flags().Changed("max-batch-items"))
}
