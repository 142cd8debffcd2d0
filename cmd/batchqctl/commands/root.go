// Package commands provides the complete command tree implementation for
// batchqctl.
//
// Commands are organized by what they touch on the gateway:
//   - send: enqueue items through the batching library and print results
//   - bench: drive load through the library and report coalescing behavior
//   - health / destinations / stats: query the gateway management endpoints
//
// All commands follow consistent patterns with standardized flag handling,
// error messages, and output formatting.
package commands

import (
	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "batchqctl",
	Short: "CLI tool for the batchq request batching gateway",
	Long: `Batchq CLI (batchqctl) sends batched requests to a batchq gateway
and inspects gateway state.

The send and bench commands go through the same batching library that
applications embed, so they exercise the real coalescing path: items to one
destination ride together in one network call and the ordered response is
demultiplexed back per item.`,
	SilenceUsage: true,
	Example: `  # Check gateway health
  batchqctl health

  # List registered destinations with their counters
  batchqctl destinations

  # Send three items to /save in one batch
  batchqctl send --dest=/save --item=name=alpha --item=name=beta --item=name=gamma

  # Benchmark coalescing behavior against /echo
  batchqctl bench --dest=/echo --count=500 --workers=8

  # Watch gateway statistics with live updates
  batchqctl stats --watch

  # Connect to a remote gateway
  batchqctl --api=192.168.1.100:8418 health

  # Output in JSON format
  batchqctl -o json destinations`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	// Add all top-level commands to root
	RootCmd.AddCommand(sendCmd)
	RootCmd.AddCommand(benchCmd)
	RootCmd.AddCommand(healthCmd)
	RootCmd.AddCommand(destinationsCmd)
	RootCmd.AddCommand(statsCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, apiAddrPtr *string, logLevelPtr *string,
	timeoutPtr *int, verbosePtr *bool, outputPtr *string, defaultAPIAddr string) {
	rootCmd.PersistentFlags().StringVar(apiAddrPtr, "api", defaultAPIAddr,
		"Gateway API address (host:port)")
	rootCmd.PersistentFlags().StringVar(logLevelPtr, "log-level", "ERROR",
		"Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().IntVar(timeoutPtr, "timeout", 8,
		"Connection timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
}
