// Package main provides the entry point for the batchq CLI tool (batchqctl).
//
// The CLI covers two workflows against a batchq gateway:
//   - Submission: send and bench go through the batching library itself, so
//     CLI traffic coalesces exactly like application traffic does
//   - Inspection: health, destinations, and stats query the gateway's
//     management endpoints, with watch mode for live monitoring
//
// INITIALIZATION FLOW:
// 1. Command structure setup with flag configuration
// 2. Handler assignment linking commands to their operations
// 3. Global flag validation through the pre-run pipeline
// 4. Command execution with proper error handling and exit codes
package main

import (
	"os"

	"github.com/concave-dev/batchq/cmd/batchqctl/commands"
	"github.com/concave-dev/batchq/cmd/batchqctl/config"
	"github.com/concave-dev/batchq/cmd/batchqctl/handlers"
	"github.com/spf13/cobra"
)

func init() {
	// Get root command from commands package
	rootCmd := commands.RootCmd

	// Set version and validation
	rootCmd.Version = config.Version
	rootCmd.PersistentPreRunE = config.ValidateGlobalFlags

	// Setup all command structures
	commands.SetupCommands()

	// Setup global flags
	commands.SetupGlobalFlags(rootCmd, &config.Global.APIAddr, &config.Global.LogLevel,
		&config.Global.Timeout, &config.Global.Verbose, &config.Global.Output, config.DefaultAPIAddr)

	// Setup command-specific flags
	sendCmd := commands.GetSendCommand()
	benchCmd := commands.GetBenchCommand()
	healthCmd, destinationsCmd, statsCmd := commands.GetGatewayCommands()
	setupSendFlags(sendCmd)
	setupBenchFlags(benchCmd)
	setupGatewayFlags(destinationsCmd, statsCmd)

	// Setup command handlers
	sendCmd.RunE = handlers.HandleSend
	benchCmd.RunE = handlers.HandleBench
	healthCmd.RunE = handlers.HandleHealth
	destinationsCmd.RunE = handlers.HandleDestinations
	statsCmd.RunE = handlers.HandleStats
}

// setupSendFlags configures flags for the send command
func setupSendFlags(sendCmd *cobra.Command) {
	sendCmd.Flags().StringVar(&config.Send.Destination, "dest", "",
		"Destination path to send items to (e.g., /save)")
	sendCmd.Flags().StringArrayVar(&config.Send.Items, "item", nil,
		"Item payload as comma-separated key=value pairs (repeatable)")
	sendCmd.Flags().StringVar(&config.Send.Codec, "codec", "json",
		"Batch wire encoding: json, legacy")
	sendCmd.MarkFlagRequired("dest")
	sendCmd.MarkFlagRequired("item")
}

// setupBenchFlags configures flags for the bench command
func setupBenchFlags(benchCmd *cobra.Command) {
	benchCmd.Flags().StringVar(&config.Bench.Destination, "dest", "",
		"Destination path to benchmark against (e.g., /echo)")
	benchCmd.Flags().IntVar(&config.Bench.Count, "count", 100,
		"Total number of items to enqueue")
	benchCmd.Flags().IntVar(&config.Bench.Workers, "workers", 4,
		"Concurrent enqueueing workers")
	benchCmd.MarkFlagRequired("dest")
}

// setupGatewayFlags configures flags for the gateway query commands
func setupGatewayFlags(destinationsCmd, statsCmd *cobra.Command) {
	destinationsCmd.Flags().BoolVarP(&config.Gateway.Watch, "watch", "w", false,
		"Watch for live updates")
	statsCmd.Flags().BoolVarP(&config.Gateway.Watch, "watch", "w", false,
		"Watch for live updates")
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
