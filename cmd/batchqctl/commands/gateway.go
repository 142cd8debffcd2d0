// Package commands provides gateway query command definitions for batchqctl.
//
// GATEWAY COMMANDS:
//   - health: gateway liveness, version, uptime, and instance name
//   - destinations: registered destinations with per-destination counters
//   - stats: gateway-wide batch processing totals
//
// The destinations and stats commands support watch mode for live updates.

package commands

import (
	"github.com/spf13/cobra"
)

// Health command (gateway health check)
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show gateway health status",
	Long: `Show the gateway's health status including version, uptime, and
instance name.`,
	Example: `  # Check the local gateway
  batchqctl health

  # Check a remote gateway
  batchqctl --api=192.168.1.100:8418 health`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// Destinations command (destination listing)
var destinationsCmd = &cobra.Command{
	Use:   "destinations",
	Short: "List registered batch destinations",
	Long: `List every destination registered on the gateway with its counters:
batches processed, items dispatched, and items whose handler errored.`,
	Example: `  # List destinations
  batchqctl destinations

  # Watch destinations with live updates
  batchqctl destinations --watch

  # Output in JSON format
  batchqctl -o json destinations`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// Stats command (gateway statistics)
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show gateway-wide batch statistics",
	Long: `Show aggregate gateway statistics: total batches and items processed,
item-level handler errors, uptime, and destination count.`,
	Example: `  # Show statistics once
  batchqctl stats

  # Watch statistics with live updates
  batchqctl stats --watch`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// GetGatewayCommands returns the gateway query commands for handler assignment
func GetGatewayCommands() (health, destinations, stats *cobra.Command) {
	return healthCmd, destinationsCmd, statsCmd
}
