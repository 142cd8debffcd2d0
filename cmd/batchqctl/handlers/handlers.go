// Package handlers provides command handler functions for batchqctl.
//
// The package contains all command execution logic, organized by concern:
// - handlers.go: gateway management queries (health, destinations, stats)
// - send.go: batch submission and benchmarking through the batchq library
//
// All handlers follow consistent patterns:
// - cobra.Command RunE function signature for CLI integration
// - Standardized error handling and logging using the logging package
// - Consistent output formatting through the display package
// - Clean separation between API communication and presentation logic
package handlers

import (
	"github.com/concave-dev/batchq/cmd/batchqctl/client"
	"github.com/concave-dev/batchq/cmd/batchqctl/config"
	"github.com/concave-dev/batchq/cmd/batchqctl/display"
	"github.com/concave-dev/batchq/cmd/batchqctl/utils"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/concave-dev/batchq/internal/netutil"
	"github.com/spf13/cobra"
)

// hintOnConnectionError adds actionable context when the gateway cannot be
// reached at all, which is the most common operator mistake.
func hintOnConnectionError(err error) {
	if netutil.IsConnectionRefusedError(err) {
		logging.Error("TIP: Check if the gateway is running at %s", config.Global.APIAddr)
		logging.Error("     Start one with: batchqd --api %s", config.Global.APIAddr)
	}
}

// HandleHealth processes the health command
func HandleHealth(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	logging.Info("Fetching gateway health from: %s", config.Global.APIAddr)

	apiClient := client.CreateAPIClient()
	health, err := apiClient.GetHealth()
	if err != nil {
		hintOnConnectionError(err)
		return err
	}

	display.DisplayHealth(health)
	logging.Success("Gateway %s is %s", health.Instance, health.Status)
	return nil
}

// HandleDestinations processes the destinations command with optional watch mode
func HandleDestinations(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	fetchAndDisplayDestinations := func() error {
		logging.Info("Fetching destinations from gateway: %s", config.Global.APIAddr)

		apiClient := client.CreateAPIClient()
		destinations, err := apiClient.GetDestinations()
		if err != nil {
			hintOnConnectionError(err)
			return err
		}

		display.DisplayDestinations(destinations)
		if !config.Gateway.Watch {
			logging.Success("Successfully retrieved %d destinations", len(destinations))
		}
		return nil
	}

	return utils.RunWithWatch(fetchAndDisplayDestinations, config.Gateway.Watch)
}

// HandleStats processes the stats command with optional watch mode
func HandleStats(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	fetchAndDisplayStats := func() error {
		logging.Info("Fetching statistics from gateway: %s", config.Global.APIAddr)

		apiClient := client.CreateAPIClient()
		stats, err := apiClient.GetStats()
		if err != nil {
			hintOnConnectionError(err)
			return err
		}

		display.DisplayStats(stats)
		return nil
	}

	return utils.RunWithWatch(fetchAndDisplayStats, config.Gateway.Watch)
}
