// Package commands provides the send command definition for batchqctl.
//
// SEND COMMAND:
//   - send: enqueue one or more items to a destination through the batching
//     library and print each item's result in enqueue order
//
// Because send uses the library's Registry, every --item rides in the same
// coalesced batch: one network call reaches the gateway no matter how many
// items are given.

package commands

import (
	"github.com/spf13/cobra"
)

// Send command (batch submission)
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send items to a destination in one coalesced batch",
	Long: `Send one or more items to a batch destination.

Items are enqueued through the batching library and coalesce into a single
network call. Results are printed in enqueue order; an item whose handler
failed shows the gateway's error object at its position.`,
	Example: `  # Send a single item
  batchqctl send --dest=/echo --item=msg=hello

  # Send three items in one batch
  batchqctl send --dest=/save --item=name=alpha --item=name=beta --item=name=gamma

  # Multi-field payloads use comma-separated pairs
  batchqctl send --dest=/save --item=name=alpha,env=prod

  # Use the legacy wire encoding
  batchqctl send --dest=/echo --item=msg=hello --codec=legacy`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// GetSendCommand returns the send command for handler assignment
func GetSendCommand() *cobra.Command {
	return sendCmd
}
