// Package main provides the entry point for the batchq gateway daemon
// (batchqd).
//
// Batchqd serves coalesced request batches over HTTP: clients gather many
// small requests into one envelope per destination, the gateway decodes the
// envelope, dispatches every item in order, and replies with one ordered
// result array. Management endpoints expose health, registered destinations,
// and processing statistics.
//
// INITIALIZATION FLOW:
// 1. Command and flag setup through the commands package
// 2. Pre-run validation pipeline (flags, environment, address parsing)
// 3. Daemon startup with atomic API port binding
// 4. Signal-driven graceful shutdown
package main

import (
	"os"

	"github.com/concave-dev/batchq/cmd/batchqd/commands"
)

func init() {
	// Setup all command structures
	commands.SetupCommands()
}

// main is the main entry point
func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
