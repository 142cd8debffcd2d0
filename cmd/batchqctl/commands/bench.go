// Package commands provides the bench command definition for batchqctl.
//
// BENCH COMMAND:
//   - bench: drive many items through the batching library concurrently and
//     report how well they coalesced (batches sent, largest batch, failures)

package commands

import (
	"github.com/spf13/cobra"
)

// Bench command (coalescing benchmark)
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark batching behavior against a destination",
	Long: `Enqueue many items to a destination from concurrent workers and report
the coalescing outcome: items sent, batches used, largest batch, and
failures.

Fewer batches than items means the queue is doing its job; the gateway sees
one request where a naive client would have sent hundreds.`,
	Example: `  # Default run: 100 items from 4 workers against /echo
  batchqctl bench --dest=/echo

  # Heavier load
  batchqctl bench --dest=/echo --count=1000 --workers=16

  # Exercise the failure path
  batchqctl bench --dest=/fail --count=50`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// GetBenchCommand returns the bench command for handler assignment
func GetBenchCommand() *cobra.Command {
	return benchCmd
}
