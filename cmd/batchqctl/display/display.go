// Package display provides output formatting and display functions for
// batchqctl.
//
// All user-facing output goes through here: table output via text/tabwriter
// and JSON output with indentation, selected by the global --output flag.
// Display functions stay free of API logic; handlers fetch, display renders.
package display

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/concave-dev/batchq"
	"github.com/concave-dev/batchq/cmd/batchqctl/client"
	"github.com/concave-dev/batchq/cmd/batchqctl/config"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/dustin/go-humanize"
)

// SendResult pairs one sent item's position with its outcome for display.
type SendResult struct {
	Index  int             `json:"index"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		logging.Error("Failed to encode JSON: %v", err)
		fmt.Println("Error encoding JSON output")
	}
}

// DisplayHealth displays gateway health information in tabular or JSON format
func DisplayHealth(health *client.HealthInfo) {
	if config.Global.Output == "json" {
		printJSON(health)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Instance:\t%s\n", health.Instance)
	fmt.Fprintf(w, "Status:\t%s\n", health.Status)
	fmt.Fprintf(w, "Version:\t%s\n", health.Version)
	fmt.Fprintf(w, "Uptime:\t%s\n", health.Uptime)
	fmt.Fprintf(w, "Destinations:\t%d\n", health.Destinations)
	fmt.Fprintf(w, "Checked:\t%s\n", humanize.Time(health.Timestamp))
}

// DisplayDestinations displays registered destinations with their counters
func DisplayDestinations(destinations []client.DestinationInfo) {
	if len(destinations) == 0 {
		if config.Global.Output == "json" {
			fmt.Println("[]")
		} else {
			fmt.Println("No destinations registered")
		}
		return
	}

	if config.Global.Output == "json" {
		printJSON(destinations)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "PATH\tBATCHES\tITEMS\tERRORS")
	for _, dest := range destinations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			dest.Path,
			humanize.Comma(int64(dest.Batches)),
			humanize.Comma(int64(dest.Items)),
			humanize.Comma(int64(dest.Errors)))
	}
}

// DisplayStats displays gateway-wide batch statistics
func DisplayStats(stats *client.GatewayStats) {
	if config.Global.Output == "json" {
		printJSON(stats)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Instance:\t%s\n", stats.Instance)
	fmt.Fprintf(w, "Version:\t%s\n", stats.Version)
	fmt.Fprintf(w, "Started:\t%s\n", humanize.Time(stats.StartTime))
	fmt.Fprintf(w, "Uptime:\t%s\n", stats.Uptime)
	fmt.Fprintf(w, "Destinations:\t%d\n", stats.Destinations)
	fmt.Fprintf(w, "Batches:\t%s\n", humanize.Comma(int64(stats.Batches)))
	fmt.Fprintf(w, "Items:\t%s\n", humanize.Comma(int64(stats.Items)))
	fmt.Fprintf(w, "Item errors:\t%s\n", humanize.Comma(int64(stats.ItemErrors)))
}

// DisplaySendResults displays per-item outcomes of a send in enqueue order
func DisplaySendResults(destination string, results []SendResult) {
	if config.Global.Output == "json" {
		printJSON(results)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Destination:\t%s\n", destination)
	fmt.Fprintln(w, "#\tRESULT")
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(w, "%d\tERROR: %s\n", r.Index, r.Error)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\n", r.Index, string(r.Result))
	}
}

// DisplayBenchReport displays the coalescing outcome of a bench run
func DisplayBenchReport(destination string, stats batchq.QueueStats, failures int, elapsed time.Duration) {
	if config.Global.Output == "json" {
		printJSON(map[string]any{
			"destination": destination,
			"stats":       stats,
			"failures":    failures,
			"elapsed":     elapsed.String(),
		})
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	itemsPerBatch := float64(stats.Enqueued)
	if stats.BatchesSent > 0 {
		itemsPerBatch = float64(stats.Enqueued) / float64(stats.BatchesSent)
	}

	fmt.Fprintf(w, "Destination:\t%s\n", destination)
	fmt.Fprintf(w, "Elapsed:\t%s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Items enqueued:\t%s\n", humanize.Comma(int64(stats.Enqueued)))
	fmt.Fprintf(w, "Batches sent:\t%s\n", humanize.Comma(int64(stats.BatchesSent)))
	fmt.Fprintf(w, "Items per batch:\t%.1f\n", itemsPerBatch)
	fmt.Fprintf(w, "Largest batch:\t%d\n", stats.LargestBatch)
	fmt.Fprintf(w, "Results delivered:\t%s\n", humanize.Comma(int64(stats.ResultsDelivered)))
	fmt.Fprintf(w, "Items dropped:\t%s\n", humanize.Comma(int64(stats.ItemsDropped)))
	fmt.Fprintf(w, "Transport failures:\t%s\n", humanize.Comma(int64(stats.TransportFailures)))
	fmt.Fprintf(w, "Failed items:\t%d\n", failures)
}
