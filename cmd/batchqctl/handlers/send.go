// Package handlers provides batch submission handlers for batchqctl.
//
// The send and bench commands construct a real library Registry with an
// HTTPTransport aimed at the gateway, which means they exercise the exact
// code path an embedding application would: items coalesce per destination,
// one envelope goes over the wire, and the ordered response resolves each
// item's receipt.
package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/concave-dev/batchq"
	"github.com/concave-dev/batchq/cmd/batchqctl/client"
	"github.com/concave-dev/batchq/cmd/batchqctl/config"
	"github.com/concave-dev/batchq/cmd/batchqctl/display"
	"github.com/concave-dev/batchq/cmd/batchqctl/utils"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/spf13/cobra"
)

// buildRegistry constructs a library Registry whose transport targets the
// configured gateway with the selected codec.
func buildRegistry(codecName string) (*batchq.Registry, error) {
	transportConfig := batchq.DefaultHTTPTransportConfig()
	transportConfig.BaseURL = client.CreateAPIClient().GatewayURL()
	transportConfig.Timeout = time.Duration(config.Global.Timeout) * time.Second
	transportConfig.UserAgent = fmt.Sprintf("batchqctl/%s", config.Version)

	transport, err := batchq.NewHTTPTransport(transportConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway transport: %w", err)
	}

	registryConfig := batchq.DefaultConfig()
	registryConfig.Transport = transport
	switch codecName {
	case "", "json":
		registryConfig.Codec = batchq.JSONCodec{}
	case "legacy":
		registryConfig.Codec = batchq.LegacyCodec{}
	default:
		return nil, fmt.Errorf("unknown codec '%s' - valid: json, legacy", codecName)
	}

	return batchq.NewRegistry(registryConfig)
}

// parseItemPayload parses one --item value of comma-separated key=value
// pairs into a flat payload map.
func parseItemPayload(item string) (map[string]string, error) {
	payload := make(map[string]string)
	for _, pair := range strings.Split(item, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid item field '%s' - expected key=value", pair)
		}
		payload[key] = value
	}
	return payload, nil
}

// HandleSend processes the send command
func HandleSend(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if config.Send.Destination == "" {
		return fmt.Errorf("destination is required (--dest=/path)")
	}
	if len(config.Send.Items) == 0 {
		return fmt.Errorf("at least one item is required (--item=key=value)")
	}

	payloads := make([]map[string]string, 0, len(config.Send.Items))
	for _, item := range config.Send.Items {
		payload, err := parseItemPayload(item)
		if err != nil {
			return err
		}
		payloads = append(payloads, payload)
	}

	registry, err := buildRegistry(config.Send.Codec)
	if err != nil {
		return err
	}

	logging.Info("Sending %d items to %s via gateway %s",
		len(payloads), config.Send.Destination, config.Global.APIAddr)

	// Enqueue everything before waiting so the items coalesce into as few
	// batches as the queue allows.
	receipts := make([]*batchq.Receipt, len(payloads))
	for i, payload := range payloads {
		receipts[i], err = registry.Enqueue(config.Send.Destination, batchq.Item{Payload: payload})
		if err != nil {
			return fmt.Errorf("failed to enqueue item %d: %w", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(config.Global.Timeout)*time.Second)
	defer cancel()

	results := make([]display.SendResult, len(receipts))
	for i, receipt := range receipts {
		result, err := receipt.Wait(ctx)
		results[i] = display.SendResult{Index: i, Result: result}
		if err != nil {
			results[i].Error = err.Error()
		}
	}

	display.DisplaySendResults(config.Send.Destination, results)

	stats, ok := registry.QueueStats(config.Send.Destination)
	if ok {
		logging.Success("Delivered %d items in %d batch(es)", stats.ResultsDelivered, stats.BatchesSent)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	return registry.Shutdown(shutdownCtx)
}

// HandleBench processes the bench command
func HandleBench(cmd *cobra.Command, args []string) error {
	utils.SetupLogging()

	if config.Bench.Destination == "" {
		return fmt.Errorf("destination is required (--dest=/path)")
	}
	if config.Bench.Count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if config.Bench.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	registry, err := buildRegistry("")
	if err != nil {
		return err
	}

	logging.Info("Benchmarking %s with %d items from %d workers",
		config.Bench.Destination, config.Bench.Count, config.Bench.Workers)

	start := time.Now()

	// Workers enqueue concurrently; receipts are collected per item so every
	// outcome is accounted for in the report.
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures int

	items := make(chan int)
	for w := 0; w < config.Bench.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seq := range items {
				receipt, err := registry.Enqueue(config.Bench.Destination, batchq.Item{
					Payload: map[string]string{"seq": fmt.Sprintf("%d", seq)},
				})
				if err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
					continue
				}
				if _, err := receipt.Wait(context.Background()); err != nil {
					mu.Lock()
					failures++
					mu.Unlock()
				}
			}
		}()
	}
	for seq := 0; seq < config.Bench.Count; seq++ {
		items <- seq
	}
	close(items)
	wg.Wait()

	elapsed := time.Since(start)

	stats, ok := registry.QueueStats(config.Bench.Destination)
	if !ok {
		return fmt.Errorf("no queue statistics recorded for %s", config.Bench.Destination)
	}

	display.DisplayBenchReport(config.Bench.Destination, stats, failures, elapsed)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return registry.Shutdown(shutdownCtx)
}
