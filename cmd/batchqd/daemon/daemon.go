// Package daemon provides the batchq gateway daemon orchestration and
// lifecycle management.
//
// The daemon wires together three components:
//
//   - Store: in-memory record storage backing the /save destination
//   - Dispatcher: registry of batch destinations and their handlers
//   - HTTP API: gin server that decodes envelopes and serves management routes
//
// PORT BINDING STRATEGY:
// The API listener is pre-bound through netutil.PortBinder before the server
// starts. An explicitly requested port must bind exactly and startup fails
// otherwise; a defaulted port may fall forward to the next free one, which
// keeps multiple local gateways from fighting over 8418 during development.
//
// BUILT-IN DESTINATIONS:
// The daemon registers a small set of destinations that cover the common
// batching shapes: /echo (returns the payload), /save (persists a record and
// returns its id), /delay (per-item sleep for latency testing), and /fail
// (always errors, for exercising client failure handling).
//
// SHUTDOWN:
// SIGINT/SIGTERM trigger a graceful HTTP shutdown with a timeout so in-flight
// batch requests complete before the process exits.
package daemon

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/concave-dev/batchq/cmd/batchqd/config"
	"github.com/concave-dev/batchq/internal/api"
	"github.com/concave-dev/batchq/internal/api/dispatch"
	"github.com/concave-dev/batchq/internal/logging"
	"github.com/concave-dev/batchq/internal/netutil"
	"github.com/concave-dev/batchq/internal/store"
	"github.com/concave-dev/batchq/internal/version"
)

// maxDelayMillis caps the per-item sleep accepted by the /delay destination
// so a single batch cannot hold a worker hostage.
const maxDelayMillis = 5000

// buildDispatcher creates the destination registry with the daemon's
// built-in destinations wired to the record store.
func buildDispatcher(records *store.Store) (*dispatch.Dispatcher, error) {
	dispatcher := dispatch.New()

	// Echo returns each payload untouched. Useful for smoke tests and for
	// verifying index correspondence from the client side.
	if err := dispatcher.Register("/echo", func(payload map[string]string) (any, error) {
		return payload, nil
	}); err != nil {
		return nil, err
	}

	// Save persists the payload as a record and returns the generated id.
	if err := dispatcher.Register("/save", func(payload map[string]string) (any, error) {
		record, err := records.Put(payload)
		if err != nil {
			return nil, err
		}
		logging.Debug("Saved record %s", logging.FormatRecordID(record.ID))
		return map[string]string{"id": record.ID}, nil
	}); err != nil {
		return nil, err
	}

	// Delay sleeps per item, capped, then echoes. Lets operators measure how
	// batching behaves under slow handlers without writing a custom gateway.
	if err := dispatcher.Register("/delay", func(payload map[string]string) (any, error) {
		millis, err := strconv.Atoi(payload["ms"])
		if err != nil || millis < 0 {
			return nil, fmt.Errorf("invalid ms value '%s'", payload["ms"])
		}
		if millis > maxDelayMillis {
			millis = maxDelayMillis
		}
		time.Sleep(time.Duration(millis) * time.Millisecond)
		return payload, nil
	}); err != nil {
		return nil, err
	}

	// Fail always errors, which exercises per-item error objects end to end.
	if err := dispatcher.Register("/fail", func(payload map[string]string) (any, error) {
		return nil, fmt.Errorf("destination configured to fail")
	}); err != nil {
		return nil, err
	}

	return dispatcher, nil
}

// buildAPIConfig converts daemon config to API server config
func buildAPIConfig(dispatcher *dispatch.Dispatcher) *api.Config {
	apiConfig := api.DefaultConfig()

	apiConfig.BindAddr = config.Global.APIAddr
	apiConfig.BindPort = config.Global.APIPort
	apiConfig.MaxBatchItems = config.Global.MaxBatchItems
	apiConfig.InstanceName = config.Global.InstanceName
	apiConfig.Version = version.BatchqdVersion
	apiConfig.Dispatcher = dispatcher

	return apiConfig
}

// Run orchestrates the gateway daemon lifecycle from initialization to
// graceful shutdown: build the store and dispatcher, pre-bind the API
// listener, start the HTTP server, then wait for a shutdown signal.
func Run() error {
	// Apply logging level early to respect --log-level flag before any output
	logging.SetLevel(config.Global.LogLevel)

	// Dependencies writing through the standard library logger (net/http
	// internals among them) get routed into the unified pipeline.
	logging.RedirectStandardLog(logging.NewLevelWriter("WARN", "stdlib"))

	logging.Info("Starting batchq gateway daemon v%s", version.BatchqdVersion)
	logging.Info("Instance: %s", config.Global.InstanceName)

	records := store.New()
	dispatcher, err := buildDispatcher(records)
	if err != nil {
		logging.Error("Failed to build destination dispatcher: %v", err)
		return fmt.Errorf("failed to build destination dispatcher: %w", err)
	}

	// Pre-bind the API listener. An explicitly requested port must bind
	// exactly; a defaulted port may fall forward to the next free one.
	portBinder := netutil.NewPortBinder()
	originalAPIPort := config.Global.APIPort

	var apiListener net.Listener
	if config.Global.IsExplicitlySet(config.APIAddrField) {
		apiListener, err = portBinder.BindTCP(config.Global.APIAddr, config.Global.APIPort)
		if err != nil {
			if netutil.IsAddressInUseError(err) {
				logging.Error("Port %d is already in use - cannot start API on %s", config.Global.APIPort, config.Global.APIAddr)
			}
			return fmt.Errorf("failed to bind API listener: %w", err)
		}
	} else {
		var boundPort int
		apiListener, boundPort, err = portBinder.BindTCPWithFallbackAndLimit(
			config.Global.APIAddr, config.Global.APIPort, config.Global.MaxPorts)
		if err != nil {
			return fmt.Errorf("failed to bind API listener: %w", err)
		}
		if boundPort != originalAPIPort {
			logging.Warn("Default port %d was busy, using port %d for the API", originalAPIPort, boundPort)
			config.Global.APIPort = boundPort
		}
	}

	apiConfig := buildAPIConfig(dispatcher)
	if err := apiConfig.Validate(); err != nil {
		apiListener.Close()
		logging.Error("Invalid API configuration: %v", err)
		return fmt.Errorf("invalid API configuration: %w", err)
	}

	apiServer := api.NewServer(apiConfig)
	if err := apiServer.Serve(apiListener); err != nil {
		apiListener.Close()
		logging.Error("Failed to start API server: %v", err)
		return fmt.Errorf("failed to start API server: %w", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logging.Success("Batchq gateway daemon started successfully")
	logging.Info("Daemon running... Press Ctrl+C to shutdown")

	logging.Info("Gateway services started:")
	logging.Info("  - HTTP API: %s:%d", config.Global.APIAddr, config.Global.APIPort)
	for _, info := range dispatcher.Destinations() {
		logging.Info("  - Destination: %s", info.Path)
	}
	if config.Global.MaxBatchItems > 0 {
		logging.Info("Batch item cap: %d", config.Global.MaxBatchItems)
	} else {
		logging.Info("Batch item cap: disabled")
	}

	// Wait for shutdown signal
	select {
	case sig := <-sigCh:
		logging.Info("Received signal: %v", sig)
	case <-ctx.Done():
		logging.Info("Context cancelled")
	}

	logging.Info("Initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("Error shutting down API server: %v", err)
	}

	logging.Info("Stored records at shutdown: %d", records.Len())
	logging.Success("Batchq gateway daemon shutdown completed")
	return nil
}
