// Package dispatch implements the gateway-side routing of batch items to
// per-destination handlers.
//
// A Dispatcher maps destination paths to handler functions and processes
// decoded batches item by item, in order. Handler errors are not transport
// errors: a failing item yields an error object at its index while the rest
// of the batch proceeds, so the result array always matches the request
// array in length and order. That positional contract is what lets the
// client library route result[i] back to the caller that enqueued item i.
package dispatch

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/concave-dev/batchq/internal/logging"
	"github.com/concave-dev/batchq/internal/validate"
)

// Handler processes a single batch item's payload and returns the value to
// place at the item's index in the response array, or an error to surface
// there as an error object instead.
type Handler func(payload map[string]string) (any, error)

// DestinationInfo is a snapshot of one registered destination's counters.
type DestinationInfo struct {
	Path    string `json:"path"`
	Batches uint64 `json:"batches"` // Batch requests processed
	Items   uint64 `json:"items"`   // Items dispatched across all batches
	Errors  uint64 `json:"errors"`  // Items whose handler returned an error
}

// errorResult is the wire shape of a per-item handler failure.
type errorResult struct {
	Error string `json:"error"`
}

// destination pairs a handler with its counters.
type destination struct {
	handler Handler
	batches uint64
	items   uint64
	errors  uint64
}

// Dispatcher routes decoded batch items to registered destination handlers
// and tracks per-destination counters. Registration happens at gateway
// startup; dispatch happens on every batch request. The RWMutex keeps
// concurrent batches cheap while still allowing counter updates.
type Dispatcher struct {
	mu           sync.RWMutex
	destinations map[string]*destination
}

// New creates an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		destinations: make(map[string]*destination),
	}
}

// Register binds a handler to a destination path. The path must satisfy the
// destination format rules and must not already be registered; both are
// startup-time programming errors worth failing loudly on.
func (d *Dispatcher) Register(path string, handler Handler) error {
	if err := validate.DestinationFormat(path); err != nil {
		return fmt.Errorf("cannot register destination: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("cannot register destination %s: handler is nil", path)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.destinations[path]; exists {
		return fmt.Errorf("destination %s is already registered", path)
	}
	d.destinations[path] = &destination{handler: handler}

	logging.Info("Dispatcher: Registered destination %s", path)
	return nil
}

// Has reports whether a destination path is registered.
func (d *Dispatcher) Has(path string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.destinations[path]
	return ok
}

// Dispatch runs every payload of a batch through the destination's handler,
// in order, and returns the encoded result array. result[i] is either the
// handler's marshaled return value for payloads[i] or an {"error": ...}
// object if the handler failed on that item.
//
// Returns an error only if the destination is unknown; per-item failures
// never fail the batch.
func (d *Dispatcher) Dispatch(path string, payloads []map[string]string) ([]json.RawMessage, error) {
	d.mu.RLock()
	dest, ok := d.destinations[path]
	d.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown destination: %s", path)
	}

	results := make([]json.RawMessage, len(payloads))
	failed := 0
	for i, payload := range payloads {
		value, err := dest.handler(payload)
		if err != nil {
			logging.Debug("Dispatcher: Item %d of batch for %s failed: %v", i, path, err)
			failed++
			results[i] = mustMarshal(errorResult{Error: err.Error()})
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			// A handler returning an unmarshalable value is a bug in the
			// handler; report it at the item's index like any other failure.
			logging.Error("Dispatcher: Failed to encode result %d for %s: %v", i, path, err)
			failed++
			results[i] = mustMarshal(errorResult{Error: "failed to encode result"})
			continue
		}
		results[i] = encoded
	}

	d.mu.Lock()
	dest.batches++
	dest.items += uint64(len(payloads))
	dest.errors += uint64(failed)
	d.mu.Unlock()

	return results, nil
}

// Destinations returns a snapshot of all registered destinations sorted by
// path for stable API output.
func (d *Dispatcher) Destinations() []DestinationInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	infos := make([]DestinationInfo, 0, len(d.destinations))
	for path, dest := range d.destinations {
		infos = append(infos, DestinationInfo{
			Path:    path,
			Batches: dest.batches,
			Items:   dest.items,
			Errors:  dest.errors,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Path < infos[j].Path })
	return infos
}

// Totals returns counters summed across all destinations.
func (d *Dispatcher) Totals() (batches, items, errors uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, dest := range d.destinations {
		batches += dest.batches
		items += dest.items
		errors += dest.errors
	}
	return batches, items, errors
}

// mustMarshal encodes values whose shape is fixed at compile time.
func mustMarshal(v any) json.RawMessage {
	out, err := json.Marshal(v)
	if err != nil {
		// errorResult contains one string field; this cannot fail.
		panic(err)
	}
	return out
}
