package batchq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"
)

// captureTransport records every batch it sees and echoes each payload back
// as that item's result. When started/release are set, each call signals
// started and then blocks until release receives, which lets tests hold a
// batch in flight while enqueuing more items.
type captureTransport struct {
	mu      sync.Mutex
	batches [][]map[string]string

	started chan string
	release chan struct{}
}

func (ct *captureTransport) Do(ctx context.Context, req *Request) ([]json.RawMessage, error) {
	payloads, err := JSONCodec{}.DecodeBatch(req.Body.Data)
	if err != nil {
		return nil, fmt.Errorf("transport received undecodable batch: %w", err)
	}

	ct.mu.Lock()
	ct.batches = append(ct.batches, payloads)
	ct.mu.Unlock()

	if ct.started != nil {
		ct.started <- req.Destination
	}
	if ct.release != nil {
		<-ct.release
	}

	results := make([]json.RawMessage, len(payloads))
	for i, p := range payloads {
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		results[i] = b
	}
	return results, nil
}

func (ct *captureTransport) batchSnapshot() [][]map[string]string {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	out := make([][]map[string]string, len(ct.batches))
	copy(out, ct.batches)
	return out
}

func newTestRegistry(t *testing.T, transport Transport) *Registry {
	t.Helper()
	config := DefaultConfig()
	config.Transport = transport
	registry, err := NewRegistry(config)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return registry
}

func waitReceipt(t *testing.T, r *Receipt) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := r.Wait(ctx)
	if err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	return result
}

// TestQueueCoalescesDuringFlight tests the core batching behavior: items
// enqueued while a batch is outstanding accumulate and go out together in
// the next batch once the first completes
func TestQueueCoalescesDuringFlight(t *testing.T) {
	transport := &captureTransport{
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
	registry := newTestRegistry(t, transport)

	first, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "a"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	<-transport.started // batch 1 is now in flight

	second, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "b"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	third, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "c"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	transport.release <- struct{}{}
	waitReceipt(t, first)

	<-transport.started // batch 2
	transport.release <- struct{}{}
	waitReceipt(t, second)
	waitReceipt(t, third)

	batches := transport.batchSnapshot()
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if len(batches[0]) != 1 || batches[0][0]["id"] != "a" {
		t.Errorf("batch 1 = %v, want single item a", batches[0])
	}
	if len(batches[1]) != 2 || batches[1][0]["id"] != "b" || batches[1][1]["id"] != "c" {
		t.Errorf("batch 2 = %v, want items b,c in enqueue order", batches[1])
	}
}

// TestQueueResultCorrespondence tests that result i reaches the receipt of
// item i across a coalesced batch
func TestQueueResultCorrespondence(t *testing.T) {
	transport := &captureTransport{
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
	registry := newTestRegistry(t, transport)

	sentinel, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "sentinel"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	<-transport.started

	const n = 10
	receipts := make([]*Receipt, n)
	for i := 0; i < n; i++ {
		receipts[i], err = registry.Enqueue("/jobs", Item{
			Payload: map[string]string{"id": strconv.Itoa(i)},
		})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	transport.release <- struct{}{}
	waitReceipt(t, sentinel)
	<-transport.started
	transport.release <- struct{}{}

	for i, receipt := range receipts {
		result := waitReceipt(t, receipt)
		var payload map[string]string
		if err := json.Unmarshal(result, &payload); err != nil {
			t.Fatalf("result %d is not an object: %v", i, err)
		}
		if payload["id"] != strconv.Itoa(i) {
			t.Errorf("receipt %d got result for item %q", i, payload["id"])
		}
	}
}

// TestQueueAtMostOneInFlight tests that a destination never has two batches
// outstanding at once
func TestQueueAtMostOneInFlight(t *testing.T) {
	transport := &captureTransport{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	registry := newTestRegistry(t, transport)

	receipt, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "a"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	<-transport.started

	for i := 0; i < 5; i++ {
		if _, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": strconv.Itoa(i)}}); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	// With the first batch held, no second send may begin.
	select {
	case dest := <-transport.started:
		t.Fatalf("second batch to %s started while first was in flight", dest)
	case <-time.After(50 * time.Millisecond):
	}

	stats, ok := registry.QueueStats("/jobs")
	if !ok {
		t.Fatal("queue stats missing for active destination")
	}
	if !stats.Sending || stats.InFlight != 1 || stats.Pending != 5 {
		t.Errorf("stats = %+v, want sending with 1 in flight and 5 pending", stats)
	}

	transport.release <- struct{}{}
	waitReceipt(t, receipt)
	<-transport.started
	transport.release <- struct{}{}
}

// TestQueueDestinationIsolation tests that a held batch on one destination
// does not delay another destination's items
func TestQueueDestinationIsolation(t *testing.T) {
	slowRelease := make(chan struct{})
	slowStarted := make(chan struct{}, 1)

	transport := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		if req.Destination == "/slow" {
			slowStarted <- struct{}{}
			<-slowRelease
		}
		payloads, err := JSONCodec{}.DecodeBatch(req.Body.Data)
		if err != nil {
			return nil, err
		}
		results := make([]json.RawMessage, len(payloads))
		for i := range payloads {
			results[i] = json.RawMessage(`"ok"`)
		}
		return results, nil
	})
	registry := newTestRegistry(t, transport)

	slow, err := registry.Enqueue("/slow", Item{Payload: map[string]string{"id": "s"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	<-slowStarted

	fast, err := registry.Enqueue("/fast", Item{Payload: map[string]string{"id": "f"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	waitReceipt(t, fast)

	if _, err := slow.Result(); !errors.Is(err, ErrNotResolved) {
		t.Error("slow destination resolved before its batch completed")
	}

	close(slowRelease)
	waitReceipt(t, slow)
}

// TestQueueTransportFailure tests the drop policy: every receipt of a failed
// batch resolves with the error, the aggregate error callback fires, and the
// queue keeps working afterwards
func TestQueueTransportFailure(t *testing.T) {
	var calls int
	var mu sync.Mutex
	transportErr := errors.New("gateway unreachable")

	transport := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		mu.Lock()
		calls++
		failing := calls == 1
		mu.Unlock()
		if failing {
			return nil, transportErr
		}
		return []json.RawMessage{json.RawMessage(`"ok"`)}, nil
	})

	var cbMu sync.Mutex
	var errDest string
	var cbErr error

	config := DefaultConfig()
	config.Transport = transport
	config.OnBatchError = func(destination string, err error) {
		cbMu.Lock()
		errDest = destination
		cbErr = err
		cbMu.Unlock()
	}
	registry, err := NewRegistry(config)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	receipt, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "a"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := receipt.Wait(ctx); !errors.Is(err, transportErr) {
		t.Errorf("receipt resolved with %v, want the transport error", err)
	}

	cbMu.Lock()
	if errDest != "/jobs" || !errors.Is(cbErr, transportErr) {
		t.Errorf("error callback got (%q, %v), want (/jobs, transport error)", errDest, cbErr)
	}
	cbMu.Unlock()

	// The queue is not wedged: the next item goes out and succeeds.
	second, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "b"}})
	if err != nil {
		t.Fatalf("Enqueue after failure failed: %v", err)
	}
	waitReceipt(t, second)

	stats, _ := registry.QueueStats("/jobs")
	if stats.TransportFailures != 1 {
		t.Errorf("TransportFailures = %d, want 1", stats.TransportFailures)
	}
	if stats.ItemsDropped != 1 {
		t.Errorf("ItemsDropped = %d, want 1", stats.ItemsDropped)
	}
}

// TestQueueShortResponse tests that a response shorter than the batch
// resolves covered items normally and the uncovered tail with a length error
func TestQueueShortResponse(t *testing.T) {
	transport := &captureTransport{
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
	short := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		results, err := transport.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(results) > 2 {
			results = results[:2]
		}
		return results, nil
	})

	successes := make(chan int, 4)
	config := DefaultConfig()
	config.Transport = short
	config.OnBatchSuccess = func(destination string, results []json.RawMessage, itemCount int) {
		successes <- itemCount
	}
	registry, err := NewRegistry(config)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	sentinel, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "sentinel"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	<-transport.started

	receipts := make([]*Receipt, 3)
	for i := range receipts {
		receipts[i], err = registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": strconv.Itoa(i)}})
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	transport.release <- struct{}{}
	waitReceipt(t, sentinel)
	<-transport.started
	transport.release <- struct{}{}

	waitReceipt(t, receipts[0])
	waitReceipt(t, receipts[1])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = receipts[2].Wait(ctx)
	var lengthErr *ResponseLengthError
	if !errors.As(err, &lengthErr) {
		t.Fatalf("uncovered item resolved with %v, want ResponseLengthError", err)
	}
	if lengthErr.Index != 2 || lengthErr.BatchSize != 3 || lengthErr.ResponseLen != 2 {
		t.Errorf("length error = %+v, want index 2 of 3 items with 2 results", lengthErr)
	}

	// The transport itself succeeded both times, so the aggregate success
	// callback fires for the short batch too: once for the sentinel batch,
	// once for the three-item batch.
	for _, want := range []int{1, 3} {
		select {
		case got := <-successes:
			if got != want {
				t.Errorf("success callback item count = %d, want %d", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("aggregate success callback did not fire")
		}
	}

	stats, _ := registry.QueueStats("/jobs")
	if stats.ItemsDropped != 1 {
		t.Errorf("ItemsDropped = %d, want 1", stats.ItemsDropped)
	}
}

// TestQueueLongResponse tests that extra results beyond the batch length are
// ignored and every item still resolves with its own segment
func TestQueueLongResponse(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		return []json.RawMessage{
			json.RawMessage(`"mine"`),
			json.RawMessage(`"extra-1"`),
			json.RawMessage(`"extra-2"`),
		}, nil
	})
	registry := newTestRegistry(t, transport)

	receipt, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "a"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	result := waitReceipt(t, receipt)
	if string(result) != `"mine"` {
		t.Errorf("result = %s, want the item's own segment", result)
	}
}

// TestQueueOnSuccessCallback tests that the per-item callback receives the
// item's result segment before the receipt resolves
func TestQueueOnSuccessCallback(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		return []json.RawMessage{json.RawMessage(`{"seq":1}`)}, nil
	})
	registry := newTestRegistry(t, transport)

	got := make(chan json.RawMessage, 1)
	receipt, err := registry.Enqueue("/jobs", Item{
		Payload:   map[string]string{"id": "a"},
		OnSuccess: func(result json.RawMessage) { got <- result },
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	waitReceipt(t, receipt)

	select {
	case result := <-got:
		if string(result) != `{"seq":1}` {
			t.Errorf("callback got %s, want the result segment", result)
		}
	case <-time.After(time.Second):
		t.Fatal("per-item callback never ran")
	}
}

// TestQueueSuccessDispatchOrder tests that per-item dispatch precedes the
// aggregate success callback for the same batch
func TestQueueSuccessDispatchOrder(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		return []json.RawMessage{json.RawMessage(`"ok"`)}, nil
	})

	var mu sync.Mutex
	var events []string
	aggregate := make(chan struct{})

	config := DefaultConfig()
	config.Transport = transport
	config.OnBatchSuccess = func(destination string, results []json.RawMessage, itemCount int) {
		mu.Lock()
		events = append(events, "aggregate")
		mu.Unlock()
		close(aggregate)
	}
	registry, err := NewRegistry(config)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if _, err := registry.Enqueue("/jobs", Item{
		Payload: map[string]string{"id": "a"},
		OnSuccess: func(json.RawMessage) {
			mu.Lock()
			events = append(events, "item")
			mu.Unlock()
		},
	}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	select {
	case <-aggregate:
	case <-time.After(2 * time.Second):
		t.Fatal("aggregate success callback never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || events[0] != "item" || events[1] != "aggregate" {
		t.Errorf("dispatch order = %v, want [item aggregate]", events)
	}
}

// TestQueueCallbackReenqueue tests that a callback may enqueue to the same
// destination without deadlocking; the new item rides a later batch
func TestQueueCallbackReenqueue(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, req *Request) ([]json.RawMessage, error) {
		payloads, err := JSONCodec{}.DecodeBatch(req.Body.Data)
		if err != nil {
			return nil, err
		}
		results := make([]json.RawMessage, len(payloads))
		for i := range payloads {
			results[i] = json.RawMessage(`"ok"`)
		}
		return results, nil
	})
	registry := newTestRegistry(t, transport)

	followUp := make(chan *Receipt, 1)
	first, err := registry.Enqueue("/jobs", Item{
		Payload: map[string]string{"id": "first"},
		OnSuccess: func(json.RawMessage) {
			r, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "second"}})
			if err != nil {
				t.Errorf("re-enqueue from callback failed: %v", err)
				return
			}
			followUp <- r
		},
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	waitReceipt(t, first)

	select {
	case r := <-followUp:
		waitReceipt(t, r)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never enqueued the follow-up item")
	}
}

// TestQueueStatsCounters tests that the per-destination counters track the
// batching activity
func TestQueueStatsCounters(t *testing.T) {
	transport := &captureTransport{
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
	registry := newTestRegistry(t, transport)

	first, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "a"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	<-transport.started

	second, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "b"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	third, err := registry.Enqueue("/jobs", Item{Payload: map[string]string{"id": "c"}})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	transport.release <- struct{}{}
	waitReceipt(t, first)
	<-transport.started
	transport.release <- struct{}{}
	waitReceipt(t, second)
	waitReceipt(t, third)

	stats, ok := registry.QueueStats("/jobs")
	if !ok {
		t.Fatal("queue stats missing")
	}
	if stats.Enqueued != 3 {
		t.Errorf("Enqueued = %d, want 3", stats.Enqueued)
	}
	if stats.BatchesSent != 2 {
		t.Errorf("BatchesSent = %d, want 2", stats.BatchesSent)
	}
	if stats.ResultsDelivered != 3 {
		t.Errorf("ResultsDelivered = %d, want 3", stats.ResultsDelivered)
	}
	if stats.LargestBatch != 2 {
		t.Errorf("LargestBatch = %d, want 2", stats.LargestBatch)
	}
	if stats.Pending != 0 || stats.InFlight != 0 || stats.Sending {
		t.Errorf("stats = %+v, want idle queue", stats)
	}

	all := registry.Stats()
	if len(all) != 1 {
		t.Errorf("Stats returned %d destinations, want 1", len(all))
	}
}
