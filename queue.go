package batchq

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/concave-dev/batchq/internal/logging"
)

// queue is the per-destination batching state machine. Three pieces of
// mutable state live under the mutex: pending (items waiting for the next
// flush, in enqueue order), inFlight (items of the outstanding batch, in
// send order), and sending (true while a batch is outstanding).
//
// The two invariants everything else hangs off:
//   - at most one batch is outstanding per queue at any time
//   - inFlight[i] at send time corresponds to response[i] at completion
type queue struct {
	destination string
	config      *Config

	mu       sync.Mutex
	pending  []*pendingItem
	inFlight []*pendingItem
	sending  bool

	enqueued          uint64
	batchesSent       uint64
	resultsDelivered  uint64
	itemsDropped      uint64
	transportFailures uint64
	largestBatch      int
}

func newQueue(destination string, config *Config) *queue {
	return &queue{
		destination: destination,
		config:      config,
	}
}

// enqueue appends the item to pending and flushes if the queue is idle.
// Never blocks on I/O: the network call always happens on its own goroutine.
func (q *queue) enqueue(pi *pendingItem) {
	q.mu.Lock()
	q.pending = append(q.pending, pi)
	q.enqueued++
	q.mu.Unlock()

	q.maybeFlush()
}

// maybeFlush starts a batch if the queue is idle and has pending items.
// The pending-to-inFlight move happens atomically under the lock; the
// network call itself runs on a fresh goroutine so callers never block.
func (q *queue) maybeFlush() {
	q.mu.Lock()
	if q.sending || len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	batch := q.pending
	q.pending = nil
	q.inFlight = batch
	q.sending = true
	q.batchesSent++
	if len(batch) > q.largestBatch {
		q.largestBatch = len(batch)
	}
	q.mu.Unlock()

	go q.send(batch)
}

// send encodes and ships one batch, then dispatches the outcome. Runs off
// the caller's goroutine; q.sending stays true until dispatch has finished,
// which is what keeps items enqueued by callbacks out of this batch.
func (q *queue) send(batch []*pendingItem) {
	payloads := make([]map[string]string, len(batch))
	for i, pi := range batch {
		payloads[i] = pi.item.Payload
	}

	encoded, err := q.config.Codec.EncodeBatch(payloads)
	if err != nil {
		q.completeError(batch, err)
		return
	}

	logging.Debug("Queue %s: Sending batch of %d items", q.destination, len(batch))

	results, err := q.config.Transport.Do(context.Background(), &Request{
		Destination: q.destination,
		Body:        Envelope{Data: encoded},
	})
	if err != nil {
		q.completeError(batch, err)
		return
	}

	q.completeSuccess(batch, results)
}

// completeSuccess routes response[i] to batch[i] in order. A short response
// resolves the uncovered tail with ResponseLengthError; extra results are
// ignored. Either way the aggregate success callback still fires, since the
// transport itself succeeded. Callbacks run outside the queue lock.
func (q *queue) completeSuccess(batch []*pendingItem, results []json.RawMessage) {
	if len(results) != len(batch) {
		logging.Warn("Queue %s: Batch response length mismatch: sent %d items, got %d results",
			q.destination, len(batch), len(results))
	}

	delivered := len(batch)
	if len(results) < delivered {
		delivered = len(results)
	}

	// Counters first, so a caller observing a resolved receipt sees them.
	q.mu.Lock()
	q.resultsDelivered += uint64(delivered)
	q.itemsDropped += uint64(len(batch) - delivered)
	q.mu.Unlock()

	// Per-item dispatch first, in index order; the aggregate callback sees
	// a fully dispatched batch.
	for i, pi := range batch {
		if i < len(results) {
			if pi.item.OnSuccess != nil {
				pi.item.OnSuccess(results[i])
			}
			pi.receipt.resolve(results[i], nil)
			continue
		}
		pi.receipt.resolve(nil, &ResponseLengthError{
			Destination: q.destination,
			Index:       i,
			BatchSize:   len(batch),
			ResponseLen: len(results),
		})
	}

	if q.config.OnBatchSuccess != nil {
		q.config.OnBatchSuccess(q.destination, results, len(batch))
	}

	q.finishBatch()
}

// completeError implements the drop policy for a failed batch: log it,
// resolve every receipt with the error, fire the aggregate error callback,
// and move on. Nothing is retried or requeued.
func (q *queue) completeError(batch []*pendingItem, err error) {
	logging.Error("Queue %s: Batch of %d items failed: %v", q.destination, len(batch), err)

	q.mu.Lock()
	q.transportFailures++
	q.itemsDropped += uint64(len(batch))
	q.mu.Unlock()

	if q.config.OnBatchError != nil {
		q.config.OnBatchError(q.destination, err)
	}
	for _, pi := range batch {
		pi.receipt.resolve(nil, err)
	}

	q.finishBatch()
}

// finishBatch clears the in-flight state and drains whatever accumulated in
// pending while the batch was outstanding. A failure never wedges the queue.
func (q *queue) finishBatch() {
	q.mu.Lock()
	q.inFlight = nil
	q.sending = false
	q.mu.Unlock()

	q.maybeFlush()
}

// snapshot returns a consistent view of the queue's counters and depths.
func (q *queue) snapshot() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return QueueStats{
		Destination:       q.destination,
		Enqueued:          q.enqueued,
		BatchesSent:       q.batchesSent,
		ResultsDelivered:  q.resultsDelivered,
		ItemsDropped:      q.itemsDropped,
		TransportFailures: q.transportFailures,
		LargestBatch:      q.largestBatch,
		Pending:           len(q.pending),
		InFlight:          len(q.inFlight),
		Sending:           q.sending,
	}
}
