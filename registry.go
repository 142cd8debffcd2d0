package batchq

import (
	"context"
	"fmt"
	"sync"

	"github.com/concave-dev/batchq/internal/validate"
)

// Registry owns one batching queue per destination. Queues are created
// lazily on first use of a destination and live for the life of the
// Registry; destinations never interact with each other.
//
// The registry is an explicitly owned object: construct one, pass it to the
// code that enqueues, and shut it down with the application. There is no
// package-level instance.
type Registry struct {
	config *Config

	mu     sync.Mutex
	queues map[string]*queue
	closed bool

	// wg counts accepted-but-unresolved items so Shutdown can drain.
	wg sync.WaitGroup
}

// NewRegistry builds a Registry from the given configuration. A nil Codec
// falls back to JSONCodec; a nil Transport is a configuration error.
func NewRegistry(config *Config) (*Registry, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Codec == nil {
		config.Codec = JSONCodec{}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("registry config validation failed: %w", err)
	}

	return &Registry{
		config: config,
		queues: make(map[string]*queue),
	}, nil
}

// Enqueue appends the item to the queue for destination, creating the queue
// if this is the destination's first item, and kicks off a flush if no batch
// is currently outstanding there. It never blocks on network I/O.
//
// The returned Receipt resolves exactly once with the item's result segment
// or with the error the item's batch failed with. After Shutdown, Enqueue
// rejects new items with ErrClosed.
func (r *Registry) Enqueue(destination string, item Item) (*Receipt, error) {
	if err := validate.DestinationFormat(destination); err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	q, ok := r.queues[destination]
	if !ok {
		q = newQueue(destination, r.config)
		r.queues[destination] = q
	}
	r.wg.Add(1)
	r.mu.Unlock()

	receipt := newReceipt(r.wg.Done)
	q.enqueue(&pendingItem{item: item, receipt: receipt})
	return receipt, nil
}

// Stats returns a snapshot of every queue's counters, keyed by destination.
func (r *Registry) Stats() map[string]QueueStats {
	r.mu.Lock()
	queues := make([]*queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.mu.Unlock()

	stats := make(map[string]QueueStats, len(queues))
	for _, q := range queues {
		stats[q.destination] = q.snapshot()
	}
	return stats
}

// QueueStats returns the snapshot for one destination. The second return
// value is false if the destination has never seen an item.
func (r *Registry) QueueStats(destination string) (QueueStats, bool) {
	r.mu.Lock()
	q, ok := r.queues[destination]
	r.mu.Unlock()

	if !ok {
		return QueueStats{}, false
	}
	return q.snapshot(), true
}

// Shutdown stops accepting new items and waits until every already-accepted
// item has resolved, or until ctx is done. Items in flight and items still
// pending both drain normally; nothing is cancelled.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown interrupted with items still unresolved: %w", ctx.Err())
	}
}
