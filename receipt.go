package batchq

import (
	"context"
	"encoding/json"
	"sync"
)

// Receipt is the per-item completion future returned by Registry.Enqueue.
// It resolves exactly once with either the item's result segment or an
// error (transport failure, short response, or registry shutdown).
//
// Callers that only care about fire-and-forget delivery can discard the
// receipt; abandoning it never affects queue processing. Callers that need
// the result block on Wait or select on Done.
type Receipt struct {
	done   chan struct{}
	once   sync.Once
	onDone func()

	result json.RawMessage
	err    error
}

// newReceipt creates an unresolved receipt. onDone, when non-nil, runs once
// at resolution time and is used by the registry to track drain progress.
func newReceipt(onDone func()) *Receipt {
	return &Receipt{
		done:   make(chan struct{}),
		onDone: onDone,
	}
}

// resolve completes the receipt with a result or an error. Resolution is
// idempotent: only the first call wins, later calls are ignored. This is
// what enforces the "exactly one of success/error, exactly once" contract.
func (r *Receipt) resolve(result json.RawMessage, err error) {
	r.once.Do(func() {
		r.result = result
		r.err = err
		close(r.done)
		if r.onDone != nil {
			r.onDone()
		}
	})
}

// Done returns a channel that is closed once the receipt has resolved.
// Useful for select loops that multiplex over many receipts.
func (r *Receipt) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the receipt resolves or ctx is done, whichever comes
// first. On resolution it returns the item's result segment or the error
// the item failed with. A ctx error does not resolve the receipt; Wait may
// be called again.
func (r *Receipt) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of a resolved receipt. Calling Result before
// Done is closed returns nil, ErrNotResolved.
func (r *Receipt) Result() (json.RawMessage, error) {
	select {
	case <-r.done:
		return r.result, r.err
	default:
		return nil, ErrNotResolved
	}
}
