// Package batchq implements a batching request queue that coalesces many
// logically independent requests aimed at the same destination into a single
// network call, then routes each slice of the batched response back to the
// caller that asked for it, in order.
//
// COALESCING MODEL:
// Each destination gets one independent queue. Items enqueued while no batch
// is outstanding trigger an immediate flush; items enqueued while a batch is
// in flight accumulate and are sent together as the next batch once the
// current one completes. At most one network request is ever outstanding per
// destination, which bounds concurrent network usage regardless of enqueue
// rate.
//
// ORDERING CONTRACT:
// Items are sent in exact enqueue order and the response is an ordered array
// whose index i corresponds to the i-th item of the batch. Per-item results
// are delivered back in that same order through optional callbacks and
// through per-item Receipt futures.
//
// FAILURE POLICY:
// A transport failure drops the whole batch: no success callback fires, each
// dropped item's receipt resolves with the transport error, and the queue
// moves on to whatever was enqueued in the meantime. There is no retry or
// requeue at this layer; connection-level retries belong to the Transport.
package batchq
