package batchq

import "encoding/json"

// Item is a single caller request waiting to be coalesced into a batch.
// The payload is a flat string-to-string mapping; nested structures are not
// supported by the wire contract. OnSuccess, when set, receives the item's
// slice of the batched response exactly once on the success path.
type Item struct {
	Payload   map[string]string
	OnSuccess func(result json.RawMessage)
}

// pendingItem pairs an Item with the receipt that tracks its completion
// while it sits in a queue's pending or in-flight sequence.
type pendingItem struct {
	item    Item
	receipt *Receipt
}
