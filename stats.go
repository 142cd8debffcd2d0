package batchq

// QueueStats is a point-in-time snapshot of one destination queue's
// counters, taken under the queue lock so the numbers are consistent with
// each other.
type QueueStats struct {
	Destination string `json:"destination"`

	Enqueued          uint64 `json:"enqueued"`           // Items accepted by Enqueue
	BatchesSent       uint64 `json:"batches_sent"`       // Network requests issued
	ResultsDelivered  uint64 `json:"results_delivered"`  // Items resolved with a result
	ItemsDropped      uint64 `json:"items_dropped"`      // Items resolved with an error
	TransportFailures uint64 `json:"transport_failures"` // Batches that failed in the transport
	LargestBatch      int    `json:"largest_batch"`      // Most items ever sent in one request

	Pending  int  `json:"pending"`   // Items waiting for the next flush
	InFlight int  `json:"in_flight"` // Items in the outstanding batch
	Sending  bool `json:"sending"`   // Whether a batch is outstanding right now
}
