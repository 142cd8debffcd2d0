package batchq

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by Enqueue after Registry.Shutdown has been
	// called. Items accepted before shutdown still drain normally.
	ErrClosed = errors.New("batchq: registry is closed")

	// ErrNotResolved is returned by Receipt.Result while the receipt is
	// still outstanding.
	ErrNotResolved = errors.New("batchq: receipt not resolved yet")
)

// ResponseLengthError reports a batch response that was shorter than the
// batch itself. Items whose index fell beyond the response length resolve
// with this error; items within range are dispatched normally.
type ResponseLengthError struct {
	Destination string // Destination the batch was sent to
	Index       int    // Index of the item left without a result
	BatchSize   int    // Number of items in the batch
	ResponseLen int    // Number of results the server returned
}

func (e *ResponseLengthError) Error() string {
	return fmt.Sprintf("batch response for %s too short: item %d has no result (%d items, %d results)",
		e.Destination, e.Index, e.BatchSize, e.ResponseLen)
}
