package batchq

import (
	"context"
	"encoding/json"
)

// Envelope is the wire body of a batched request. Data carries the encoded
// ordered array of per-item payloads produced by the configured Codec.
type Envelope struct {
	Data string `json:"data"`
}

// Request describes one batched network call handed to a Transport.
type Request struct {
	Destination string   // Destination path the batch is addressed to
	Body        Envelope // Encoded batch envelope
}

// Transport performs the network call for a batch. Implementations must
// return exactly one of (results, nil) or (nil, err) per call: either the
// ordered result array the server replied with, or a transport error. The
// queue never retries; any connection-level retry or timeout policy belongs
// inside the Transport.
type Transport interface {
	Do(ctx context.Context, req *Request) ([]json.RawMessage, error)
}

// TransportFunc adapts a plain function to the Transport interface, which
// keeps test fixtures and small adapters cheap to write.
type TransportFunc func(ctx context.Context, req *Request) ([]json.RawMessage, error)

func (f TransportFunc) Do(ctx context.Context, req *Request) ([]json.RawMessage, error) {
	return f(ctx, req)
}
