package batchq

import (
	"encoding/json"
	"fmt"
)

// Config holds everything a Registry needs to operate. The Transport is the
// one required collaborator; the rest defaults to sensible values.
//
// The aggregate callbacks observe whole batches rather than single items:
// OnBatchSuccess fires once per successfully delivered batch with the full
// result array and the batch's item count, OnBatchError fires once per
// dropped batch with the transport error. Both are optional and both are
// invoked outside any queue lock, so they may safely enqueue more items.
type Config struct {
	Transport Transport // Performs the network call for each batch (required)
	Codec     Codec     // Batch encoding; defaults to JSONCodec

	OnBatchSuccess func(destination string, results []json.RawMessage, itemCount int)
	OnBatchError   func(destination string, err error)
}

// DefaultConfig returns a Config with the JSON codec and no callbacks.
// The Transport must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		Codec: JSONCodec{},
	}
}

// Validate checks that the configuration is complete enough to build a
// Registry from. Catching a nil transport here beats a panic on the first
// flush.
func (c *Config) Validate() error {
	if c.Transport == nil {
		return fmt.Errorf("transport cannot be nil")
	}
	if c.Codec == nil {
		return fmt.Errorf("codec cannot be nil")
	}
	return nil
}
