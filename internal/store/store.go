// Package store provides the in-memory record store backing the gateway's
// save destination. Records are flat key/value payloads tagged with a
// generated ID and a creation timestamp.
//
// The store is deliberately simple: a mutex-guarded map with insertion-order
// listing. Nothing is persisted to disk; a gateway restart starts empty.
// It exists so the save destination has observable state that the CLI and
// tests can read back, not to be a database.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/concave-dev/batchq/internal/utils"
)

// Record is one saved payload with its assigned identity.
type Record struct {
	ID        string            `json:"id"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store holds records in memory, guarded by a single RWMutex. Reads vastly
// outnumber writes only in watch scenarios, but the RWMutex costs nothing
// and keeps List cheap.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string // Insertion order for stable listing
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]Record),
	}
}

// Put saves a copy of the payload under a freshly generated ID and returns
// the new record. The payload is copied so later mutation by the caller
// cannot change what was saved.
func (s *Store) Put(payload map[string]string) (Record, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate record ID: %w", err)
	}

	copied := make(map[string]string, len(payload))
	for k, v := range payload {
		copied[k] = v
	}

	record := Record{
		ID:        id,
		Payload:   copied,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.records[id] = record
	s.order = append(s.order, id)
	s.mu.Unlock()

	return record, nil
}

// Get returns the record with the given ID. The second return value is
// false if no such record exists.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	return record, ok
}

// List returns all records in insertion order.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
