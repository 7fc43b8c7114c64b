// Package inmemorystore provides a bounded, thread-safe, in-memory
// implementation of the runstore.Store interface.
//
// # Characteristics
//
//   - **Ephemeral:** Records live as long as the process
//   - **Bounded:** At most Capacity records are kept; the oldest go first
//   - **Thread-Safe:** One RWMutex guards the map and the eviction queue
//
// # Concurrency Model
//
// Reads vastly outnumber writes only for popular runs, and every write must
// also update the eviction queue, so a single RWMutex is simpler than
// sync.Map here and keeps the map and the queue consistent.
package inmemorystore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/karelgrid/internal/runstore"
)

// DefaultCapacity is the number of records New keeps when given a
// non-positive capacity.
const DefaultCapacity = 1024

// Store is an in-memory implementation of runstore.Store that evicts the
// oldest record once it is full.
type Store struct {
	mu       sync.RWMutex
	capacity int
	records  map[uuid.UUID]runstore.Record
	order    []uuid.UUID // insertion order, oldest first
}

var _ runstore.Store = (*Store)(nil)

// New creates a new, empty store holding up to capacity records.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		records:  make(map[uuid.UUID]runstore.Record, capacity),
	}
}

// Put stores rec under its run ID.
func (s *Store) Put(ctx context.Context, rec runstore.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.ID()
	if _, exists := s.records[id]; !exists {
		if len(s.order) == s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.records, oldest)
		}
		s.order = append(s.order, id)
	}
	s.records[id] = rec
	return nil
}

// Get retrieves the record stored under id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (runstore.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return runstore.Record{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok, nil
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
