// Package runstore defines the interface for keeping graded runs after the
// grading request that produced them has finished.
//
// # Why Run Store Exists
//
// A grading response already carries every trajectory, but clients that
// replay a run step by step want to fetch one run by its ID later. The run
// store separates that lookup from the grader, which stays stateless.
//
// # Lifecycle
//
// Records are:
//  1. **Written** by the HTTP layer once a case has been graded
//  2. **Read** by ID when a client asks for a single run
//  3. **Evicted** by the implementation when it runs out of room
package runstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/vk/karelgrid/internal/runner"
)

// Record is one graded run.
type Record struct {
	ExerciseID string        `json:"exercise_id"`
	Case       int           `json:"case"`
	Pass       bool          `json:"pass"`
	Result     runner.Result `json:"result"`
}

// ID returns the run ID the record is stored under.
func (r Record) ID() uuid.UUID {
	return r.Result.RunID
}

// Store is the interface for keeping graded runs.
//
// Implementations MUST be safe for concurrent use: many requests grade and
// read at the same time.
type Store interface {
	// Put stores rec under its run ID, replacing any earlier record.
	Put(ctx context.Context, rec Record) error

	// Get returns the record stored under id. The boolean is false when
	// there is no such record, either because it never existed or because
	// it was evicted.
	Get(ctx context.Context, id uuid.UUID) (Record, bool, error)
}
