package runner

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/karelgrid/internal/world"
)

// Status tracks a run through NotStarted → Running → Completed | Failed.
type Status int

const (
	NotStarted Status = iota
	Running
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one run: either the complete trajectory or the
// error that aborted it. A failed run carries no states.
type Result struct {
	RunID  uuid.UUID
	Status Status
	States []world.State
	Err    error
}

// OK reports whether the run completed without error.
func (r Result) OK() bool {
	return r.Status == Completed && r.Err == nil
}

// Final returns the last recorded state.
func (r Result) Final() (world.State, bool) {
	if !r.OK() || len(r.States) == 0 {
		return world.State{}, false
	}
	return r.States[len(r.States)-1], true
}

// Message is the error text of a failed run, or "" when it succeeded.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

type resultJSON struct {
	RunID   uuid.UUID     `json:"run_id"`
	Status  Status        `json:"status"`
	Error   bool          `json:"error"`
	Message string        `json:"message,omitempty"`
	States  []world.State `json:"states,omitempty"`
}

// MarshalJSON renders the result as {"error":false,"states":[...]} or
// {"error":true,"message":"..."}, with the run id and status alongside.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		RunID:  r.RunID,
		Status: r.Status,
		Error:  !r.OK(),
	}
	if out.Error {
		out.Message = r.Message()
	} else {
		out.States = r.States
	}
	return json.Marshal(out)
}
