// Package interpreter implements the Karel command bus. An Interpreter owns
// the mutable state of exactly one run: the board, the trajectory of states
// and the moment the run started. Each command goes through Dispatch, which
// enforces the time budget before applying a pure transition.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/world"
)

// DefaultBudget is the wall-clock time a single run may take.
const DefaultBudget = 1000 * time.Millisecond

var (
	// ErrTimeout fails a run whose elapsed time exceeds the budget.
	ErrTimeout = errors.New("program took too long to run")
	// ErrNotReset is raised when a command is issued before Reset.
	ErrNotReset = errors.New("run state not initialised")
)

// Transition computes the next state from the latest one. The bool is the
// value returned to the program; commands without a result ignore it.
type Transition func(latest world.State, board world.Board) (world.State, bool)

// Fault is the panic value used to abort a run from inside a command.
type Fault struct {
	Command string
	Err     error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Command, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithBudget overrides DefaultBudget. Non-positive values are ignored.
func WithBudget(d time.Duration) Option {
	return func(i *Interpreter) {
		if d > 0 {
			i.budget = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		if now != nil {
			i.now = now
		}
	}
}

// Interpreter executes commands for a single run. It is not safe for
// concurrent use; use one Interpreter per run.
type Interpreter struct {
	budget time.Duration
	now    func() time.Time

	ctx        context.Context
	logger     *slog.Logger
	board      world.Board
	trajectory []world.State
	start      time.Time
	armed      bool
	fault      *Fault
}

var (
	_ Karel   = (*Interpreter)(nil)
	_ Checker = (*Interpreter)(nil)
)

// New creates an Interpreter. Reset must be called before any command.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		budget: DefaultBudget,
		now:    time.Now,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Reset discards any previous run and starts a new one from initial on
// board. The clock starts now.
func (i *Interpreter) Reset(ctx context.Context, initial world.State, board world.Board) {
	i.ctx = ctx
	i.logger = ctxlog.FromContext(ctx)
	i.board = board
	i.trajectory = []world.State{initial.Clone()}
	i.fault = nil
	i.armed = true
	i.start = i.now()
}

// Dispatch checks the time budget and the context, then applies t to the
// latest state and records the result. Any failure panics with a *Fault.
// Once a run has faulted every later dispatch panics with the same fault,
// so a program cannot swallow it and carry on.
func (i *Interpreter) Dispatch(name string, t Transition) bool {
	if f := i.guard(name); f != nil {
		panic(f)
	}

	next, v := t(i.trajectory[len(i.trajectory)-1], i.board)
	i.trajectory = append(i.trajectory, next)
	return v
}

// Check runs the budget and context checks of Dispatch without issuing a
// command, so control flow that issues no commands still ends in time.
// name identifies the caller in the fault. A failed check is sticky like a
// failed dispatch, but it is returned instead of raised.
func (i *Interpreter) Check(name string) error {
	if f := i.guard(name); f != nil {
		return f
	}
	return nil
}

func (i *Interpreter) guard(name string) *Fault {
	if !i.armed {
		return &Fault{Command: name, Err: ErrNotReset}
	}
	if i.fault != nil {
		return i.fault
	}
	if elapsed := i.now().Sub(i.start); elapsed > i.budget {
		return i.abort(name, ErrTimeout, "elapsed", elapsed)
	}
	if err := i.ctx.Err(); err != nil {
		return i.abort(name, err)
	}
	return nil
}

func (i *Interpreter) abort(name string, err error, attrs ...any) *Fault {
	i.fault = &Fault{Command: name, Err: err}
	args := append([]any{"command", name, "states", len(i.trajectory), "error", err}, attrs...)
	i.logger.Debug("Run aborted.", args...)
	return i.fault
}

// Trajectory returns a copy of the states recorded so far. The states
// themselves must be treated as read-only.
func (i *Interpreter) Trajectory() []world.State {
	if i.trajectory == nil {
		return nil
	}
	out := make([]world.State, len(i.trajectory))
	copy(out, i.trajectory)
	return out
}

// Err returns the error that aborted the current run, if any.
func (i *Interpreter) Err() error {
	if i.fault == nil {
		return nil
	}
	return i.fault
}

// Board returns the board of the current run.
func (i *Interpreter) Board() world.Board {
	return i.board
}
