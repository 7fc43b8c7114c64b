// Package runner executes one program against one initial state. Each run
// gets a fresh interpreter, so nothing survives from one run to the next,
// and every fault the program raises is turned into a failed Result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/world"
)

var (
	// ErrNoProgram is reported when Run is called with a nil program.
	ErrNoProgram = errors.New("no program to run")
	// ErrUnknown stands in for panics that carry neither an error nor a string.
	ErrUnknown = errors.New("unknown error")
)

// Option configures a Runner.
type Option func(*Runner)

// WithBudget sets the time budget of every run. Non-positive values are
// ignored.
func WithBudget(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.budget = d
		}
	}
}

// WithClock replaces time.Now in every interpreter the runner creates.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithLogger makes the runner log to logger instead of the context logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner runs programs. It holds only configuration and is safe for
// concurrent use.
type Runner struct {
	budget time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// New creates a Runner with the default one second budget.
func New(opts ...Option) *Runner {
	r := &Runner{budget: interpreter.DefaultBudget}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Budget returns the time budget applied to each run.
func (r *Runner) Budget() time.Duration {
	return r.budget
}

// Run resets a new interpreter to initial on board and invokes program.
// It never panics and never returns a partial trajectory. A nil ctx is
// treated as context.Background().
func (r *Runner) Run(ctx context.Context, program interpreter.Program, initial world.State, board world.Board) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	res := Result{RunID: uuid.New(), Status: NotStarted}
	logger := r.logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}
	logger = logger.With("run_id", res.RunID)

	if program == nil {
		return res.fail(logger, ErrNoProgram)
	}
	if err := board.Validate(); err != nil {
		return res.fail(logger, err)
	}
	if err := initial.Validate(board); err != nil {
		return res.fail(logger, err)
	}

	it := interpreter.New(interpreter.WithBudget(r.budget), interpreter.WithClock(r.now))
	it.Reset(ctxlog.WithLogger(ctx, logger), initial, board)
	res.Status = Running
	logger.Debug("Run started.", "board", board.String(), "initial", initial.String())

	if err := invoke(program, it); err != nil {
		return res.fail(logger, err)
	}

	res.Status = Completed
	res.States = it.Trajectory()
	logger.Debug("Run completed.", "states", len(res.States))
	return res
}

func (res Result) fail(logger *slog.Logger, err error) Result {
	res.Status = Failed
	res.Err = err
	res.States = nil
	logger.Debug("Run failed.", "error", err)
	return res
}

// invoke calls the program and converts whatever it raises into an error.
func invoke(program interpreter.Program, it *interpreter.Interpreter) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(rec)
		}
	}()
	if err := program.Run(it); err != nil {
		return err
	}
	// A program may recover an interpreter fault and return normally.
	if err := it.Err(); err != nil {
		return errors.Unwrap(err)
	}
	return nil
}

func panicError(rec any) error {
	var fault *interpreter.Fault
	switch v := rec.(type) {
	case error:
		if errors.As(v, &fault) {
			return fault.Err
		}
		return v
	case string:
		return errors.New(v)
	case fmt.Stringer:
		return errors.New(v.String())
	default:
		return ErrUnknown
	}
}
