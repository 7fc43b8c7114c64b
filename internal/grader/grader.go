// Package grader runs a program over every test case of an exercise and
// compares each final state with its goal. A failing case never stops the
// sweep; every case is run and reported in order.
package grader

import (
	"context"
	"errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/runner"
	"github.com/vk/karelgrid/internal/world"
	"golang.org/x/sync/errgroup"
)

// ErrNoStates is the diagnostic for a completed run without a trajectory.
var ErrNoStates = errors.New("run produced no states")

// Runner is the part of runner.Runner the grader needs.
type Runner interface {
	Run(ctx context.Context, program interpreter.Program, initial world.State, board world.Board) runner.Result
}

// Option configures a Grader.
type Option func(*Grader)

// WithWorkers runs up to n cases at the same time. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(g *Grader) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithEquality replaces world.StatesEqual as the goal comparison.
func WithEquality(eq world.Equality) Option {
	return func(g *Grader) {
		if eq != nil {
			g.equal = eq
		}
	}
}

// Grader grades programs against test cases.
type Grader struct {
	runner  Runner
	workers int
	equal   world.Equality
}

// New creates a Grader that runs cases one after another with exact
// multiset comparison of beepers.
func New(r Runner, opts ...Option) *Grader {
	g := &Grader{
		runner:  r,
		workers: 1,
		equal:   world.StatesEqual,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var stateDiffOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.SortSlices(func(a, b world.Beeper) bool {
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	}),
}

// Grade runs a single case. The returned Outcome always has Result and Pass
// set.
func (g *Grader) Grade(ctx context.Context, index int, program interpreter.Program, tc world.TestCase) Outcome {
	res := g.runner.Run(ctx, program, tc.Initial, tc.Board)
	out := Outcome{Index: index, Case: tc, Result: &res}

	pass := false
	switch {
	case !res.OK():
	case len(res.States) == 0:
		out.Diagnostic = ErrNoStates.Error()
	default:
		final := res.States[len(res.States)-1]
		pass = g.equal(final, tc.Goal)
		if !pass {
			out.Diff = cmp.Diff(tc.Goal, final, stateDiffOpts)
		}
	}
	out.Pass = &pass

	ctxlog.FromContext(ctx).Info("Case graded.",
		"case", index,
		"run_id", res.RunID,
		"pass", pass,
		"states", len(res.States),
		"error", res.Message(),
	)
	return out
}

// GradeAll grades program against every case and returns the outcomes in
// case order. Cases are independent: each run gets its own interpreter.
func (g *Grader) GradeAll(ctx context.Context, program interpreter.Program, cases []world.TestCase) Sweep {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Grading started.", "cases", len(cases), "workers", g.workers)

	outcomes := Pending(cases)
	if g.workers <= 1 || len(cases) <= 1 {
		for i, tc := range cases {
			outcomes[i] = g.Grade(ctx, i, program, tc)
		}
	} else {
		g.gradeConcurrently(ctx, program, cases, outcomes)
	}

	sweep := Sweep{Outcomes: outcomes}
	logger.Info("Grading finished.", "cases", len(cases), "passed", sweep.Passed(), "all_passed", sweep.AllPassed())
	return sweep
}

// gradeConcurrently runs up to g.workers cases at a time. Each goroutine
// writes only the outcome slot of its own case.
func (g *Grader) gradeConcurrently(ctx context.Context, program interpreter.Program, cases []world.TestCase, outcomes []Outcome) {
	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i, tc := range cases {
		eg.Go(func() error {
			outcomes[i] = g.Grade(ctx, i, program, tc)
			return nil
		})
	}
	_ = eg.Wait()
}
