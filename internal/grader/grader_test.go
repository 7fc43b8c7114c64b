package grader_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/grader"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/runner"
	"github.com/vk/karelgrid/internal/testutil"
	"github.com/vk/karelgrid/internal/world"
)

var board3x3 = world.Board{Width: 3, Height: 3}

var movePutMove = interpreter.ProgramFunc(func(k interpreter.Karel) error {
	k.Move()
	k.PutBeeper()
	k.Move()
	return nil
})

func putCase() world.TestCase {
	return world.TestCase{
		Board:   board3x3,
		Initial: world.State{X: 0, Y: 2, Direction: world.East, Beepers: []world.Beeper{}},
		Goal:    world.State{X: 2, Y: 2, Direction: world.East, Beepers: []world.Beeper{{X: 1, Y: 2}}},
	}
}

// stubRunner returns canned results and ignores the program.
type stubRunner struct {
	result runner.Result
}

func (s stubRunner) Run(context.Context, interpreter.Program, world.State, world.Board) runner.Result {
	return s.result
}

func TestGradeAll_EndToEnd(t *testing.T) {
	t.Parallel()

	sweep := grader.New(runner.New()).GradeAll(context.Background(), movePutMove, []world.TestCase{putCase()})

	require.Len(t, sweep.Outcomes, 1)
	o := sweep.Outcomes[0]
	require.True(t, o.Done())
	assert.True(t, *o.Pass)
	assert.Empty(t, o.Diff)
	assert.True(t, sweep.AllPassed())
	assert.NoError(t, sweep.FirstError())
}

func TestGradeAll_IndependenceUnderPartialFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	unreachable := putCase()
	unreachable.Goal = world.State{X: 0, Y: 0, Direction: world.North}
	cases := []world.TestCase{unreachable, putCase()}

	for _, workers := range []int{1, 2} {
		// --- Act ---
		sweep := grader.New(runner.New(), grader.WithWorkers(workers)).GradeAll(context.Background(), movePutMove, cases)

		// --- Assert ---
		assert.Equal(t, []bool{false, true}, sweep.Passes(), "workers=%d", workers)
		assert.False(t, sweep.AllPassed())
		assert.Equal(t, 1, sweep.Passed())
		assert.Contains(t, sweep.Outcomes[0].Diff, "Direction")
		assert.Equal(t, 0, sweep.Outcomes[0].Index)
		assert.Equal(t, 1, sweep.Outcomes[1].Index)
	}
}

func TestGradeAll_FailedRunDoesNotStopSweep(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The program gives up on the wide board only.
	program := interpreter.ProgramFunc(func(k interpreter.Karel) error {
		k.Move()
		if !k.FrontIsBlocked() {
			return errors.New("board too wide")
		}
		k.PutBeeper()
		return nil
	})
	wide := world.TestCase{
		Board:   world.Board{Width: 5, Height: 1},
		Initial: world.State{Direction: world.East},
		Goal:    world.State{X: 1, Direction: world.East, Beepers: []world.Beeper{{X: 1}}},
	}
	narrow := world.TestCase{
		Board:   world.Board{Width: 2, Height: 1},
		Initial: world.State{Direction: world.East},
		Goal:    world.State{X: 1, Direction: world.East, Beepers: []world.Beeper{{X: 1}}},
	}

	// --- Act ---
	sweep := grader.New(runner.New()).GradeAll(context.Background(), program, []world.TestCase{wide, narrow, wide})

	// --- Assert ---
	assert.Equal(t, []bool{false, true, false}, sweep.Passes())
	require.EqualError(t, sweep.FirstError(), "board too wide")
	assert.Empty(t, sweep.Outcomes[0].Diff, "failed runs are not compared")
	for _, o := range sweep.Outcomes {
		assert.True(t, o.Done())
	}
}

func TestGrade_EmptyTrajectoryFails(t *testing.T) {
	t.Parallel()

	stub := stubRunner{result: runner.Result{Status: runner.Completed}}
	out := grader.New(stub).Grade(context.Background(), 3, movePutMove, putCase())

	require.NotNil(t, out.Pass)
	assert.False(t, *out.Pass)
	assert.Equal(t, 3, out.Index)
	assert.Equal(t, "run produced no states", out.Diagnostic)
}

func TestGrade_Equality(t *testing.T) {
	t.Parallel()

	// Two beepers stacked on (1,2) against a goal with one on (1,2) and one
	// on (0,2): equal counts, every final beeper has a goal match.
	twice := interpreter.ProgramFunc(func(k interpreter.Karel) error {
		k.Move()
		k.PutBeeper()
		k.PutBeeper()
		k.Move()
		return nil
	})
	tc := putCase()
	tc.Goal.Beepers = []world.Beeper{{X: 1, Y: 2}, {X: 0, Y: 2}}

	exact := grader.New(runner.New()).Grade(context.Background(), 0, twice, tc)
	loose := grader.New(runner.New(), grader.WithEquality(world.StatesLooselyEqual)).Grade(context.Background(), 0, twice, tc)

	assert.False(t, *exact.Pass)
	assert.NotEmpty(t, exact.Diff)
	assert.True(t, *loose.Pass)
}

func TestGradeAll_WorkersPreserveOrder(t *testing.T) {
	t.Parallel()

	cases := make([]world.TestCase, 20)
	for i := range cases {
		width := i + 1
		cases[i] = world.TestCase{
			Board:   world.Board{Width: width, Height: 1},
			Initial: world.State{Direction: world.East},
			Goal:    world.State{X: width - 1, Direction: world.East},
		}
	}
	walk := interpreter.ProgramFunc(func(k interpreter.Karel) error {
		for !k.FrontIsBlocked() {
			k.Move()
		}
		return nil
	})

	sweep := grader.New(runner.New(), grader.WithWorkers(4)).GradeAll(context.Background(), walk, cases)

	require.Len(t, sweep.Outcomes, len(cases))
	assert.True(t, sweep.AllPassed())
	for i, o := range sweep.Outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, cases[i], o.Case)
		// One query per cell plus one move per step.
		assert.Len(t, o.Result.States, 1+2*(i+1)-1)
	}
}

func TestGradeAll_LogsEachCase(t *testing.T) {
	t.Parallel()

	logs := &testutil.SafeBuffer{}
	ctx := ctxlog.WithLogger(context.Background(), testutil.NewTextLogger(logs))

	grader.New(runner.New()).GradeAll(ctx, movePutMove, []world.TestCase{putCase()})

	assert.Contains(t, logs.String(), "Case graded.")
	assert.Contains(t, logs.String(), "pass=true")
	assert.Contains(t, logs.String(), "Grading finished.")
}

func TestSweep_Helpers(t *testing.T) {
	t.Parallel()

	t.Run("empty sweep has not passed", func(t *testing.T) {
		assert.False(t, grader.Sweep{}.AllPassed())
	})

	t.Run("pending outcomes are not done", func(t *testing.T) {
		pending := grader.Pending([]world.TestCase{putCase(), putCase()})
		require.Len(t, pending, 2)
		for i, o := range pending {
			assert.Equal(t, i, o.Index)
			assert.Nil(t, o.Result)
			assert.Nil(t, o.Pass)
			assert.False(t, o.Done())
		}
		assert.Equal(t, []bool{false, false}, grader.Sweep{Outcomes: pending}.Passes())
	})
}
