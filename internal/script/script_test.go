package script_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/runner"
	"github.com/vk/karelgrid/internal/script"
	"github.com/vk/karelgrid/internal/testutil"
	"github.com/vk/karelgrid/internal/world"
)

var board3x3 = world.Board{Width: 3, Height: 3}

func mustParse(t *testing.T, src string) *script.Program {
	t.Helper()
	prog, diags := script.ParseSource("test.hcl", []byte(src))
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())
	require.NotNil(t, prog)
	return prog
}

func run(t *testing.T, src string, initial world.State, board world.Board) runner.Result {
	t.Helper()
	return runner.New().Run(context.Background(), mustParse(t, src), initial, board)
}

func final(t *testing.T, res runner.Result) world.State {
	t.Helper()
	require.True(t, res.OK(), "run failed: %v", res.Err)
	s, ok := res.Final()
	require.True(t, ok)
	return s
}

func TestScript_PrimitivesEndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
program "put_one" {
  move {}
  put_beeper {}
  move {}
}
`
	initial := world.State{X: 0, Y: 2, Direction: world.East}
	goal := world.State{X: 2, Y: 2, Direction: world.East, Beepers: []world.Beeper{{X: 1, Y: 2}}}

	// --- Act ---
	res := run(t, src, initial, board3x3)

	// --- Assert ---
	assert.True(t, world.StatesEqual(goal, final(t, res)))
	assert.Len(t, res.States, 4)
	assert.Equal(t, "put_one", mustParse(t, src).Name())
}

func TestScript_StatementsWithoutProgramBlock(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, "turn_left {}\nturn_left {}\n")

	assert.Equal(t, script.DefaultName, prog.Name())
	res := runner.New().Run(context.Background(), prog, world.State{Direction: world.East}, board3x3)
	assert.Equal(t, world.West, final(t, res).Direction)
}

func TestScript_Repeat(t *testing.T) {
	t.Parallel()

	res := run(t, `
repeat {
  times = 3
  turn_left {}
}
repeat {
  times = 0
  move {}
}
`, world.State{Direction: world.North}, board3x3)

	assert.Equal(t, world.East, final(t, res).Direction)
	assert.Len(t, res.States, 4)
}

func TestScript_WhileWalksToWall(t *testing.T) {
	t.Parallel()

	res := run(t, `
while {
  condition = front_is_clear
  move {}
}
`, world.State{X: 0, Y: 1, Direction: world.East}, world.Board{Width: 5, Height: 3})

	assert.Equal(t, 4, final(t, res).X)
	// Five queries and four moves.
	assert.Len(t, res.States, 1+5+4)
}

func TestScript_IfElse(t *testing.T) {
	t.Parallel()

	src := `
if {
  condition = beepers_present
  pick_beeper {}
  else {
    put_beeper {}
  }
}
`
	withBeeper := run(t, src, world.State{X: 1, Y: 1, Beepers: []world.Beeper{{X: 1, Y: 1}}}, board3x3)
	without := run(t, src, world.State{X: 1, Y: 1}, board3x3)

	assert.Empty(t, final(t, withBeeper).Beepers)
	assert.Equal(t, []world.Beeper{{X: 1, Y: 1}}, final(t, without).Beepers)
}

func TestScript_ConditionQueriesEachVariableOnce(t *testing.T) {
	t.Parallel()

	// front_is_blocked is mentioned twice but asked once per evaluation;
	// facing_east is asked even though && could have stopped early.
	res := run(t, `
if {
  condition = front_is_blocked && (facing_east || front_is_blocked)
  turn_left {}
}
`, world.State{X: 1, Y: 1, Direction: world.North}, board3x3)

	require.True(t, res.OK())
	assert.Len(t, res.States, 1+2, "two queries and no turn")
	assert.Equal(t, world.North, final(t, res).Direction)
}

func TestScript_ProceduresAndRecursion(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
program "clean_row" {
  walk {}
  turn_around {}

  procedure "walk" {
    if {
      condition = beepers_present
      pick_beeper {}
    }
    if {
      condition = front_is_clear
      move {}
      walk {}
    }
  }

  procedure "turn_around" {
    repeat {
      times = 2
      turn_left {}
    }
  }
}
`
	initial := world.State{Direction: world.East, Beepers: []world.Beeper{{X: 1}, {X: 3}, {X: 3}}}

	// --- Act ---
	prog := mustParse(t, src)
	res := runner.New().Run(context.Background(), prog, initial, world.Board{Width: 4, Height: 1})

	// --- Assert ---
	got := final(t, res)
	assert.Equal(t, 2, prog.Procedures())
	assert.Equal(t, 3, got.X)
	assert.Equal(t, world.West, got.Direction)
	assert.Equal(t, []world.Beeper{{X: 3}}, got.Beepers, "one beeper is picked per visit")
}

func TestScript_RunawayRecursionFails(t *testing.T) {
	t.Parallel()

	res := run(t, `
procedure "again" {
  again {}
}
again {}
`, world.State{}, board3x3)

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, script.ErrCallDepth)
}

// spinning issues no commands at all, so only the loop checks can stop it.
const spinning = `
repeat {
  times = 1000000000000
  repeat {
    times = 1000000000000
  }
}
`

func TestScript_EmptyLoopsHonorBudget(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	clock := testutil.NewStepClock(100 * time.Millisecond)
	r := runner.New(runner.WithClock(clock.Now))

	// --- Act ---
	res := r.Run(context.Background(), mustParse(t, spinning), world.State{}, board3x3)

	// --- Assert ---
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, interpreter.ErrTimeout)
	var fault *interpreter.Fault
	require.ErrorAs(t, res.Err, &fault)
	assert.Equal(t, "repeat", fault.Command)
	assert.Empty(t, res.States)
}

func TestScript_EmptyLoopsHonorRealBudget(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, spinning)
	r := runner.New(runner.WithBudget(50 * time.Millisecond))

	done := make(chan runner.Result, 1)
	go func() {
		done <- r.Run(context.Background(), prog, world.State{}, board3x3)
	}()

	select {
	case res := <-done:
		assert.ErrorIs(t, res.Err, interpreter.ErrTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after its budget ran out")
	}
}

func TestScript_EmptyLoopsHonorContext(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	r := runner.New(runner.WithBudget(time.Hour))

	// --- Act ---
	res := r.Run(ctx, mustParse(t, spinning), world.State{}, board3x3)

	// --- Assert ---
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestScript_ProcedureCallsAreChecked(t *testing.T) {
	t.Parallel()

	// The calls never nest, so only the budget can end this run.
	clock := testutil.NewStepClock(100 * time.Millisecond)
	r := runner.New(runner.WithClock(clock.Now))

	res := r.Run(context.Background(), mustParse(t, `
procedure "idle" {
}
repeat {
  times = 1000000
  idle {}
}
`), world.State{}, board3x3)

	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, interpreter.ErrTimeout)
}

func TestScript_RuntimeConditionError(t *testing.T) {
	t.Parallel()

	// The type check passes for an unknown bool, but at run time the
	// conditional picks the string branch.
	res := run(t, `
if {
  condition = facing_north ? "maybe" : true
  move {}
}
`, world.State{Direction: world.North}, board3x3)

	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, script.ErrCondition)
}

func TestScript_ConcurrentRuns(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, `
while {
  condition = front_is_clear
  put_beeper {}
  move {}
}
`)
	r := runner.New()

	var wg sync.WaitGroup
	results := make([]runner.Result, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Run(context.Background(), prog, world.State{Direction: world.East}, world.Board{Width: i + 2, Height: 1})
		}()
	}
	wg.Wait()

	for i, res := range results {
		got := final(t, res)
		assert.Equal(t, i+1, got.X)
		assert.Len(t, got.Beepers, i+1)
	}
}

func TestParseSource_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		summary string
		detail  string
	}{
		{name: "syntax error", src: "move {", summary: "Unclosed configuration block"},
		{name: "unknown statement", src: "mvoe {}", summary: "Unknown statement", detail: `Did you mean "move"?`},
		{name: "negative repeat", src: "repeat {\n times = -1\n move {}\n}", summary: "Invalid repeat count"},
		{name: "fractional repeat", src: "repeat {\n times = 1.5\n}", summary: "Invalid repeat count"},
		{name: "missing times", src: "repeat {\n move {}\n}", summary: "Missing required argument"},
		{name: "extra argument", src: "while {\n condition = front_is_clear\n times = 2\n}", summary: "Unsupported argument"},
		{name: "unknown condition", src: "while {\n condition = front_is_clean\n}", summary: "Unknown condition", detail: `Did you mean "front_is_clear"?`},
		{name: "constant loop", src: "while {\n condition = true\n move {}\n}", summary: "Constant loop condition"},
		{name: "non-bool condition", src: "if {\n condition = 3\n}", summary: "Invalid condition"},
		{name: "attribute access", src: "if {\n condition = facing_north.value\n}", summary: "Invalid condition"},
		{name: "else outside if", src: "else {}", summary: "Misplaced else"},
		{name: "two else blocks", src: "if {\n condition = facing_north\n else {}\n else {}\n}", summary: "Duplicate else block"},
		{name: "primitive with content", src: "move {\n steps = 2\n}", summary: "Unexpected block content"},
		{name: "labelled primitive", src: `move "far" {}`, summary: "Unexpected label"},
		{name: "duplicate procedure", src: "procedure \"a\" {}\nprocedure \"a\" {}", summary: "Duplicate procedure"},
		{name: "reserved procedure name", src: `procedure "move" {}`, summary: "Invalid procedure name"},
		{name: "nested procedure", src: "repeat {\n times = 1\n procedure \"p\" {}\n}", summary: "Misplaced procedure"},
		{name: "top level argument", src: "speed = 3\nmove {}", summary: "Unsupported argument"},
		{name: "two programs", src: "program \"a\" {}\nprogram \"b\" {}", summary: "Too many programs"},
		{name: "content next to program", src: "program \"a\" {}\nmove {}", summary: "Unexpected content"},
		{name: "unlabelled program", src: "program {}", summary: "Invalid program block"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prog, diags := script.ParseSource("bad.hcl", []byte(tc.src))

			require.True(t, diags.HasErrors(), "expected diagnostics")
			assert.Nil(t, prog)

			var summaries, details []string
			for _, d := range diags {
				summaries = append(summaries, d.Summary)
				details = append(details, d.Detail)
			}
			assert.Contains(t, summaries, tc.summary)
			if tc.detail != "" {
				found := false
				for _, d := range details {
					if strings.Contains(d, tc.detail) {
						found = true
					}
				}
				assert.True(t, found, "no diagnostic detail contains %q: %v", tc.detail, details)
			}
		})
	}
}

func TestQueryNames(t *testing.T) {
	t.Parallel()

	names := script.QueryNames()
	assert.Len(t, names, 14)
	assert.Contains(t, names, "no_beepers_present")
	assert.Equal(t, []string{"move", "pick_beeper", "put_beeper", "turn_left"}, script.PrimitiveNames())
}
