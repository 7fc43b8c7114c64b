package grader

import (
	"github.com/vk/karelgrid/internal/runner"
	"github.com/vk/karelgrid/internal/world"
)

// Outcome is the grading of one test case. Result and Pass are nil while
// the case has not been run.
type Outcome struct {
	Index      int            `json:"index"`
	Case       world.TestCase `json:"case"`
	Result     *runner.Result `json:"result"`
	Pass       *bool          `json:"pass"`
	Diff       string         `json:"diff,omitempty"`
	Diagnostic string         `json:"diagnostic,omitempty"`
}

// Done reports whether the case has been run.
func (o Outcome) Done() bool {
	return o.Result != nil && o.Pass != nil
}

// Passed reports whether the case ran and reached its goal.
func (o Outcome) Passed() bool {
	return o.Pass != nil && *o.Pass
}

// Pending returns one not-yet-run outcome per case, for callers that show
// the list before grading finishes.
func Pending(cases []world.TestCase) []Outcome {
	outcomes := make([]Outcome, len(cases))
	for i, tc := range cases {
		outcomes[i] = Outcome{Index: i, Case: tc}
	}
	return outcomes
}

// Sweep is the result of grading every case of an exercise.
type Sweep struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Passes lists the pass flag of every outcome in order. Unrun cases count
// as failures.
func (s Sweep) Passes() []bool {
	out := make([]bool, len(s.Outcomes))
	for i, o := range s.Outcomes {
		out[i] = o.Passed()
	}
	return out
}

// Passed counts the passing cases.
func (s Sweep) Passed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Passed() {
			n++
		}
	}
	return n
}

// AllPassed reports whether there is at least one case and every case
// passed.
func (s Sweep) AllPassed() bool {
	return len(s.Outcomes) > 0 && s.Passed() == len(s.Outcomes)
}

// FirstError returns the error of the first case whose run failed.
func (s Sweep) FirstError() error {
	for _, o := range s.Outcomes {
		if o.Result != nil && o.Result.Err != nil {
			return o.Result.Err
		}
	}
	return nil
}
