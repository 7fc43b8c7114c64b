package world

import "fmt"

// TestCase is one graded instance of an exercise: a board, the state the
// robot starts in and the state it must finish in.
type TestCase struct {
	Board   Board `json:"context" yaml:"context"`
	Initial State `json:"initialState" yaml:"initialState"`
	Goal    State `json:"goalState" yaml:"goalState"`
}

// Validate checks the board and that both states fit on it.
func (tc TestCase) Validate() error {
	if err := tc.Board.Validate(); err != nil {
		return err
	}
	if err := tc.Initial.Validate(tc.Board); err != nil {
		return fmt.Errorf("initial state: %w", err)
	}
	if err := tc.Goal.Validate(tc.Board); err != nil {
		return fmt.Errorf("goal state: %w", err)
	}
	return nil
}
