package hcl

import (
	"fmt"

	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/script"
	"github.com/vk/karelgrid/internal/world"
)

// translateExercise converts the HCL-specific exercise schema into the agnostic model.
func translateExercise(file string, b *exerciseBlock) (*config.Exercise, error) {
	ex := &config.Exercise{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Solution:    b.Solution,
		Source:      file,
	}
	for i, c := range b.Cases {
		tc, err := translateCase(c)
		if err != nil {
			return nil, fmt.Errorf("%s: exercise %q case %d: %w", file, b.ID, i, err)
		}
		ex.Cases = append(ex.Cases, tc)
	}
	return ex, nil
}

func translateCase(c *caseBlock) (world.TestCase, error) {
	initial, err := translateState(c.Initial)
	if err != nil {
		return world.TestCase{}, fmt.Errorf("initial: %w", err)
	}
	goal, err := translateState(c.Goal)
	if err != nil {
		return world.TestCase{}, fmt.Errorf("goal: %w", err)
	}
	return world.TestCase{
		Board:   world.Board{Width: c.Board.Width, Height: c.Board.Height},
		Initial: initial,
		Goal:    goal,
	}, nil
}

func translateState(s stateBlock) (world.State, error) {
	dir, err := world.ParseDirection(s.Direction)
	if err != nil {
		return world.State{}, err
	}
	beepers := make([]world.Beeper, 0, len(s.Beepers))
	for _, b := range s.Beepers {
		beepers = append(beepers, world.Beeper{X: b.X, Y: b.Y})
	}
	return world.State{X: s.X, Y: s.Y, Direction: dir, Beepers: beepers}, nil
}

// translateProgram compiles a program block.
func translateProgram(file string, b *programBlock) (*config.Program, error) {
	prog, diags := script.Compile(b.Name, b.Body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to compile program %q: %w", b.Name, diags)
	}
	return &config.Program{
		Name:    b.Name,
		Program: prog,
		Source:  file,
	}, nil
}
