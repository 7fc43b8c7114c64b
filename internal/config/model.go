package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/world"
)

var (
	// ErrDuplicate is returned when two files define the same exercise or program.
	ErrDuplicate = errors.New("duplicate definition")
	// ErrInvalidExercise is returned by Validate for unusable exercises.
	ErrInvalidExercise = errors.New("invalid exercise")
)

// Model is the unified, format-agnostic representation of an exercise
// catalog and the programs that come with it.
type Model struct {
	Exercises []*Exercise
	Programs  map[string]*Program
}

// Exercise is one task for the learner: a set of test cases that a single
// program must pass.
type Exercise struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Solution    string           `json:"-"`
	Cases       []world.TestCase `json:"cases"`
	Source      string           `json:"-"`
}

// Program is a named, ready-to-run program.
type Program struct {
	Name    string
	Program interpreter.Program
	Source  string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Programs: make(map[string]*Program)}
}

// Exercise looks up an exercise by ID.
func (m *Model) Exercise(id string) (*Exercise, bool) {
	for _, ex := range m.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return nil, false
}

// SolutionFor returns the reference program of ex, if it has one.
func (m *Model) SolutionFor(ex *Exercise) (*Program, bool) {
	if ex.Solution == "" {
		return nil, false
	}
	p, ok := m.Programs[ex.Solution]
	return p, ok
}

// AddExercise appends ex, rejecting a second exercise with the same ID.
func (m *Model) AddExercise(ex *Exercise) error {
	if prev, ok := m.Exercise(ex.ID); ok {
		return fmt.Errorf("%w: exercise %q in %s was already defined in %s", ErrDuplicate, ex.ID, ex.Source, prev.Source)
	}
	m.Exercises = append(m.Exercises, ex)
	return nil
}

// AddProgram registers p, rejecting a second program with the same name.
func (m *Model) AddProgram(p *Program) error {
	if prev, ok := m.Programs[p.Name]; ok {
		return fmt.Errorf("%w: program %q in %s was already defined in %s", ErrDuplicate, p.Name, p.Source, prev.Source)
	}
	m.Programs[p.Name] = p
	return nil
}

// Merge moves every definition of other into m.
func (m *Model) Merge(other *Model) error {
	for _, ex := range other.Exercises {
		if err := m.AddExercise(ex); err != nil {
			return err
		}
	}
	for _, p := range other.Programs {
		if err := m.AddProgram(p); err != nil {
			return err
		}
	}
	return nil
}

// Sort orders exercises by ID.
func (m *Model) Sort() {
	sort.SliceStable(m.Exercises, func(i, j int) bool {
		return m.Exercises[i].ID < m.Exercises[j].ID
	})
}

// Validate checks every exercise: a non-empty ID, at least one case, cases
// that fit on their boards and a solution that names a known program.
func (m *Model) Validate() error {
	var errs []error
	for _, ex := range m.Exercises {
		if err := m.validateExercise(ex); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Model) validateExercise(ex *Exercise) error {
	if ex.ID == "" {
		return fmt.Errorf("%w: exercise in %s has no id", ErrInvalidExercise, ex.Source)
	}
	if len(ex.Cases) == 0 {
		return fmt.Errorf("%w: exercise %q has no cases", ErrInvalidExercise, ex.ID)
	}
	for i, tc := range ex.Cases {
		if err := tc.Validate(); err != nil {
			return fmt.Errorf("%w: exercise %q case %d: %w", ErrInvalidExercise, ex.ID, i, err)
		}
	}
	if ex.Solution != "" {
		if _, ok := m.Programs[ex.Solution]; !ok {
			return fmt.Errorf("%w: exercise %q names unknown solution program %q", ErrInvalidExercise, ex.ID, ex.Solution)
		}
	}
	return nil
}
