package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/interpreter"
	"github.com/vk/karelgrid/internal/script"
)

var (
	// ErrUnknownExercise is returned when ExerciseID is not in the catalog.
	ErrUnknownExercise = errors.New("unknown exercise")
	// ErrCasesFailed is returned when at least one graded case did not pass.
	ErrCasesFailed = errors.New("not every case passed")
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.logger.Debug("App.Run method finished.")

	switch {
	case a.config.List:
		a.printer.Exercises(a.catalog.Exercises)
		return nil
	case a.config.ServeAddr != "":
		return a.serve(ctx)
	default:
		return a.grade(ctx)
	}
}

func (a *App) grade(ctx context.Context) error {
	exercises := a.catalog.Exercises
	if id := a.config.ExerciseID; id != "" {
		ex, ok := a.catalog.Exercise(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownExercise, id)
		}
		exercises = []*config.Exercise{ex}
	}

	submitted, err := a.loadProgram()
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Grading started.", "exercises", len(exercises), "workers", a.config.Workers, "budget", a.config.Budget)
	failed := 0
	for _, ex := range exercises {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			program interpreter.Program
			name    string
		)
		if submitted != nil {
			program, name = submitted, submitted.Name()
		} else {
			solution, ok := a.catalog.SolutionFor(ex)
			if !ok {
				a.logger.Warn("Exercise has no reference solution, skipping.", "exercise", ex.ID)
				continue
			}
			program, name = solution.Program, solution.Name
		}

		sweep := a.grader.GradeAll(ctx, program, ex.Cases)
		a.printer.Sweep(ex, name, sweep)
		if !sweep.AllPassed() {
			failed++
		}
	}
	a.logger.Info("🏁 Grading finished.", "exercises", len(exercises), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d exercises failed", ErrCasesFailed, failed, len(exercises))
	}
	return nil
}

// loadProgram compiles the program file named by the configuration, or
// returns nil when the reference solutions should be graded.
func (a *App) loadProgram() (*script.Program, error) {
	path := a.config.ProgramPath
	if path == "" {
		return nil, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	prog, diags := script.ParseSource(path, src)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to compile program %s: %w", path, diags)
	}
	a.logger.Debug("Program compiled.", "path", path, "program", prog.Name(), "procedures", prog.Procedures())
	return prog, nil
}
