package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vk/karelgrid/internal/app"
	"github.com/vk/karelgrid/internal/interpreter"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments on top of the defaults in env. It
// returns a populated Config, a boolean indicating if the program should
// exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer, env Env) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("karel", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
karel - grade Karel the Robot programs against grid-world exercises.

Usage:
  karel [options] -exercise ID [PROGRAM_PATH]
  karel [options] -list
  karel [options] -serve ADDR

Arguments:
  PROGRAM_PATH
    Path to a program file. Without it the exercise's reference solution
    is graded. Without -exercise every exercise is graded.

Environment:
  KAREL_EXERCISES, KAREL_LOG_LEVEL, KAREL_LOG_FORMAT, KAREL_BUDGET,
  KAREL_WORKERS and KAREL_ADDR set defaults for the matching options.
  They are also read from a .env file in the working directory.

Options:
`)
		flagSet.PrintDefaults()
	}

	budgetDefault, err := time.ParseDuration(env.get(EnvBudget, interpreter.DefaultBudget.String()))
	if err != nil {
		return nil, false, usageError("invalid %s: %v", EnvBudget, err)
	}
	workersDefault, err := strconv.Atoi(env.get(EnvWorkers, "1"))
	if err != nil {
		return nil, false, usageError("invalid %s: %v", EnvWorkers, err)
	}

	exercisesFlag := flagSet.String("exercises", env.get(EnvExercises, ""), "Path to an exercise file or directory. Empty uses the built-in catalog.")
	exerciseFlag := flagSet.String("exercise", "", "ID of the exercise to grade.")
	eFlag := flagSet.String("e", "", "ID of the exercise to grade (shorthand).")
	programFlag := flagSet.String("program", "", "Path to the program file to grade.")
	pFlag := flagSet.String("p", "", "Path to the program file to grade (shorthand).")
	budgetFlag := flagSet.Duration("budget", budgetDefault, "Time budget for a single run.")
	workersFlag := flagSet.Int("workers", workersDefault, "Number of cases graded at the same time.")
	looseFlag := flagSet.Bool("loose-beepers", false, "Compare beepers by cell only, ignoring how many share a cell.")
	logFormatFlag := flagSet.String("log-format", env.get(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.get(EnvLogLevel, "warn"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	noColorFlag := flagSet.Bool("no-color", false, "Disable colored reports.")
	serveFlag := flagSet.String("serve", env.get(EnvAddr, ""), "Serve the HTTP API on this address instead of grading.")
	listFlag := flagSet.Bool("list", false, "List the exercises and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	exerciseID := firstNonEmpty(*exerciseFlag, *eFlag)
	programPath := firstNonEmpty(*programFlag, *pFlag, flagSet.Arg(0))
	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one program path, got %d", flagSet.NArg())
	}
	slog.Debug("Targets determined.", "exercise", exerciseID, "program", programPath)

	if exerciseID == "" && programPath == "" && *exercisesFlag == "" && !*listFlag && *serveFlag == "" {
		slog.Debug("Nothing to do, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if *budgetFlag <= 0 {
		return nil, false, usageError("invalid budget: must be positive")
	}
	if *workersFlag < 1 {
		return nil, false, usageError("invalid workers: must be at least 1")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ExercisesPath: *exercisesFlag,
		ExerciseID:    exerciseID,
		ProgramPath:   programPath,
		Budget:        *budgetFlag,
		Workers:       *workersFlag,
		LooseBeepers:  *looseFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		NoColor:       *noColorFlag,
		ServeAddr:     *serveFlag,
		List:          *listFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
