package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/karelgrid/internal/interpreter"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ExercisesPath string // exercise files; empty means the built-in catalog
	ExerciseID    string // exercise to grade; empty means all of them
	ProgramPath   string // program to grade; empty means the reference solution

	Budget       time.Duration
	Workers      int
	LooseBeepers bool

	LogFormat string
	LogLevel  string
	NoColor   bool

	ServeAddr string // serve the HTTP API instead of grading
	List      bool   // print the catalog instead of grading
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProgramPath != "" && cfg.ExerciseID == "" {
		return nil, errors.New("a program can only be graded against one exercise: ExerciseID is required with ProgramPath")
	}
	if cfg.List && cfg.ServeAddr != "" {
		return nil, errors.New("List and ServeAddr cannot be used together")
	}
	if cfg.Budget < 0 {
		return nil, fmt.Errorf("Budget must not be negative, got %s", cfg.Budget)
	}
	if cfg.Budget == 0 {
		cfg.Budget = interpreter.DefaultBudget
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("Workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
