package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/vk/karelgrid/internal/catalog"
	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/grader"
	"github.com/vk/karelgrid/internal/report"
	"github.com/vk/karelgrid/internal/runner"
	"github.com/vk/karelgrid/internal/world"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	catalog *config.Model
	grader  *grader.Grader
	printer *report.Printer

	mu         sync.Mutex
	httpServer *http.Server
	listenAddr net.Addr
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW. The exercise catalog is loaded and validated here, so a
// returned App is ready to run.
func NewApp(ctx context.Context, outW, logW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	var (
		model *config.Model
		err   error
	)
	if appConfig.ExercisesPath == "" {
		model, err = catalog.Load(ctx)
	} else {
		model, err = catalog.LoadDir(ctx, appConfig.ExercisesPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load exercises: %w", err)
	}
	logger.Debug("Exercises loaded.", "exercises", len(model.Exercises), "programs", len(model.Programs))

	equal := world.StatesEqual
	if appConfig.LooseBeepers {
		equal = world.StatesLooselyEqual
	}
	g := grader.New(
		runner.New(runner.WithBudget(appConfig.Budget)),
		grader.WithWorkers(appConfig.Workers),
		grader.WithEquality(equal),
	)

	var printOpts []report.Option
	if appConfig.NoColor {
		printOpts = append(printOpts, report.WithColor(false))
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		catalog: model,
		grader:  g,
		printer: report.New(outW, printOpts...),
	}, nil
}

// Catalog returns the loaded exercises. This is primarily for testing.
func (a *App) Catalog() *config.Model {
	return a.catalog
}

// Addr returns the address the HTTP server listens on, or nil when it is
// not running.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listenAddr
}
