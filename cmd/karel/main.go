package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/vk/karelgrid/internal/app"
	"github.com/vk/karelgrid/internal/cli"
)

// main is the entrypoint for the karel application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if _, ok := os.LookupEnv(gin.EnvGinMode); !ok {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	env, err := cli.LoadEnv(".env")
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	appConfig, shouldExit, err := cli.Parse(args, outW, env)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	karel, err := app.NewApp(ctx, outW, errW, appConfig)
	if err != nil {
		return err
	}
	return karel.Run(ctx)
}
