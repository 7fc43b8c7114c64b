package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/karelgrid/internal/api"
	"github.com/vk/karelgrid/internal/ctxlog"
	"github.com/vk/karelgrid/internal/inmemorystore"
)

const shutdownTimeout = 5 * time.Second

// serve runs the HTTP API until ctx is cancelled, then shuts it down.
func (a *App) serve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring HTTP server.")

	runs := inmemorystore.New(inmemorystore.DefaultCapacity)
	router := api.NewRouter(api.Config{
		BaseURL: "/api",
		Controllers: []api.Controller{
			api.NewExerciseController(a.catalog, a.grader, runs),
			api.NewRunController(runs),
		},
		Logger: a.logger,
	})

	ln, err := net.Listen("tcp", a.config.ServeAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.ServeAddr, err)
	}

	srv := &http.Server{
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	a.mu.Lock()
	a.httpServer = srv
	a.listenAddr = ln.Addr()
	a.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🩺 HTTP server starting", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return a.closeServer(ctx)
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed unexpectedly", "error", err)
		}
		return err
	}
}

func (a *App) closeServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Closing HTTP server...")

	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.listenAddr = nil
	a.mu.Unlock()

	if srv == nil {
		logger.Debug("HTTP server was not running.")
		return nil
	}

	// ctx is already done; give in-flight requests their own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("🩺 Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}

	logger.Debug("HTTP server shut down gracefully.")
	return nil
}
