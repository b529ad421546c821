package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/fitness-wizard/internal/infra/config"
	"github.com/yanqian/fitness-wizard/internal/infra/queue"
	"github.com/yanqian/fitness-wizard/pkg/tracing"
)

const shutdownTimeout = 30 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	jobs     queue.Queue
	shutdown tracing.Shutdown
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, jobs queue.Queue, shutdown tracing.Shutdown) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, jobs: jobs, shutdown: shutdown}
}

// Run starts the HTTP server and blocks until shutdown. Background jobs are
// drained and traces flushed before it returns.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		runErr = a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	return errors.Join(runErr, a.close())
}

func (a *App) close() error {
	var errs []error
	if a.jobs != nil {
		a.logger.Info("draining background jobs")
		if err := a.jobs.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
