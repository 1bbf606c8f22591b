package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/acain89/SkillGrid/internal/observability/attr"
)

// Run starts the event routers, the job workers, the module goroutines and
// the HTTP server, then blocks until ctx is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, router := range app.routers {
		failed := make(chan error, 1)
		go func() {
			err := router.Run(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "Message router stopped", attr.Error(err))
			}
			failed <- err
		}()
		select {
		case <-router.Running():
		case err := <-failed:
			return fmt.Errorf("message router failed to start: %w", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := app.Jobs.Start(ctx, app.workers); err != nil {
		return fmt.Errorf("failed to start job workers: %w", err)
	}

	var wg sync.WaitGroup
	for _, m := range app.modules() {
		wg.Add(1)
		go m.Run(ctx, &wg)
	}

	go func() {
		if err := app.Observability.ServeMetrics(ctx); err != nil {
			logger.ErrorContext(ctx, "Metrics server failed", attr.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.stopHTTP = srv.Shutdown

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	cancel()
	wg.Wait()
	return runErr
}
