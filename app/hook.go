package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/acain89/SkillGrid/internal/observability/attr"
)

// Shutdown stops accepting requests, lets running jobs finish and then closes
// the modules and the shared infrastructure.
func (app *App) Shutdown(ctx context.Context) error {
	logger := app.Observability.Logger
	logger.InfoContext(ctx, "Shutting down application")

	var errs []error
	if app.stopHTTP != nil {
		if err := app.stopHTTP(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}

	if app.Modules != nil {
		for _, m := range app.modules() {
			if err := m.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if err := app.Jobs.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	app.closeInfrastructure()

	err := errors.Join(errs...)
	if err != nil {
		logger.ErrorContext(ctx, "Shutdown finished with errors", attr.Error(err))
		return err
	}
	logger.InfoContext(ctx, "Application shut down gracefully")
	return nil
}

func (app *App) closeInfrastructure() {
	logger := app.Observability.Logger
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", attr.Error(err))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			logger.Error("Error closing database", attr.Error(err))
		}
	}
}
