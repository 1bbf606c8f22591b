// Package vaultrouter subscribes the vault handlers to their topics.
package vaultrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	vaultevents "github.com/acain89/SkillGrid/app/events/vault"
	vaulthandlers "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/handlers"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// VaultRouter handles routing for vault module events.
type VaultRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewVaultRouter creates a new VaultRouter.
func NewVaultRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *VaultRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "skillgrid", "vault")
		metricsBuilder = &builder
	}

	return &VaultRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds the router middleware and registers the vault handlers.
func (r *VaultRouter) Configure(ctx context.Context, handlers vaulthandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Vault")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds the vault topics to their handlers.
func (r *VaultRouter) RegisterHandlers(ctx context.Context, handlers vaulthandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Vault Event Handlers")

	handlerName := "vault." + vaultevents.DepositConfirmedV1
	r.Router.AddNoPublisherHandler(
		handlerName,
		vaultevents.DepositConfirmedV1,
		r.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			r.logger,
			r.tracer,
			r.publisher,
			handlers.HandleDepositConfirmed,
		),
	)

	return nil
}

// Close stops the router.
func (r *VaultRouter) Close() error {
	return r.Router.Close()
}
