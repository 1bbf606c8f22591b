// Package matchrouter subscribes the match handlers to their topics.
package matchrouter

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	matchevents "github.com/acain89/SkillGrid/app/events/match"
	tournamentevents "github.com/acain89/SkillGrid/app/events/tournament"
	matchhandlers "github.com/acain89/SkillGrid/app/modules/match/infrastructure/handlers"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// MatchRouter handles routing for match module events.
type MatchRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewMatchRouter creates a new MatchRouter. Router metrics are skipped in
// the test environment and when no registry is given.
func NewMatchRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *MatchRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "skillgrid", "match")
		metricsBuilder = &builder
	}

	return &MatchRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds the router middleware and registers the match handlers.
func (r *MatchRouter) Configure(ctx context.Context, handlers matchhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Match")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(ctx, handlers)
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

func registerHandler[T any](deps handlerDeps, topic string, handler handlerwrapper.HandlerFunc[T]) {
	handlerName := "match." + topic
	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.publisher,
			handler,
		),
	)
}

// RegisterHandlers binds the match topics to their handlers.
func (r *MatchRouter) RegisterHandlers(ctx context.Context, handlers matchhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Match Event Handlers")

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, tournamentevents.MatchReadyV1, handlers.HandleMatchReady)
	registerHandler(deps, matchevents.GameResultReportedV1, handlers.HandleGameResultReported)

	return nil
}

// Close stops the router.
func (r *MatchRouter) Close() error {
	return r.Router.Close()
}
