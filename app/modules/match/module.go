package match

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	matchbracket "github.com/acain89/SkillGrid/app/modules/match/infrastructure/bracket"
	matchhandlers "github.com/acain89/SkillGrid/app/modules/match/infrastructure/handlers"
	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	matchrouter "github.com/acain89/SkillGrid/app/modules/match/infrastructure/router"
	"github.com/acain89/SkillGrid/config"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/go-chi/chi/v5"
)

// Module represents the match module.
type Module struct {
	EventBus      eventbus.EventBus
	MatchService  matchservice.Service
	MatchRouter   *matchrouter.MatchRouter
	Handlers      matchhandlers.Handlers
	config        *config.Config
	cancelFunc    context.CancelFunc
	observability *observability.Observability
}

// NewMatchModule creates a new instance of the Match module. Decided matches
// are recorded through tournaments and announced through outcomes.
func NewMatchModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	tournaments matchbracket.Recorder,
	outcomes matchbracket.OutcomePublisher,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer
	metrics := obs.OperationMetrics("match")

	logger.InfoContext(ctx, "match.NewMatchModule called")

	kv, err := eventBus.KeyValue(ctx, matchkv.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to open match session bucket: %w", err)
	}

	seed := cfg.Match.WallSeed
	if seed == 0 {
		seed = rand.Uint64()
		logger.InfoContext(ctx, "Generated Grid-Trap wall seed", attr.Any("wall_seed", seed))
	}

	service := matchservice.NewMatchService(
		matchkv.NewKVStore(kv),
		matchbracket.New(tournaments, outcomes),
		matchservice.NewSeededWalls(seed),
		logger,
		metrics,
		tracer,
	)
	handlers := matchhandlers.NewMatchHandlers(service, logger, tracer)

	matchRouter := matchrouter.NewMatchRouter(logger, router, eventBus, eventBus, tracer, obs.Registry)
	if err := matchRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure match router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		MatchService:  service,
		MatchRouter:   matchRouter,
		Handlers:      handlers,
		config:        cfg,
		observability: obs,
	}, nil
}

// Routes mounts the match HTTP API.
func (m *Module) Routes(authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return matchhandlers.Routes(m.Handlers, authenticate)
}

// Run starts the match module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting match module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Match module goroutine stopped")
}

// Close stops the match module and its router.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping match module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.MatchRouter != nil {
		if err := m.MatchRouter.Close(); err != nil {
			logger.Error("Error closing match router", "error", err)
			return fmt.Errorf("error closing match router: %w", err)
		}
	}

	logger.Info("Match module stopped")
	return nil
}
