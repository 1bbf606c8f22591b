package tournament

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	tournamenthandlers "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/handlers"
	tournamentledger "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/ledger"
	tournamentpublisher "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/publisher"
	tournamentqueue "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/queue"
	tournamentdb "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/repositories"
	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	"github.com/acain89/SkillGrid/config"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// Module represents the tournament module.
type Module struct {
	EventBus          eventbus.EventBus
	TournamentService *tournamentservice.TournamentService
	Publisher         *tournamentpublisher.Publisher
	Handlers          tournamenthandlers.Handlers
	roundStarts       *tournamentqueue.RoundStartWorker
	config            *config.Config
	cancelFunc        context.CancelFunc
	observability     *observability.Observability
}

// NewTournamentModule creates a new instance of the Tournament module.
// Entry fees and prizes are posted through poster inside the bracket
// transaction and handed to entries after commit.
func NewTournamentModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	jobs jobqueue.Inserter,
	poster tournamentledger.Poster,
	entries vaultservice.EntryNotifier,
) *Module {
	logger := obs.Logger
	tracer := obs.Tracer
	metrics := obs.OperationMetrics("tournament")

	logger.InfoContext(ctx, "tournament.NewTournamentModule called")

	service := tournamentservice.NewTournamentService(
		tournamentdb.NewRepository(db),
		tournamentledger.New(poster, entries, logger),
		tournamentqueue.NewScheduler(jobs, logger),
		logger,
		metrics,
		tracer,
		db,
		cfg.Tournament.NextRoundDelay,
	)
	publisher := tournamentpublisher.New(eventBus)

	return &Module{
		EventBus:          eventBus,
		TournamentService: service,
		Publisher:         publisher,
		Handlers:          tournamenthandlers.NewTournamentHandlers(service, publisher, logger, tracer),
		roundStarts:       tournamentqueue.NewRoundStartWorker(service, eventBus, logger, tracer),
		config:            cfg,
		observability:     obs,
	}
}

// RegisterWorkers adds the round-start worker to the shared river workers.
func (m *Module) RegisterWorkers(workers *river.Workers) error {
	if err := river.AddWorkerSafely(workers, m.roundStarts); err != nil {
		return fmt.Errorf("failed to register round start worker: %w", err)
	}
	return nil
}

// Routes mounts the tournament HTTP API.
func (m *Module) Routes(authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return tournamenthandlers.Routes(m.Handlers, authenticate)
}

// Run starts the tournament module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting tournament module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Tournament module goroutine stopped")
}

// Close stops the tournament module.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping tournament module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Tournament module stopped")
	return nil
}
