package vault

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaulthandlers "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/handlers"
	vaultpublisher "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/publisher"
	vaultqueue "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/queue"
	vaultdb "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories"
	vaultrouter "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/router"
	"github.com/acain89/SkillGrid/config"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// PayoutSweepInterval is how often withdrawals whose payout job was never
// queued are picked up again.
const PayoutSweepInterval = 30 * time.Second

// Module represents the vault module.
type Module struct {
	EventBus      eventbus.EventBus
	VaultService  *vaultservice.VaultService
	VaultRouter   *vaultrouter.VaultRouter
	Publisher     *vaultpublisher.EntryPublisher
	Handlers      vaulthandlers.Handlers
	payouts       *vaultqueue.PayoutWorker
	config        *config.Config
	cancelFunc    context.CancelFunc
	observability *observability.Observability
}

// NewVaultModule creates a new instance of the Vault module. Withdrawals go
// out over the HTTP payout rail when one is configured and are only logged
// otherwise.
func NewVaultModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	jobs jobqueue.Inserter,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer
	metrics := obs.OperationMetrics("vault")

	logger.InfoContext(ctx, "vault.NewVaultModule called")

	publisher := vaultpublisher.New(eventBus)
	service := vaultservice.NewVaultService(
		vaultdb.NewRepository(db),
		vaultqueue.NewPayoutQueue(jobs, logger),
		publisher,
		logger,
		metrics,
		tracer,
		db,
		vaultservice.Config{
			WithdrawalThresholdCents: cfg.Vault.WithdrawalThresholdCents,
			HistoryMaxLimit:          cfg.Vault.HistoryMaxLimit,
		},
	)

	var rail vaultqueue.PayoutRail
	if cfg.Vault.PayoutRailURL != "" {
		rail = vaultqueue.NewHTTPRail(cfg.Vault.PayoutRailURL, nil, logger)
	} else {
		logger.WarnContext(ctx, "No payout rail configured, payouts will only be logged")
		rail = vaultqueue.NewLogRail(logger)
	}

	handlers := vaulthandlers.NewVaultHandlers(service, logger, tracer)

	vaultRouter := vaultrouter.NewVaultRouter(logger, router, eventBus, eventBus, tracer, obs.Registry)
	if err := vaultRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure vault router: %w", err)
	}

	return &Module{
		EventBus:      eventBus,
		VaultService:  service,
		VaultRouter:   vaultRouter,
		Publisher:     publisher,
		Handlers:      handlers,
		payouts:       vaultqueue.NewPayoutWorker(rail, service, logger, tracer),
		config:        cfg,
		observability: obs,
	}, nil
}

// RegisterWorkers adds the payout worker to the shared river workers.
func (m *Module) RegisterWorkers(workers *river.Workers) error {
	if err := river.AddWorkerSafely(workers, m.payouts); err != nil {
		return fmt.Errorf("failed to register payout worker: %w", err)
	}
	return nil
}

// Routes mounts the vault HTTP API.
func (m *Module) Routes(authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return vaulthandlers.Routes(m.Handlers, authenticate)
}

// Run starts the vault module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting vault module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	ticker := time.NewTicker(PayoutSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Vault module goroutine stopped")
			return
		case <-ticker.C:
			if _, err := m.VaultService.SweepPayouts(ctx); err != nil && ctx.Err() == nil {
				logger.ErrorContext(ctx, "Payout sweep failed", attr.Error(err))
			}
		}
	}
}

// Close stops the vault module and its router.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping vault module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.VaultRouter != nil {
		if err := m.VaultRouter.Close(); err != nil {
			logger.Error("Error closing vault router", "error", err)
			return fmt.Errorf("error closing vault router: %w", err)
		}
	}

	logger.Info("Vault module stopped")
	return nil
}
