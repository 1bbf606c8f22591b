// Package app assembles the SkillGrid modules around one database, one event
// bus and one job queue.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	authjwt "github.com/acain89/SkillGrid/app/modules/auth/infrastructure/jwt"
	"github.com/acain89/SkillGrid/app/modules/match"
	"github.com/acain89/SkillGrid/app/modules/tournament"
	"github.com/acain89/SkillGrid/app/modules/vault"
	"github.com/acain89/SkillGrid/config"
	"github.com/acain89/SkillGrid/internal/eventbus"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Modules holds the application modules.
type Modules struct {
	Vault      *vault.Module
	Tournament *tournament.Module
	Match      *match.Module
}

// App is the running SkillGrid server.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	Modules       *Modules
	EventBus      eventbus.EventBus
	Jobs          *jobqueue.Service

	db       *bun.DB
	tokens   authjwt.Verifier
	workers  *river.Workers
	routers  []*message.Router
	stopHTTP func(ctx context.Context) error
}

// NewApp connects the infrastructure and builds every module. The vault is
// built first because tournaments post entry fees and prizes through it,
// and matches report through tournaments.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN))), pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	jobs, err := jobqueue.New(ctx, cfg.Postgres.DSN, logger, obs.OperationMetrics("jobqueue"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize job queue: %w", err)
	}

	bus, err := eventbus.New(ctx, cfg.NATS.URL, logger)
	if err != nil {
		_ = jobs.Stop(ctx)
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	tokens := authjwt.NewProvider(authjwt.Options{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Leeway:   cfg.JWT.Leeway,
	})

	app := &App{
		Config:        cfg,
		Observability: obs,
		EventBus:      bus,
		Jobs:          jobs,
		db:            db,
		tokens:        tokens,
		workers:       river.NewWorkers(),
	}
	if err := app.initializeModules(ctx); err != nil {
		_ = jobs.Stop(ctx)
		app.closeInfrastructure()
		return nil, err
	}
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg, obs := app.Config, app.Observability

	vaultRouter, err := app.newMessageRouter()
	if err != nil {
		return err
	}
	vaultModule, err := vault.NewVaultModule(ctx, cfg, obs, app.db, app.EventBus, vaultRouter, app.Jobs)
	if err != nil {
		return fmt.Errorf("failed to initialize vault module: %w", err)
	}

	tournamentModule := tournament.NewTournamentModule(ctx, cfg, obs, app.db, app.EventBus, app.Jobs, vaultModule.VaultService, vaultModule.Publisher)

	matchRouter, err := app.newMessageRouter()
	if err != nil {
		return err
	}
	matchModule, err := match.NewMatchModule(
		ctx,
		cfg,
		obs,
		app.EventBus,
		matchRouter,
		tournamentModule.TournamentService,
		tournamentModule.Publisher,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize match module: %w", err)
	}

	if err := vaultModule.RegisterWorkers(app.workers); err != nil {
		return err
	}
	if err := tournamentModule.RegisterWorkers(app.workers); err != nil {
		return err
	}

	app.Modules = &Modules{
		Vault:      vaultModule,
		Tournament: tournamentModule,
		Match:      matchModule,
	}
	return nil
}

func (app *App) newMessageRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(app.Observability.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	app.routers = append(app.routers, router)
	return router, nil
}

// DB returns the bun handle shared by the modules.
func (app *App) DB() *bun.DB { return app.db }

// Publisher returns the event bus publisher.
func (app *App) Publisher() message.Publisher { return app.EventBus }
