// Package jobqueue owns the pgx pool and river clients shared by every
// module that schedules background work.
package jobqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
)

const serviceName = "river"

// Queue names. Each module inserts into its own queue.
const (
	QueueTournament = "tournament"
	QueueVault      = "vault"
)

// Inserter is the part of a river client the schedulers need.
type Inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Service holds an insert-only client, available as soon as the pool is up,
// and a working client started once every worker is registered.
type Service struct {
	pool    *pgxpool.Pool
	inserts *river.Client[pgx.Tx]
	runner  *river.Client[pgx.Tx]
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

var _ Inserter = (*Service)(nil)

// New connects a pgx pool for river and builds the insert-only client.
func New(ctx context.Context, dsn string, logger *slog.Logger, metrics observability.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	inserts, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River insert client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))
	ctxLogger.Info("River queue service initialized")

	return &Service{
		pool:    pool,
		inserts: inserts,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// Migrate brings the river schema up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// Pool exposes the pgx pool, for migrations.
func (s *Service) Pool() *pgxpool.Pool { return s.pool }

// Insert schedules a job through the insert-only client.
func (s *Service) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	start := time.Now()
	op := "insert_" + args.Kind()
	s.metrics.RecordOperationAttempt(ctx, op, serviceName)

	res, err := s.inserts.Insert(ctx, args, opts)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, op, serviceName)
		return nil, fmt.Errorf("failed to insert %s job: %w", args.Kind(), err)
	}

	s.metrics.RecordOperationSuccess(ctx, op, serviceName)
	s.metrics.RecordOperationDuration(ctx, op, serviceName, time.Since(start))
	return res, nil
}

// Start builds the working client over workers and starts processing.
func (s *Service) Start(ctx context.Context, workers *river.Workers) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", serviceName)

	runner, err := river.NewClient(riverpgxv5.New(s.pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueTournament:    {MaxWorkers: 25},
			QueueVault:         {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to create River client: %w", err)
	}

	if err := runner.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.runner = runner

	s.metrics.RecordOperationSuccess(ctx, "start_service", serviceName)
	s.metrics.RecordOperationDuration(ctx, "start_service", serviceName, time.Since(start))
	s.logger.Info("River queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping River queue service")

	var err error
	if s.runner != nil {
		if stopErr := s.runner.Stop(ctx); stopErr != nil {
			err = fmt.Errorf("failed to stop River client: %w", stopErr)
		}
	}
	s.pool.Close()
	return err
}

// HealthCheck verifies the pool can reach the database.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("river pool is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
