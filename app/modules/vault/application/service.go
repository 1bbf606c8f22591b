package vaultservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	vaultdb "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories"
	"github.com/acain89/SkillGrid/internal/keylock"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "vault"

// Config tunes vault limits. Zero values take the domain defaults.
type Config struct {
	WithdrawalThresholdCents int64
	HistoryMaxLimit          int
}

// VaultService implements the Service interface.
type VaultService struct {
	repo     vaultdb.Repository
	payouts  PayoutQueue
	notifier EntryNotifier
	logger   *slog.Logger
	metrics  observability.OperationMetrics
	tracer   trace.Tracer
	db       *bun.DB
	locks    *keylock.Locker
	cfg      Config
	now      func() time.Time
}

// NewVaultService creates a new VaultService. A nil notifier disables entry
// announcements.
func NewVaultService(
	repo vaultdb.Repository,
	payouts PayoutQueue,
	notifier EntryNotifier,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	cfg Config,
) *VaultService {
	if cfg.WithdrawalThresholdCents <= 0 {
		cfg.WithdrawalThresholdCents = vaultdomain.DefaultWithdrawalThresholdCents
	}
	if cfg.HistoryMaxLimit <= 0 {
		cfg.HistoryMaxLimit = vaultdomain.MaxHistoryLimit
	}
	return &VaultService{
		repo:     repo,
		payouts:  payouts,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		locks:    keylock.New(),
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ Service = (*VaultService)(nil)

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *VaultService,
	ctx context.Context,
	operationName string,
	userID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("user_id", userID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("user_id", userID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("user_id", userID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("user_id", userID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.DebugContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.String("user_id", userID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *VaultService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
