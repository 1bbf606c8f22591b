package tournamentservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	tournamentdb "github.com/acain89/SkillGrid/app/modules/tournament/infrastructure/repositories"
	"github.com/acain89/SkillGrid/internal/keylock"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "tournament"

// TournamentService implements the Service interface.
type TournamentService struct {
	repo           tournamentdb.Repository
	ledger         Ledger
	scheduler      RoundScheduler
	logger         *slog.Logger
	metrics        observability.OperationMetrics
	tracer         trace.Tracer
	db             *bun.DB
	locks          *keylock.Locker
	nextRoundDelay time.Duration
	now            func() time.Time
}

// NewTournamentService creates a new TournamentService. A zero nextRoundDelay
// uses the bracket default.
func NewTournamentService(
	repo tournamentdb.Repository,
	ledger Ledger,
	scheduler RoundScheduler,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	nextRoundDelay time.Duration,
) *TournamentService {
	if nextRoundDelay <= 0 {
		nextRoundDelay = tournamentdomain.DefaultNextRoundDelay
	}
	return &TournamentService{
		repo:           repo,
		ledger:         ledger,
		scheduler:      scheduler,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		db:             db,
		locks:          keylock.New(),
		nextRoundDelay: nextRoundDelay,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

var _ Service = (*TournamentService)(nil)

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *TournamentService,
	ctx context.Context,
	operationName string,
	tournamentID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("tournament_id", tournamentID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("tournament_id", tournamentID),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("tournament_id", tournamentID),
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
		msg := "Operation failed with error"
		if errors.Is(err, tournamentdomain.ErrInvariantViolation) {
			msg = "Bracket invariant violated, nothing persisted"
		}
		s.logger.ErrorContext(ctx, msg,
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("tournament_id", tournamentID),
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
			attr.String("tournament_id", tournamentID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.String("tournament_id", tournamentID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction. Returning errAbort
// from fn rolls back but still hands its result to the caller.
func runInTx[S any, F any](
	s *TournamentService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		result, err := fn(ctx, nil)
		if errors.Is(err, errAbort) {
			return result, nil
		}
		return result, err
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	if errors.Is(err, errAbort) {
		return result, nil
	}

	return result, err
}
