package matchservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	matchkv "github.com/acain89/SkillGrid/app/modules/match/infrastructure/kvstore"
	"github.com/acain89/SkillGrid/internal/keylock"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/acain89/SkillGrid/internal/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "match"

// MatchService implements the Service interface.
type MatchService struct {
	store   matchkv.Store
	bracket BracketRecorder
	walls   WallGenerator
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	locks   *keylock.Locker
	now     func() time.Time
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	store matchkv.Store,
	bracket BracketRecorder,
	walls WallGenerator,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
) *MatchService {
	return &MatchService{
		store:   store,
		bracket: bracket,
		walls:   walls,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		locks:   keylock.New(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ Service = (*MatchService)(nil)

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *MatchService,
	ctx context.Context,
	operationName string,
	matchID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("match_id", matchID),
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
				attr.String("match_id", matchID),
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
			attr.String("match_id", matchID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		level := slog.LevelWarn
		if f, ok := any(*result.Failure).(error); ok && errors.Is(f, ErrBracketRejected) {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("match_id", matchID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.DebugContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.String("match_id", matchID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}
