package vaultqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Reverser is the part of the vault service the payout worker needs.
type Reverser interface {
	WithdrawalReversed(ctx context.Context, withdrawalID uuid.UUID) (bool, error)
	ReverseWithdrawal(ctx context.Context, withdrawalID uuid.UUID, reason string) (vaultservice.ReceiptResult, error)
}

// PayoutWorker sends a withdrawal over the rail. A rejection, or running out
// of attempts, credits the withdrawal back and cancels the job.
type PayoutWorker struct {
	river.WorkerDefaults[PayoutJob]

	rail   PayoutRail
	vault  Reverser
	logger *slog.Logger
	tracer trace.Tracer
}

func NewPayoutWorker(rail PayoutRail, vault Reverser, logger *slog.Logger, tracer trace.Tracer) *PayoutWorker {
	return &PayoutWorker{
		rail:   rail,
		vault:  vault,
		logger: logger,
		tracer: tracer,
	}
}

func (w *PayoutWorker) Work(ctx context.Context, job *river.Job[PayoutJob]) error {
	ctx, span := w.tracer.Start(ctx, "PayoutWorker.Work", trace.WithAttributes(
		attribute.String("withdrawal_id", job.Args.WithdrawalID),
		attribute.Int("attempt", job.Attempt),
	))
	defer span.End()

	id, err := uuid.Parse(job.Args.WithdrawalID)
	if err != nil {
		return river.JobCancel(fmt.Errorf("invalid withdrawal id %q: %w", job.Args.WithdrawalID, err))
	}

	logger := w.logger.With(
		attr.String("withdrawal_id", id.String()),
		attr.String("user_id", job.Args.UserID),
		attr.Int64("amount_cents", job.Args.AmountCents),
		attr.Int("attempt", job.Attempt),
	)

	reversed, err := w.vault.WithdrawalReversed(ctx, id)
	if err != nil {
		return err
	}
	if reversed {
		logger.InfoContext(ctx, "Withdrawal already reversed, skipping payout")
		return nil
	}

	sendErr := w.rail.Send(ctx, vaultservice.Payout{
		WithdrawalID: id,
		UserID:       job.Args.UserID,
		AmountCents:  job.Args.AmountCents,
	})
	if sendErr == nil {
		logger.InfoContext(ctx, "Payout sent")
		return nil
	}
	span.RecordError(sendErr)

	if !errors.Is(sendErr, ErrPayoutRejected) && job.Attempt < job.MaxAttempts {
		logger.WarnContext(ctx, "Payout failed, will retry", attr.Error(sendErr))
		return sendErr
	}

	logger.WarnContext(ctx, "Payout failed permanently, reversing withdrawal", attr.Error(sendErr))
	result, err := w.vault.ReverseWithdrawal(ctx, id, sendErr.Error())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to reverse withdrawal", attr.Error(err))
		return fmt.Errorf("reverse withdrawal %s: %w", id, err)
	}
	if result.IsFailure() {
		logger.ErrorContext(ctx, "Withdrawal reversal refused", attr.Error(*result.Failure))
		return river.JobCancel(errors.Join(sendErr, *result.Failure))
	}
	return river.JobCancel(sendErr)
}
