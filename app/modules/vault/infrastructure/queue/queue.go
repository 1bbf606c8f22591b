package vaultqueue

import (
	"context"
	"fmt"
	"log/slog"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/riverqueue/river"
)

// MaxPayoutAttempts bounds how long a flaky rail is retried before the
// withdrawal is reversed.
const MaxPayoutAttempts = 10

// PayoutQueue inserts payout jobs, unique per withdrawal.
type PayoutQueue struct {
	inserter jobqueue.Inserter
	logger   *slog.Logger
}

var _ vaultservice.PayoutQueue = (*PayoutQueue)(nil)

func NewPayoutQueue(inserter jobqueue.Inserter, logger *slog.Logger) *PayoutQueue {
	return &PayoutQueue{inserter: inserter, logger: logger}
}

func (q *PayoutQueue) EnqueuePayout(ctx context.Context, p vaultservice.Payout) error {
	res, err := q.inserter.Insert(ctx, PayoutJob{
		WithdrawalID: p.WithdrawalID.String(),
		UserID:       p.UserID,
		AmountCents:  p.AmountCents,
	}, &river.InsertOpts{
		Queue:       jobqueue.QueueVault,
		MaxAttempts: MaxPayoutAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return fmt.Errorf("enqueue payout %s: %w", p.WithdrawalID, err)
	}

	q.logger.InfoContext(ctx, "Payout queued",
		attr.ExtractCorrelationID(ctx),
		attr.String("withdrawal_id", p.WithdrawalID.String()),
		attr.String("user_id", p.UserID),
		attr.Int64("amount_cents", p.AmountCents),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}
