package vaultservice

import (
	"context"
	"errors"
	"fmt"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	vaultdb "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories"
	"github.com/acain89/SkillGrid/internal/observability/attr"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const payoutSweepBatch = 100

// Withdraw debits a cash-out and records its payout in the same
// transaction. The payout job is queued after commit; if that fails the
// payout stays pending until SweepPayouts picks it up.
func (s *VaultService) Withdraw(ctx context.Context, userID string, amountCents int64, idempotencyKey string) (ReceiptResult, error) {
	if amountCents < s.cfg.WithdrawalThresholdCents {
		return results.FailureResult[Receipt, error](
			fmt.Errorf("%w: %d < %d", vaultdomain.ErrBelowWithdrawalThreshold, amountCents, s.cfg.WithdrawalThresholdCents),
		), nil
	}

	var key string
	if idempotencyKey != "" {
		key = vaultdomain.IdempotencyKey(string(vaultdomain.KindWithdrawal), userID, idempotencyKey)
	}

	var pending vaultdomain.PendingPayout
	result, err := s.postWith(ctx, "Withdraw", vaultdomain.Posting{
		UserID:         userID,
		Kind:           vaultdomain.KindWithdrawal,
		Direction:      vaultdomain.Debit,
		AmountCents:    amountCents,
		IdempotencyKey: key,
	}, func(ctx context.Context, db bun.IDB, r Receipt) error {
		pending = vaultdomain.PendingPayout{
			WithdrawalID: r.Entry.ID,
			UserID:       userID,
			AmountCents:  -r.Entry.AmountCents,
			CreatedAt:    r.Entry.CreatedAt,
		}
		return s.repo.InsertPendingPayout(ctx, db, pending)
	})
	if err != nil || !result.IsSuccess() || result.Success.Duplicate {
		return result, err
	}

	if err := s.dispatchPayout(ctx, pending); err != nil {
		s.logger.WarnContext(ctx, "Failed to queue payout, leaving it for the sweeper",
			attr.ExtractCorrelationID(ctx),
			attr.String("user_id", userID),
			attr.String("withdrawal_id", pending.WithdrawalID.String()),
			attr.Error(err),
		)
	}
	return result, nil
}

// SweepPayouts queues every pending payout that has not been queued yet and
// returns how many were queued. Reversed withdrawals are dropped.
func (s *VaultService) SweepPayouts(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPendingPayouts(ctx, nil, payoutSweepBatch)
	if err != nil {
		return 0, err
	}

	var (
		queued int
		errs   []error
	)
	for _, p := range pending {
		reversed, err := s.reversed(ctx, p.WithdrawalID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if reversed {
			if err := s.repo.MarkPayoutQueued(ctx, nil, p.WithdrawalID, s.now()); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err := s.dispatchPayout(ctx, p); err != nil {
			errs = append(errs, err)
			continue
		}
		queued++
	}

	if queued > 0 {
		s.logger.InfoContext(ctx, "Swept pending payouts", attr.Int("queued", queued))
	}
	return queued, errors.Join(errs...)
}

func (s *VaultService) dispatchPayout(ctx context.Context, p vaultdomain.PendingPayout) error {
	payout := Payout{WithdrawalID: p.WithdrawalID, UserID: p.UserID, AmountCents: p.AmountCents}
	if err := s.payouts.EnqueuePayout(ctx, payout); err != nil {
		return fmt.Errorf("queue payout: %w", err)
	}
	return s.repo.MarkPayoutQueued(ctx, nil, p.WithdrawalID, s.now())
}

// ReverseWithdrawal credits back a withdrawal whose payout failed for good.
// Reversing twice returns the first reversal.
func (s *VaultService) ReverseWithdrawal(ctx context.Context, withdrawalID uuid.UUID, reason string) (ReceiptResult, error) {
	entry, err := s.repo.GetEntry(ctx, nil, withdrawalID)
	if err != nil {
		if errors.Is(err, vaultdb.ErrNotFound) {
			return results.FailureResult[Receipt, error](ErrEntryNotFound), nil
		}
		return ReceiptResult{}, fmt.Errorf("ReverseWithdrawal: %w", err)
	}
	if entry.Kind != vaultdomain.KindWithdrawal {
		return results.FailureResult[Receipt, error](
			fmt.Errorf("%w: %s is %s", vaultdomain.ErrNotWithdrawal, withdrawalID, entry.Kind),
		), nil
	}

	return s.post(ctx, "ReverseWithdrawal", vaultdomain.Posting{
		UserID:      entry.UserID,
		Kind:        vaultdomain.KindWithdrawalReversal,
		Direction:   vaultdomain.Credit,
		AmountCents: -entry.AmountCents,
		Metadata: map[string]string{
			"withdrawal_id": withdrawalID.String(),
			"reason":        reason,
		},
		IdempotencyKey: vaultdomain.ReversalKey(withdrawalID),
	})
}

// WithdrawalReversed reports whether a withdrawal has already been credited back.
func (s *VaultService) WithdrawalReversed(ctx context.Context, withdrawalID uuid.UUID) (bool, error) {
	return s.reversed(ctx, withdrawalID)
}

func (s *VaultService) reversed(ctx context.Context, withdrawalID uuid.UUID) (bool, error) {
	_, err := s.repo.GetEntryByIdempotencyKey(ctx, nil, vaultdomain.ReversalKey(withdrawalID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, vaultdb.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("look up reversal of %s: %w", withdrawalID, err)
	}
}
