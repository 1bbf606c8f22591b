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

// PostTx writes p and the matching balance change. The account row lock is
// taken before the idempotency lookup so a replayed key always sees the
// original entry, and before the clock is read so entry timestamps follow
// the balance chain.
func (s *VaultService) PostTx(ctx context.Context, db bun.IDB, p vaultdomain.Posting) (Receipt, error) {
	if err := p.Validate(); err != nil {
		return Receipt{}, err
	}

	if err := s.repo.EnsureAccount(ctx, db, p.UserID, s.now()); err != nil {
		return Receipt{}, err
	}
	acct, err := s.repo.GetAccountForUpdate(ctx, db, p.UserID)
	if err != nil {
		return Receipt{}, err
	}
	now := s.now()

	if p.IdempotencyKey != "" {
		existing, err := s.repo.GetEntryByIdempotencyKey(ctx, db, p.IdempotencyKey)
		switch {
		case err == nil:
			if !p.Matches(existing) {
				return Receipt{}, fmt.Errorf("%w: entry %s", vaultdomain.ErrIdempotencyConflict, existing.ID)
			}
			return Receipt{Entry: existing, BalanceCents: acct.BalanceCents, Duplicate: true}, nil
		case !errors.Is(err, vaultdb.ErrNotFound):
			return Receipt{}, err
		}
	}

	next, entry, err := acct.Post(p, uuid.New(), now)
	if err != nil {
		return Receipt{}, err
	}
	if err := s.repo.InsertEntry(ctx, db, &entry); err != nil {
		return Receipt{}, err
	}
	if err := s.repo.UpdateBalance(ctx, db, &next); err != nil {
		return Receipt{}, err
	}
	return Receipt{Entry: entry, BalanceCents: next.BalanceCents}, nil
}

// post runs one posting in its own transaction and announces the entry
// after commit.
func (s *VaultService) post(ctx context.Context, operationName string, p vaultdomain.Posting) (ReceiptResult, error) {
	return s.postWith(ctx, operationName, p, nil)
}

// postWith is post with then run inside the same transaction after a fresh
// entry is written. Replays skip then.
func (s *VaultService) postWith(
	ctx context.Context,
	operationName string,
	p vaultdomain.Posting,
	then func(ctx context.Context, db bun.IDB, r Receipt) error,
) (ReceiptResult, error) {
	unlock := s.locks.Lock(p.UserID)
	defer unlock()

	result, err := withTelemetry(s, ctx, operationName, p.UserID, func(ctx context.Context) (ReceiptResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ReceiptResult, error) {
			receipt, err := s.PostTx(ctx, db, p)
			if err != nil {
				if vaultdomain.IsRejection(err) {
					return results.FailureResult[Receipt, error](err), nil
				}
				return ReceiptResult{}, err
			}
			if then != nil && !receipt.Duplicate {
				if err := then(ctx, db, receipt); err != nil {
					return ReceiptResult{}, err
				}
			}
			return results.SuccessResult[Receipt, error](receipt), nil
		})
	})
	if err != nil || !result.IsSuccess() {
		return result, err
	}

	if !result.Success.Duplicate {
		s.notify(ctx, result.Success.Entry)
	}
	return result, nil
}

func (s *VaultService) notify(ctx context.Context, e vaultdomain.Entry) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.EntryRecorded(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "Failed to announce ledger entry",
			attr.ExtractCorrelationID(ctx),
			attr.String("entry_id", e.ID.String()),
			attr.String("user_id", e.UserID),
			attr.Error(err),
		)
	}
}

// Credit adds funds to a user's balance.
func (s *VaultService) Credit(ctx context.Context, req PostRequest) (ReceiptResult, error) {
	return s.post(ctx, "Credit", req.posting(vaultdomain.Credit))
}

// Debit takes funds from a user's balance.
func (s *VaultService) Debit(ctx context.Context, req PostRequest) (ReceiptResult, error) {
	return s.post(ctx, "Debit", req.posting(vaultdomain.Debit))
}

// ConfirmDeposit credits a settled deposit once per provider reference.
func (s *VaultService) ConfirmDeposit(ctx context.Context, userID string, amountCents int64, providerReference string) (ReceiptResult, error) {
	if providerReference == "" {
		return results.FailureResult[Receipt, error](vaultdomain.ErrMissingReference), nil
	}
	return s.post(ctx, "ConfirmDeposit", vaultdomain.Posting{
		UserID:         userID,
		Kind:           vaultdomain.KindDeposit,
		Direction:      vaultdomain.Credit,
		AmountCents:    amountCents,
		Metadata:       map[string]string{"provider_reference": providerReference},
		IdempotencyKey: vaultdomain.DepositKey(providerReference),
	})
}

// Balance returns the user's account. Users who never transacted have a
// zero balance.
func (s *VaultService) Balance(ctx context.Context, userID string) (AccountResult, error) {
	return withTelemetry(s, ctx, "Balance", userID, func(ctx context.Context) (AccountResult, error) {
		if userID == "" {
			return results.FailureResult[vaultdomain.Account, error](vaultdomain.ErrInvalidUser), nil
		}
		acct, err := s.repo.GetAccount(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, vaultdb.ErrNotFound) {
				return results.SuccessResult[vaultdomain.Account, error](vaultdomain.Account{UserID: userID}), nil
			}
			return AccountResult{}, err
		}
		return results.SuccessResult[vaultdomain.Account, error](acct), nil
	})
}

// History returns the newest entries first.
func (s *VaultService) History(ctx context.Context, userID string, limit int) (HistoryResult, error) {
	return withTelemetry(s, ctx, "History", userID, func(ctx context.Context) (HistoryResult, error) {
		if userID == "" {
			return results.FailureResult[[]vaultdomain.Entry, error](vaultdomain.ErrInvalidUser), nil
		}
		entries, err := s.repo.ListEntries(ctx, nil, userID, vaultdomain.ClampHistoryLimit(limit, s.cfg.HistoryMaxLimit))
		if err != nil {
			return HistoryResult{}, err
		}
		return results.SuccessResult[[]vaultdomain.Entry, error](entries), nil
	})
}

// Reconcile replays the user's ledger against the stored balance.
func (s *VaultService) Reconcile(ctx context.Context, userID string) (ReconcileResult, error) {
	return withTelemetry(s, ctx, "Reconcile", userID, func(ctx context.Context) (ReconcileResult, error) {
		if userID == "" {
			return results.FailureResult[vaultdomain.Reconciliation, error](vaultdomain.ErrInvalidUser), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ReconcileResult, error) {
			var balance int64
			acct, err := s.repo.GetAccount(ctx, db, userID)
			switch {
			case err == nil:
				balance = acct.BalanceCents
			case !errors.Is(err, vaultdb.ErrNotFound):
				return ReconcileResult{}, err
			}

			entries, err := s.repo.ListAllEntries(ctx, db, userID)
			if err != nil {
				return ReconcileResult{}, err
			}

			r := vaultdomain.Reconcile(userID, balance, entries)
			if !r.Consistent() {
				s.logger.ErrorContext(ctx, "Ledger drift detected",
					attr.ExtractCorrelationID(ctx),
					attr.String("user_id", userID),
					attr.Int64("balance_cents", r.BalanceCents),
					attr.Int64("ledger_sum_cents", r.LedgerSumCents),
					attr.Int64("drift_cents", r.DriftCents),
				)
			}
			return results.SuccessResult[vaultdomain.Reconciliation, error](r), nil
		})
	})
}

func (r PostRequest) posting(d vaultdomain.Direction) vaultdomain.Posting {
	return vaultdomain.Posting{
		UserID:         r.UserID,
		Kind:           r.Kind,
		Direction:      d,
		AmountCents:    r.AmountCents,
		Metadata:       r.Metadata,
		IdempotencyKey: r.IdempotencyKey,
	}
}
