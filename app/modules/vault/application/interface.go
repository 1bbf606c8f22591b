package vaultservice

import (
	"context"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the vault operations.
type Service interface {
	Credit(ctx context.Context, req PostRequest) (ReceiptResult, error)
	Debit(ctx context.Context, req PostRequest) (ReceiptResult, error)
	Balance(ctx context.Context, userID string) (AccountResult, error)
	History(ctx context.Context, userID string, limit int) (HistoryResult, error)
	Withdraw(ctx context.Context, userID string, amountCents int64, idempotencyKey string) (ReceiptResult, error)
	Reconcile(ctx context.Context, userID string) (ReconcileResult, error)
	ConfirmDeposit(ctx context.Context, userID string, amountCents int64, providerReference string) (ReceiptResult, error)
	ReverseWithdrawal(ctx context.Context, withdrawalID uuid.UUID, reason string) (ReceiptResult, error)

	// PostTx writes one posting inside the caller's transaction. Ledger
	// rejections come back as errors; see vaultdomain.IsRejection.
	PostTx(ctx context.Context, db bun.IDB, p vaultdomain.Posting) (Receipt, error)
}

// PayoutQueue hands an accepted withdrawal to the payout worker. Enqueuing
// the same withdrawal twice must be harmless.
type PayoutQueue interface {
	EnqueuePayout(ctx context.Context, p Payout) error
}

// EntryNotifier announces committed ledger entries.
type EntryNotifier interface {
	EntryRecorded(ctx context.Context, e vaultdomain.Entry) error
}

// PostRequest holds the inputs for Credit and Debit.
type PostRequest struct {
	UserID         string
	AmountCents    int64
	Kind           vaultdomain.Kind
	Metadata       map[string]string
	IdempotencyKey string
}

// Receipt is the outcome of one posting. Duplicate means the idempotency key
// had already been used and Entry is the original.
type Receipt struct {
	Entry        vaultdomain.Entry
	BalanceCents int64
	Duplicate    bool
}

// Payout is a withdrawal waiting to be sent over the payout rail.
type Payout struct {
	WithdrawalID uuid.UUID `json:"withdrawal_id"`
	UserID       string    `json:"user_id"`
	AmountCents  int64     `json:"amount_cents"`
}

type (
	ReceiptResult   = results.OperationResult[Receipt, error]
	AccountResult   = results.OperationResult[vaultdomain.Account, error]
	HistoryResult   = results.OperationResult[[]vaultdomain.Entry, error]
	ReconcileResult = results.OperationResult[vaultdomain.Reconciliation, error]
)
