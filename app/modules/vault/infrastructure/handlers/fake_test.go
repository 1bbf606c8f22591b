package vaulthandlers

import (
	"context"
	"errors"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Vault Service
// ------------------------

type FakeService struct {
	trace []string

	BalanceFunc        func(ctx context.Context, userID string) (vaultservice.AccountResult, error)
	HistoryFunc        func(ctx context.Context, userID string, limit int) (vaultservice.HistoryResult, error)
	WithdrawFunc       func(ctx context.Context, userID string, amountCents int64, idempotencyKey string) (vaultservice.ReceiptResult, error)
	ConfirmDepositFunc func(ctx context.Context, userID string, amountCents int64, providerReference string) (vaultservice.ReceiptResult, error)
}

var _ vaultservice.Service = (*FakeService)(nil)

var errNotImplemented = errors.New("not implemented")

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) Credit(context.Context, vaultservice.PostRequest) (vaultservice.ReceiptResult, error) {
	f.trace = append(f.trace, "Credit")
	return vaultservice.ReceiptResult{}, errNotImplemented
}

func (f *FakeService) Debit(context.Context, vaultservice.PostRequest) (vaultservice.ReceiptResult, error) {
	f.trace = append(f.trace, "Debit")
	return vaultservice.ReceiptResult{}, errNotImplemented
}

func (f *FakeService) Balance(ctx context.Context, userID string) (vaultservice.AccountResult, error) {
	f.trace = append(f.trace, "Balance")
	if f.BalanceFunc != nil {
		return f.BalanceFunc(ctx, userID)
	}
	return vaultservice.AccountResult{}, errNotImplemented
}

func (f *FakeService) History(ctx context.Context, userID string, limit int) (vaultservice.HistoryResult, error) {
	f.trace = append(f.trace, "History")
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, userID, limit)
	}
	return vaultservice.HistoryResult{}, errNotImplemented
}

func (f *FakeService) Withdraw(ctx context.Context, userID string, amountCents int64, idempotencyKey string) (vaultservice.ReceiptResult, error) {
	f.trace = append(f.trace, "Withdraw")
	if f.WithdrawFunc != nil {
		return f.WithdrawFunc(ctx, userID, amountCents, idempotencyKey)
	}
	return vaultservice.ReceiptResult{}, errNotImplemented
}

func (f *FakeService) Reconcile(context.Context, string) (vaultservice.ReconcileResult, error) {
	f.trace = append(f.trace, "Reconcile")
	return vaultservice.ReconcileResult{}, errNotImplemented
}

func (f *FakeService) ConfirmDeposit(ctx context.Context, userID string, amountCents int64, providerReference string) (vaultservice.ReceiptResult, error) {
	f.trace = append(f.trace, "ConfirmDeposit")
	if f.ConfirmDepositFunc != nil {
		return f.ConfirmDepositFunc(ctx, userID, amountCents, providerReference)
	}
	return vaultservice.ReceiptResult{}, errNotImplemented
}

func (f *FakeService) ReverseWithdrawal(context.Context, uuid.UUID, string) (vaultservice.ReceiptResult, error) {
	f.trace = append(f.trace, "ReverseWithdrawal")
	return vaultservice.ReceiptResult{}, errNotImplemented
}

func (f *FakeService) PostTx(context.Context, bun.IDB, vaultdomain.Posting) (vaultservice.Receipt, error) {
	f.trace = append(f.trace, "PostTx")
	return vaultservice.Receipt{}, errNotImplemented
}
