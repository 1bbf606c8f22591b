package vaultqueue

import (
	"context"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/acain89/SkillGrid/internal/jobqueue"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// ------------------------
// Fake Inserter
// ------------------------

type FakeInserter struct {
	Args []river.JobArgs
	Opts []*river.InsertOpts

	InsertFunc func(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

var _ jobqueue.Inserter = (*FakeInserter)(nil)

func (f *FakeInserter) Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, args, opts)
	}
	f.Args = append(f.Args, args)
	f.Opts = append(f.Opts, opts)
	return &rivertype.JobInsertResult{Job: &rivertype.JobRow{ID: int64(len(f.Args))}}, nil
}

// ------------------------
// Fake Rail
// ------------------------

type FakeRail struct {
	trace []string
	Sent  []vaultservice.Payout

	SendFunc func(ctx context.Context, p vaultservice.Payout) error
}

var _ PayoutRail = (*FakeRail)(nil)

func (f *FakeRail) Send(ctx context.Context, p vaultservice.Payout) error {
	f.trace = append(f.trace, "Send")
	f.Sent = append(f.Sent, p)
	if f.SendFunc != nil {
		return f.SendFunc(ctx, p)
	}
	return nil
}

func (f *FakeRail) Trace() []string { return f.trace }

// ------------------------
// Fake Reverser
// ------------------------

type FakeReverser struct {
	trace   []string
	Reasons []string

	WithdrawalReversedFunc func(ctx context.Context, withdrawalID uuid.UUID) (bool, error)
	ReverseWithdrawalFunc  func(ctx context.Context, withdrawalID uuid.UUID, reason string) (vaultservice.ReceiptResult, error)
}

var _ Reverser = (*FakeReverser)(nil)

func (f *FakeReverser) WithdrawalReversed(ctx context.Context, withdrawalID uuid.UUID) (bool, error) {
	f.trace = append(f.trace, "WithdrawalReversed")
	if f.WithdrawalReversedFunc != nil {
		return f.WithdrawalReversedFunc(ctx, withdrawalID)
	}
	return false, nil
}

func (f *FakeReverser) ReverseWithdrawal(ctx context.Context, withdrawalID uuid.UUID, reason string) (vaultservice.ReceiptResult, error) {
	f.trace = append(f.trace, "ReverseWithdrawal")
	f.Reasons = append(f.Reasons, reason)
	if f.ReverseWithdrawalFunc != nil {
		return f.ReverseWithdrawalFunc(ctx, withdrawalID, reason)
	}
	return results.SuccessResult[vaultservice.Receipt, error](vaultservice.Receipt{
		Entry: vaultdomain.Entry{ID: uuid.New(), Kind: vaultdomain.KindWithdrawalReversal},
	}), nil
}

func (f *FakeReverser) Trace() []string { return f.trace }
