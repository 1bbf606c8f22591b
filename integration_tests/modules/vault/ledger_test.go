package vaultintegrationtests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	vaultservice "github.com/acain89/SkillGrid/app/modules/vault/application"
	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	vaultdb "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories"
	"github.com/acain89/SkillGrid/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

func deposit(t *testing.T, deps TestDeps, userID string, cents int64, ref string) vaultservice.Receipt {
	t.Helper()
	res, err := deps.Service.ConfirmDeposit(deps.Ctx, userID, cents, ref)
	require.NoError(t, err)
	require.True(t, res.IsSuccess(), "deposit failed: %v", res.Failure)
	return *res.Success
}

func TestVaultLedger_PostingsKeepTheChainConsistent(t *testing.T) {
	deps := SetupTestVaultService(t)

	deposit(t, deps, "u1", 5000, "pi_1")

	res, err := deps.Service.Debit(deps.Ctx, vaultservice.PostRequest{
		UserID:         "u1",
		AmountCents:    1200,
		Kind:           vaultdomain.KindEntryFee,
		IdempotencyKey: "fee-1",
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, int64(3800), res.Success.BalanceCents)

	res, err = deps.Service.Credit(deps.Ctx, vaultservice.PostRequest{
		UserID:         "u1",
		AmountCents:    700,
		Kind:           vaultdomain.KindPrize,
		IdempotencyKey: "prize-1",
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, int64(4500), res.Success.BalanceCents)

	history, err := deps.Service.History(deps.Ctx, "u1", 10)
	require.NoError(t, err)
	require.True(t, history.IsSuccess())
	entries := *history.Success
	require.Len(t, entries, 3)
	assert.Equal(t, vaultdomain.KindPrize, entries[0].Kind, "newest first")
	assert.Equal(t, int64(4500), entries[0].BalanceAfterCents)

	rec, err := deps.Service.Reconcile(deps.Ctx, "u1")
	require.NoError(t, err)
	require.True(t, rec.IsSuccess())
	assert.True(t, rec.Success.Consistent(), "reconciliation: %+v", *rec.Success)
	assert.Equal(t, int64(4500), rec.Success.LedgerSumCents)
}

func TestVaultLedger_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	deps := SetupTestVaultService(t)
	deposit(t, deps, "u1", 1000, "pi_1")

	const attempts = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		declined int
	)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := deps.Service.Debit(deps.Ctx, vaultservice.PostRequest{
				UserID:         "u1",
				AmountCents:    100,
				Kind:           vaultdomain.KindEntryFee,
				IdempotencyKey: fmt.Sprintf("fee-%d", i),
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.IsSuccess() {
				accepted++
				return
			}
			assert.ErrorIs(t, *res.Failure, vaultdomain.ErrInsufficientFunds)
			declined++
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	assert.Equal(t, attempts-10, declined)

	bal, err := deps.Service.Balance(deps.Ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bal.Success.BalanceCents)

	rec, err := deps.Service.Reconcile(deps.Ctx, "u1")
	require.NoError(t, err)
	assert.True(t, rec.Success.Consistent())
}

func TestVaultLedger_DepositRedeliveryCreditsOnce(t *testing.T) {
	deps := SetupTestVaultService(t)

	first := deposit(t, deps, "u1", 2500, "pi_42")
	second := deposit(t, deps, "u1", 2500, "pi_42")

	assert.False(t, first.Duplicate)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	bal, err := deps.Service.Balance(deps.Ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), bal.Success.BalanceCents)

	t.Run("same reference with another amount is refused", func(t *testing.T) {
		res, err := deps.Service.ConfirmDeposit(deps.Ctx, "u1", 9900, "pi_42")
		require.NoError(t, err)
		require.True(t, res.IsFailure())
		assert.ErrorIs(t, *res.Failure, vaultdomain.ErrIdempotencyConflict)
	})
}

func TestVaultLedger_WithdrawQueuesOnePayout(t *testing.T) {
	deps := SetupTestVaultService(t)
	deposit(t, deps, "u1", 10000, "pi_1")

	below, err := deps.Service.Withdraw(deps.Ctx, "u1", 2999, "w-0")
	require.NoError(t, err)
	require.True(t, below.IsFailure())
	assert.ErrorIs(t, *below.Failure, vaultdomain.ErrBelowWithdrawalThreshold)

	first, err := deps.Service.Withdraw(deps.Ctx, "u1", 4000, "w-1")
	require.NoError(t, err)
	require.True(t, first.IsSuccess())
	assert.Equal(t, int64(6000), first.Success.BalanceCents)

	retry, err := deps.Service.Withdraw(deps.Ctx, "u1", 4000, "w-1")
	require.NoError(t, err)
	require.True(t, retry.IsSuccess())
	assert.True(t, retry.Success.Duplicate)

	var jobs int
	err = deps.BunDB.NewSelect().
		TableExpr("river_job").
		ColumnExpr("count(*)").
		Where("kind = ?", "vault_payout").
		Scan(deps.Ctx, &jobs)
	require.NoError(t, err)
	assert.Equal(t, 1, jobs, "retries must not queue a second payout")

	bal, err := deps.Service.Balance(deps.Ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), bal.Success.BalanceCents)
}

func TestVaultLedger_ConcurrentPostTxKeepsHistoryInBalanceOrder(t *testing.T) {
	deps := SetupTestVaultService(t)

	const posts = 12
	var wg sync.WaitGroup
	for i := range posts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := deps.BunDB.RunInTx(deps.Ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				_, err := deps.Service.PostTx(ctx, tx, vaultdomain.Posting{
					UserID:         "u1",
					Kind:           vaultdomain.KindPrize,
					Direction:      vaultdomain.Credit,
					AmountCents:    100,
					IdempotencyKey: fmt.Sprintf("prize-%d", i),
				})
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := deps.Service.History(deps.Ctx, "u1", posts)
	require.NoError(t, err)
	entries := *history.Success
	require.Len(t, entries, posts)
	for i, e := range entries {
		assert.Equal(t, int64((posts-i)*100), e.BalanceAfterCents, "entry %d out of balance order", i)
		if i > 0 {
			assert.Greater(t, entries[i-1].Seq, e.Seq)
			assert.False(t, entries[i-1].CreatedAt.Before(e.CreatedAt), "timestamps must follow the balance chain")
		}
	}

	rec, err := deps.Service.Reconcile(deps.Ctx, "u1")
	require.NoError(t, err)
	assert.True(t, rec.Success.Consistent(), "reconciliation: %+v", *rec.Success)
}

type downPayoutQueue struct{}

func (downPayoutQueue) EnqueuePayout(ctx context.Context, p vaultservice.Payout) error {
	return errors.New("queue unavailable")
}

func TestVaultLedger_UnqueuedPayoutIsSweptLater(t *testing.T) {
	deps := SetupTestVaultService(t)
	deposit(t, deps, "u1", 10000, "pi_1")

	offline := vaultservice.NewVaultService(
		vaultdb.NewRepository(deps.BunDB),
		downPayoutQueue{},
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewNoop(),
		noop.NewTracerProvider().Tracer("test_vault_service"),
		deps.BunDB,
		vaultservice.Config{},
	)

	res, err := offline.Withdraw(deps.Ctx, "u1", 4000, "w-1")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, 0, countPayoutJobs(t, deps))

	var pending int
	err = deps.BunDB.NewSelect().
		TableExpr("vault_payout_outbox").
		ColumnExpr("count(*)").
		Where("withdrawal_id = ?", res.Success.Entry.ID).
		Where("queued_at IS NULL").
		Scan(deps.Ctx, &pending)
	require.NoError(t, err)
	assert.Equal(t, 1, pending, "payout must be recorded with the debit")

	n, err := deps.Service.SweepPayouts(deps.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, countPayoutJobs(t, deps))

	n, err = deps.Service.SweepPayouts(deps.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, countPayoutJobs(t, deps))
}

func countPayoutJobs(t *testing.T, deps TestDeps) int {
	t.Helper()
	var jobs int
	err := deps.BunDB.NewSelect().
		TableExpr("river_job").
		ColumnExpr("count(*)").
		Where("kind = ?", "vault_payout").
		Scan(deps.Ctx, &jobs)
	require.NoError(t, err)
	return jobs
}
