package vaultservice

import (
	"context"
	"slices"
	"sync"
	"time"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	vaultdb "github.com/acain89/SkillGrid/app/modules/vault/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Vault Repo
// ------------------------

// FakeVaultRepository is an in-memory ledger. Func hooks override single calls.
type FakeVaultRepository struct {
	mu       sync.Mutex
	trace    []string
	accounts map[string]vaultdomain.Account
	entries  []vaultdomain.Entry
	payouts  map[uuid.UUID]vaultdomain.PendingPayout
	queued   map[uuid.UUID]bool

	InsertEntryFunc         func(ctx context.Context, db bun.IDB, e *vaultdomain.Entry) error
	ListEntriesFunc         func(ctx context.Context, db bun.IDB, userID string, limit int) ([]vaultdomain.Entry, error)
	InsertPendingPayoutFunc func(ctx context.Context, db bun.IDB, p vaultdomain.PendingPayout) error
}

func NewFakeVaultRepository() *FakeVaultRepository {
	return &FakeVaultRepository{
		trace:    []string{},
		accounts: map[string]vaultdomain.Account{},
		payouts:  map[uuid.UUID]vaultdomain.PendingPayout{},
		queued:   map[uuid.UUID]bool{},
	}
}

func (f *FakeVaultRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeVaultRepository) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// SetBalance overwrites a stored balance without writing an entry.
func (f *FakeVaultRepository) SetBalance(userID string, cents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.accounts[userID]
	a.UserID = userID
	a.BalanceCents = cents
	f.accounts[userID] = a
}

func (f *FakeVaultRepository) EnsureAccount(ctx context.Context, db bun.IDB, userID string, now time.Time) error {
	f.record("EnsureAccount")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[userID]; !ok {
		f.accounts[userID] = vaultdomain.Account{UserID: userID, CreatedAt: now, UpdatedAt: now}
	}
	return nil
}

func (f *FakeVaultRepository) GetAccount(ctx context.Context, db bun.IDB, userID string) (vaultdomain.Account, error) {
	f.record("GetAccount")
	return f.account(userID)
}

func (f *FakeVaultRepository) GetAccountForUpdate(ctx context.Context, db bun.IDB, userID string) (vaultdomain.Account, error) {
	f.record("GetAccountForUpdate")
	return f.account(userID)
}

func (f *FakeVaultRepository) account(userID string) (vaultdomain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[userID]
	if !ok {
		return vaultdomain.Account{}, vaultdb.ErrNotFound
	}
	return a, nil
}

func (f *FakeVaultRepository) UpdateBalance(ctx context.Context, db bun.IDB, a *vaultdomain.Account) error {
	f.record("UpdateBalance")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accounts[a.UserID].Version != a.Version {
		return vaultdb.ErrVersionConflict
	}
	a.Version++
	f.accounts[a.UserID] = *a
	return nil
}

func (f *FakeVaultRepository) InsertEntry(ctx context.Context, db bun.IDB, e *vaultdomain.Entry) error {
	f.record("InsertEntry")
	if f.InsertEntryFunc != nil {
		return f.InsertEntryFunc(ctx, db, e)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.Seq = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *FakeVaultRepository) GetEntry(ctx context.Context, db bun.IDB, id uuid.UUID) (vaultdomain.Entry, error) {
	f.record("GetEntry")
	return f.find(func(e vaultdomain.Entry) bool { return e.ID == id })
}

func (f *FakeVaultRepository) GetEntryByIdempotencyKey(ctx context.Context, db bun.IDB, key string) (vaultdomain.Entry, error) {
	f.record("GetEntryByIdempotencyKey")
	return f.find(func(e vaultdomain.Entry) bool { return e.IdempotencyKey == key })
}

func (f *FakeVaultRepository) find(match func(vaultdomain.Entry) bool) (vaultdomain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if match(e) {
			return e, nil
		}
	}
	return vaultdomain.Entry{}, vaultdb.ErrNotFound
}

func (f *FakeVaultRepository) ListEntries(ctx context.Context, db bun.IDB, userID string, limit int) ([]vaultdomain.Entry, error) {
	f.record("ListEntries")
	if f.ListEntriesFunc != nil {
		return f.ListEntriesFunc(ctx, db, userID, limit)
	}
	all, _ := f.ListAllEntries(ctx, db, userID)
	slices.Reverse(all)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *FakeVaultRepository) ListAllEntries(ctx context.Context, db bun.IDB, userID string) ([]vaultdomain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []vaultdomain.Entry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *FakeVaultRepository) InsertPendingPayout(ctx context.Context, db bun.IDB, p vaultdomain.PendingPayout) error {
	f.record("InsertPendingPayout")
	if f.InsertPendingPayoutFunc != nil {
		return f.InsertPendingPayoutFunc(ctx, db, p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payouts[p.WithdrawalID]; !ok {
		f.payouts[p.WithdrawalID] = p
	}
	return nil
}

func (f *FakeVaultRepository) ListPendingPayouts(ctx context.Context, db bun.IDB, limit int) ([]vaultdomain.PendingPayout, error) {
	f.record("ListPendingPayouts")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []vaultdomain.PendingPayout
	for id, p := range f.payouts {
		if !f.queued[id] {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b vaultdomain.PendingPayout) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeVaultRepository) MarkPayoutQueued(ctx context.Context, db bun.IDB, withdrawalID uuid.UUID, now time.Time) error {
	f.record("MarkPayoutQueued")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payouts[withdrawalID]; ok {
		f.queued[withdrawalID] = true
	}
	return nil
}

// Pending returns the payouts still waiting for a job.
func (f *FakeVaultRepository) Pending() []vaultdomain.PendingPayout {
	f.mu.Lock()
	n := len(f.payouts)
	f.mu.Unlock()
	all, _ := f.ListPendingPayouts(context.Background(), nil, n+1)
	return all
}

var _ vaultdb.Repository = (*FakeVaultRepository)(nil)

// ------------------------
// Fake Payout Queue
// ------------------------

type FakePayoutQueue struct {
	Payouts []Payout

	EnqueuePayoutFunc func(ctx context.Context, p Payout) error
}

func (f *FakePayoutQueue) EnqueuePayout(ctx context.Context, p Payout) error {
	if f.EnqueuePayoutFunc != nil {
		if err := f.EnqueuePayoutFunc(ctx, p); err != nil {
			return err
		}
	}
	f.Payouts = append(f.Payouts, p)
	return nil
}

var _ PayoutQueue = (*FakePayoutQueue)(nil)

// ------------------------
// Fake Entry Notifier
// ------------------------

type FakeEntryNotifier struct {
	Entries []vaultdomain.Entry
}

func (f *FakeEntryNotifier) EntryRecorded(ctx context.Context, e vaultdomain.Entry) error {
	f.Entries = append(f.Entries, e)
	return nil
}

var _ EntryNotifier = (*FakeEntryNotifier)(nil)
