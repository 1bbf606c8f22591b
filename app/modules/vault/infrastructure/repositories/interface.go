package vaultdb

import (
	"context"
	"time"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists accounts and their ledger. A nil db uses the
// repository's own connection.
type Repository interface {
	// EnsureAccount creates a zero-balance account unless one exists.
	EnsureAccount(ctx context.Context, db bun.IDB, userID string, now time.Time) error
	GetAccount(ctx context.Context, db bun.IDB, userID string) (vaultdomain.Account, error)
	// GetAccountForUpdate row-locks the account until the transaction ends.
	GetAccountForUpdate(ctx context.Context, db bun.IDB, userID string) (vaultdomain.Account, error)
	// UpdateBalance writes a's balance if its Version still matches and bumps Version.
	UpdateBalance(ctx context.Context, db bun.IDB, a *vaultdomain.Account) error

	// InsertEntry stores e and sets e.Seq to its ledger position.
	InsertEntry(ctx context.Context, db bun.IDB, e *vaultdomain.Entry) error
	GetEntry(ctx context.Context, db bun.IDB, id uuid.UUID) (vaultdomain.Entry, error)
	GetEntryByIdempotencyKey(ctx context.Context, db bun.IDB, key string) (vaultdomain.Entry, error)
	// ListEntries returns the newest entries first, by Seq.
	ListEntries(ctx context.Context, db bun.IDB, userID string, limit int) ([]vaultdomain.Entry, error)
	// ListAllEntries returns every entry in Seq order.
	ListAllEntries(ctx context.Context, db bun.IDB, userID string) ([]vaultdomain.Entry, error)

	// InsertPendingPayout records a withdrawal that still needs a payout job.
	// Inserting the same withdrawal twice is a no-op.
	InsertPendingPayout(ctx context.Context, db bun.IDB, p vaultdomain.PendingPayout) error
	// ListPendingPayouts returns unqueued payouts, oldest first.
	ListPendingPayouts(ctx context.Context, db bun.IDB, limit int) ([]vaultdomain.PendingPayout, error)
	MarkPayoutQueued(ctx context.Context, db bun.IDB, withdrawalID uuid.UUID, now time.Time) error
}
