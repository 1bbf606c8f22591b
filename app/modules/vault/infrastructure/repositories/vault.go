package vaultdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new vault repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) EnsureAccount(ctx context.Context, db bun.IDB, userID string, now time.Time) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&Account{UserID: userID, CreatedAt: now, UpdatedAt: now}).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure account %s: %w", userID, err)
	}
	return nil
}

func (r *Impl) GetAccount(ctx context.Context, db bun.IDB, userID string) (vaultdomain.Account, error) {
	return r.getAccount(ctx, r.resolveDB(db), userID, false)
}

func (r *Impl) GetAccountForUpdate(ctx context.Context, db bun.IDB, userID string) (vaultdomain.Account, error) {
	return r.getAccount(ctx, r.resolveDB(db), userID, true)
}

func (r *Impl) getAccount(ctx context.Context, db bun.IDB, userID string, lock bool) (vaultdomain.Account, error) {
	row := new(Account)
	q := db.NewSelect().Model(row).Where("user_id = ?", userID)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vaultdomain.Account{}, ErrNotFound
		}
		return vaultdomain.Account{}, fmt.Errorf("failed to get account %s: %w", userID, err)
	}
	return row.toDomain(), nil
}

func (r *Impl) UpdateBalance(ctx context.Context, db bun.IDB, a *vaultdomain.Account) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Account)(nil)).
		Set("balance_cents = ?", a.BalanceCents).
		Set("version = version + 1").
		Set("updated_at = ?", a.UpdatedAt).
		Where("user_id = ?", a.UserID).
		Where("version = ?", a.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", a.UserID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s at version %d", ErrVersionConflict, a.UserID, a.Version)
	}
	a.Version++
	return nil
}

func (r *Impl) InsertEntry(ctx context.Context, db bun.IDB, e *vaultdomain.Entry) error {
	db = r.resolveDB(db)
	row := entryFromDomain(*e)
	if _, err := db.NewInsert().Model(row).Returning("seq").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert ledger entry for %s: %w", e.UserID, err)
	}
	e.Seq = row.Seq
	return nil
}

func (r *Impl) GetEntry(ctx context.Context, db bun.IDB, id uuid.UUID) (vaultdomain.Entry, error) {
	return r.getEntry(ctx, r.resolveDB(db), "id = ?", id)
}

func (r *Impl) GetEntryByIdempotencyKey(ctx context.Context, db bun.IDB, key string) (vaultdomain.Entry, error) {
	return r.getEntry(ctx, r.resolveDB(db), "idempotency_key = ?", key)
}

func (r *Impl) getEntry(ctx context.Context, db bun.IDB, where string, arg any) (vaultdomain.Entry, error) {
	row := new(Entry)
	if err := db.NewSelect().Model(row).Where(where, arg).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vaultdomain.Entry{}, ErrNotFound
		}
		return vaultdomain.Entry{}, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	return row.toDomain(), nil
}

func (r *Impl) ListEntries(ctx context.Context, db bun.IDB, userID string, limit int) ([]vaultdomain.Entry, error) {
	db = r.resolveDB(db)
	var rows []Entry
	err := db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("seq DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for %s: %w", userID, err)
	}
	return toDomainEntries(rows), nil
}

func (r *Impl) ListAllEntries(ctx context.Context, db bun.IDB, userID string) ([]vaultdomain.Entry, error) {
	db = r.resolveDB(db)
	var rows []Entry
	err := db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to replay ledger for %s: %w", userID, err)
	}
	return toDomainEntries(rows), nil
}

func (r *Impl) InsertPendingPayout(ctx context.Context, db bun.IDB, p vaultdomain.PendingPayout) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&PendingPayout{
			WithdrawalID: p.WithdrawalID,
			UserID:       p.UserID,
			AmountCents:  p.AmountCents,
			CreatedAt:    p.CreatedAt,
		}).
		On("CONFLICT (withdrawal_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record pending payout %s: %w", p.WithdrawalID, err)
	}
	return nil
}

func (r *Impl) ListPendingPayouts(ctx context.Context, db bun.IDB, limit int) ([]vaultdomain.PendingPayout, error) {
	db = r.resolveDB(db)
	var rows []PendingPayout
	err := db.NewSelect().
		Model(&rows).
		Where("queued_at IS NULL").
		OrderExpr("created_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payouts: %w", err)
	}
	out := make([]vaultdomain.PendingPayout, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *Impl) MarkPayoutQueued(ctx context.Context, db bun.IDB, withdrawalID uuid.UUID, now time.Time) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*PendingPayout)(nil)).
		Set("queued_at = ?", now).
		Where("withdrawal_id = ?", withdrawalID).
		Where("queued_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark payout %s queued: %w", withdrawalID, err)
	}
	return nil
}

func toDomainEntries(rows []Entry) []vaultdomain.Entry {
	out := make([]vaultdomain.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
