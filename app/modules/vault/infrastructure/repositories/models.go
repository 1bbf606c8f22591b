package vaultdb

import (
	"time"

	vaultdomain "github.com/acain89/SkillGrid/app/modules/vault/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Account struct {
	bun.BaseModel `bun:"table:vault_accounts,alias:va"`

	UserID       string    `bun:"user_id,pk"`
	BalanceCents int64     `bun:"balance_cents,notnull,default:0"`
	Version      int64     `bun:"version,notnull,default:0"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

type Entry struct {
	bun.BaseModel `bun:"table:vault_ledger_entries,alias:ve"`

	ID                uuid.UUID         `bun:"id,pk,type:uuid"`
	Seq               int64             `bun:"seq,nullzero"`
	UserID            string            `bun:"user_id,notnull"`
	Kind              string            `bun:"kind,notnull"`
	AmountCents       int64             `bun:"amount_cents,notnull"`
	BalanceAfterCents int64             `bun:"balance_after_cents,notnull"`
	Metadata          map[string]string `bun:"metadata,type:jsonb"`
	IdempotencyKey    string            `bun:"idempotency_key,nullzero"`
	CreatedAt         time.Time         `bun:"created_at,notnull"`
}

type PendingPayout struct {
	bun.BaseModel `bun:"table:vault_payout_outbox,alias:vpo"`

	WithdrawalID uuid.UUID  `bun:"withdrawal_id,pk,type:uuid"`
	UserID       string     `bun:"user_id,notnull"`
	AmountCents  int64      `bun:"amount_cents,notnull"`
	CreatedAt    time.Time  `bun:"created_at,notnull"`
	QueuedAt     *time.Time `bun:"queued_at"`
}

func (p *PendingPayout) toDomain() vaultdomain.PendingPayout {
	return vaultdomain.PendingPayout{
		WithdrawalID: p.WithdrawalID,
		UserID:       p.UserID,
		AmountCents:  p.AmountCents,
		CreatedAt:    p.CreatedAt,
	}
}

func (a *Account) toDomain() vaultdomain.Account {
	return vaultdomain.Account{
		UserID:       a.UserID,
		BalanceCents: a.BalanceCents,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func entryFromDomain(e vaultdomain.Entry) *Entry {
	return &Entry{
		ID:                e.ID,
		UserID:            e.UserID,
		Kind:              string(e.Kind),
		AmountCents:       e.AmountCents,
		BalanceAfterCents: e.BalanceAfterCents,
		Metadata:          e.Metadata,
		IdempotencyKey:    e.IdempotencyKey,
		CreatedAt:         e.CreatedAt,
	}
}

func (e *Entry) toDomain() vaultdomain.Entry {
	return vaultdomain.Entry{
		ID:                e.ID,
		Seq:               e.Seq,
		UserID:            e.UserID,
		Kind:              vaultdomain.Kind(e.Kind),
		AmountCents:       e.AmountCents,
		BalanceAfterCents: e.BalanceAfterCents,
		Metadata:          e.Metadata,
		IdempotencyKey:    e.IdempotencyKey,
		CreatedAt:         e.CreatedAt,
	}
}
