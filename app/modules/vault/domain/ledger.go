package vaultdomain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a ledger entry.
type Kind string

const (
	KindDeposit            Kind = "deposit"
	KindEntryFee           Kind = "entry_fee"
	KindPrize              Kind = "prize"
	KindWithdrawal         Kind = "withdrawal"
	KindWithdrawalReversal Kind = "withdrawal_reversal"
	KindAdjustment         Kind = "adjustment"
)

// Direction says whether a posting adds to or takes from a balance.
type Direction int8

const (
	Credit Direction = 1
	Debit  Direction = -1
)

func (d Direction) String() string {
	if d == Debit {
		return "debit"
	}
	return "credit"
}

var allowedKinds = map[Direction]map[Kind]bool{
	Credit: {KindDeposit: true, KindPrize: true, KindWithdrawalReversal: true, KindAdjustment: true},
	Debit:  {KindEntryFee: true, KindWithdrawal: true, KindAdjustment: true},
}

// Allows reports whether kind can move money in direction d.
func (d Direction) Allows(kind Kind) bool { return allowedKinds[d][kind] }

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500

	DefaultWithdrawalThresholdCents int64 = 3000
)

// Account is a user's running balance.
type Account struct {
	UserID       string    `json:"user_id"`
	BalanceCents int64     `json:"balance_cents"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Entry is one immutable ledger line. AmountCents is signed: credits are
// positive and debits negative.
type Entry struct {
	ID                uuid.UUID         `json:"id"`
	Seq               int64             `json:"seq"`
	UserID            string            `json:"user_id"`
	Kind              Kind              `json:"kind"`
	AmountCents       int64             `json:"amount_cents"`
	BalanceAfterCents int64             `json:"balance_after_cents"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	IdempotencyKey    string            `json:"idempotency_key,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// PendingPayout is a committed withdrawal whose payout job has not been
// queued yet. It is written in the same transaction as the debit.
type PendingPayout struct {
	WithdrawalID uuid.UUID
	UserID       string
	AmountCents  int64
	CreatedAt    time.Time
}

// Posting is a requested balance change. AmountCents is always positive;
// Direction carries the sign.
type Posting struct {
	UserID         string
	Kind           Kind
	Direction      Direction
	AmountCents    int64
	Metadata       map[string]string
	IdempotencyKey string
}

// Validate checks the posting on its own, without looking at a balance.
func (p Posting) Validate() error {
	if p.UserID == "" {
		return ErrInvalidUser
	}
	if p.AmountCents <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, p.AmountCents)
	}
	if !p.Direction.Allows(p.Kind) {
		return fmt.Errorf("%w: %s %s", ErrInvalidKind, p.Direction, p.Kind)
	}
	return nil
}

// SignedAmount is the balance delta the posting produces.
func (p Posting) SignedAmount() int64 { return int64(p.Direction) * p.AmountCents }

// Matches reports whether e is the entry p would have produced, which is
// how a replayed idempotency key is told apart from a reused one.
func (p Posting) Matches(e Entry) bool {
	return e.UserID == p.UserID && e.Kind == p.Kind && e.AmountCents == p.SignedAmount()
}

// Post applies p to a and returns the new account and the entry recording it.
func (a Account) Post(p Posting, id uuid.UUID, now time.Time) (Account, Entry, error) {
	if err := p.Validate(); err != nil {
		return a, Entry{}, err
	}
	if p.UserID != a.UserID {
		return a, Entry{}, fmt.Errorf("%w: posting for %s against account %s", ErrInvalidUser, p.UserID, a.UserID)
	}
	delta := p.SignedAmount()
	if a.BalanceCents+delta < 0 {
		return a, Entry{}, fmt.Errorf("%w: balance %d, need %d", ErrInsufficientFunds, a.BalanceCents, p.AmountCents)
	}

	next := a
	next.BalanceCents += delta
	next.UpdatedAt = now

	return next, Entry{
		ID:                id,
		UserID:            a.UserID,
		Kind:              p.Kind,
		AmountCents:       delta,
		BalanceAfterCents: next.BalanceCents,
		Metadata:          p.Metadata,
		IdempotencyKey:    p.IdempotencyKey,
		CreatedAt:         now,
	}, nil
}

// IdempotencyKey hashes a scope and its identifying parts into a fixed-size key.
func IdempotencyKey(scope string, parts ...string) string {
	sum := sha256.Sum256([]byte(scope + "|" + strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// DepositKey makes a provider-confirmed deposit idempotent by its reference.
func DepositKey(providerReference string) string {
	return IdempotencyKey(string(KindDeposit), providerReference)
}

// ReversalKey ties a reversal to the withdrawal it undoes.
func ReversalKey(withdrawalID uuid.UUID) string {
	return IdempotencyKey(string(KindWithdrawalReversal), withdrawalID.String())
}

// ClampHistoryLimit applies the default and upper bound to a history request.
func ClampHistoryLimit(limit, ceiling int) int {
	if ceiling <= 0 {
		ceiling = MaxHistoryLimit
	}
	if limit <= 0 {
		return min(DefaultHistoryLimit, ceiling)
	}
	return min(limit, ceiling)
}
