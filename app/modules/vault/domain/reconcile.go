package vaultdomain

import "github.com/google/uuid"

// Reconciliation compares a stored balance with a replay of its ledger.
type Reconciliation struct {
	UserID         string     `json:"user_id"`
	BalanceCents   int64      `json:"balance_cents"`
	LedgerSumCents int64      `json:"ledger_sum_cents"`
	DriftCents     int64      `json:"drift_cents"`
	Entries        int        `json:"entries"`
	FirstBrokenID  *uuid.UUID `json:"first_broken_entry_id,omitempty"`
}

// Consistent reports whether the balance and every running total agree.
func (r Reconciliation) Consistent() bool { return r.DriftCents == 0 && r.FirstBrokenID == nil }

// Reconcile replays entries, oldest first, against balance.
func Reconcile(userID string, balance int64, entries []Entry) Reconciliation {
	r := Reconciliation{UserID: userID, BalanceCents: balance, Entries: len(entries)}
	for _, e := range entries {
		r.LedgerSumCents += e.AmountCents
		if r.FirstBrokenID == nil && e.BalanceAfterCents != r.LedgerSumCents {
			id := e.ID
			r.FirstBrokenID = &id
		}
	}
	r.DriftCents = balance - r.LedgerSumCents
	return r
}
