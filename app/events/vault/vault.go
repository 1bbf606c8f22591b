// Package vaultevents holds the vault topics and their payloads.
package vaultevents

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DepositConfirmedV1 is published by the payment provider integration once
	// funds have settled.
	DepositConfirmedV1 = "vault.deposit.confirmed.v1"
	// EntryRecordedV1 is published for every new ledger entry.
	EntryRecordedV1 = "vault.entry.recorded.v1"
)

type DepositConfirmedPayloadV1 struct {
	UserID            string `json:"user_id"`
	AmountCents       int64  `json:"amount_cents"`
	ProviderReference string `json:"provider_reference"`
}

type EntryRecordedPayloadV1 struct {
	EntryID           uuid.UUID `json:"entry_id"`
	UserID            string    `json:"user_id"`
	Kind              string    `json:"kind"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	CreatedAt         time.Time `json:"created_at"`
}
