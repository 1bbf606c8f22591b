package vaultservice

import "errors"

// ErrEntryNotFound indicates no ledger entry has the requested ID.
var ErrEntryNotFound = errors.New("ledger entry not found")
