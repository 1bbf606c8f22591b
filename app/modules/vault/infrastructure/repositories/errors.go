package vaultdb

import "errors"

var (
	// ErrNotFound indicates the account or entry does not exist.
	ErrNotFound = errors.New("vault record not found")

	// ErrVersionConflict means the account changed since it was read.
	ErrVersionConflict = errors.New("account version conflict")
)
