package vaultdomain

import "errors"

var (
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidKind              = errors.New("entry kind not allowed for this direction")
	ErrInvalidUser              = errors.New("user id is required")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrBelowWithdrawalThreshold = errors.New("withdrawal below minimum")
	ErrMissingReference         = errors.New("provider reference is required")
	ErrNotWithdrawal            = errors.New("entry is not a withdrawal")
	// ErrIdempotencyConflict means a key was reused for a different posting.
	ErrIdempotencyConflict = errors.New("idempotency key reused with different posting")
)

// IsRejection reports whether err is a ledger rule rejecting a request, as
// opposed to an infrastructure failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrInvalidKind,
		ErrInvalidUser,
		ErrInsufficientFunds,
		ErrBelowWithdrawalThreshold,
		ErrMissingReference,
		ErrNotWithdrawal,
		ErrIdempotencyConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
