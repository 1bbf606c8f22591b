package tournamentdomain

import "errors"

var (
	ErrInvalidTier         = errors.New("invalid tier")
	ErrInvalidFormat       = errors.New("invalid payout format")
	ErrInvalidBucket       = errors.New("invalid placement bucket")
	ErrInvalidEntryFee     = errors.New("entry fee does not match tier")
	ErrInvalidPlayers      = errors.New("invalid player list")
	ErrDuplicatePlayer     = errors.New("player already registered")
	ErrTournamentFull      = errors.New("tournament is full")
	ErrNotWaiting          = errors.New("tournament is not accepting players")
	ErrNotRunning          = errors.New("tournament is not running")
	ErrMatchNotFound       = errors.New("bracket match not found")
	ErrMatchNotReady       = errors.New("bracket match is not ready")
	ErrMatchAlreadyDecided = errors.New("bracket match already decided with another winner")
	ErrInvalidSeat         = errors.New("invalid winning seat")

	// ErrInvariantViolation marks a bracket state that can only come from a
	// bug. Operations returning it must abort without persisting anything.
	ErrInvariantViolation = errors.New("bracket invariant violated")
)
