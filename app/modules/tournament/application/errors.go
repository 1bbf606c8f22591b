package tournamentservice

import "errors"

// Domain errors for the tournament service. Handlers treat them as normal
// outcomes rather than retrying.
var (
	// ErrTournamentNotFound indicates no tournament has the requested ID.
	ErrTournamentNotFound = errors.New("tournament not found")

	// ErrEntryFeeDeclined indicates the vault refused a player's entry fee.
	ErrEntryFeeDeclined = errors.New("entry fee declined")
)

// errAbort rolls back a transaction whose result is a domain failure that
// arrived after some writes were already made.
var errAbort = errors.New("abort transaction")
