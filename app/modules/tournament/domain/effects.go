package tournamentdomain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PrizeCredit asks the vault to pay a placement.
type PrizeCredit struct {
	TournamentID uuid.UUID
	PlayerID     string
	Bucket       Bucket
	Rank         int
	AmountCents  int64
}

// IdempotencyKey is stable for a tournament, bucket and player so a replayed
// final result can never pay twice.
func (c PrizeCredit) IdempotencyKey() string {
	return hashKey("prize", c.TournamentID.String(), string(c.Bucket), c.PlayerID)
}

// EntryFeeDebit asks the vault to charge a seat.
type EntryFeeDebit struct {
	TournamentID uuid.UUID
	PlayerID     string
	AmountCents  int64
}

func (d EntryFeeDebit) IdempotencyKey() string {
	return hashKey("entry_fee", d.TournamentID.String(), d.PlayerID)
}

// MatchReady tells both seats a match can begin at StartsAt.
type MatchReady struct {
	TournamentID uuid.UUID
	Round        int
	Match        int
	SeatA        string
	SeatB        string
	StartsAt     time.Time
}

// Effects are the side effects a bracket transition asks the caller to carry out.
type Effects struct {
	EntryFees []EntryFeeDebit
	Credits   []PrizeCredit
	Ready     []MatchReady
	Completed bool
}

// Empty reports whether there is nothing to do.
func (e Effects) Empty() bool {
	return len(e.EntryFees) == 0 && len(e.Credits) == 0 && len(e.Ready) == 0 && !e.Completed
}

func hashKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
