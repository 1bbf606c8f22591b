package tournamentservice

import (
	"context"
	"time"

	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the tournament operations.
type Service interface {
	CreateTournament(ctx context.Context, req CreateTournamentRequest) (TournamentResult, error)
	JoinTournament(ctx context.Context, id uuid.UUID, player tournamentdomain.Player) (TournamentResult, error)
	RecordBracketMatchResult(ctx context.Context, id uuid.UUID, round, match int, winningSeat tournamentdomain.Seat) (MatchOutcomeResult, error)
	GetTournament(ctx context.Context, id uuid.UUID) (TournamentResult, error)
	ListTournaments(ctx context.Context, status tournamentdomain.Status, limit int) (TournamentListResult, error)
	GetBracketMatch(ctx context.Context, id uuid.UUID, round, match int) (BracketMatchResult, error)
	StartRound(ctx context.Context, id uuid.UUID, round int) (RoundStartResult, error)
}

// Ledger posts tournament money movements inside the caller's transaction.
// Both calls are idempotent by the effect's key and return a nil LedgerPost
// when nothing new was written. A declined entry fee must be reported
// wrapped in ErrEntryFeeDeclined.
type Ledger interface {
	ChargeEntryFee(ctx context.Context, db bun.IDB, debit tournamentdomain.EntryFeeDebit) (LedgerPost, error)
	PayPrize(ctx context.Context, db bun.IDB, credit tournamentdomain.PrizeCredit) (LedgerPost, error)
}

// LedgerPost is one ledger write made inside a tournament transaction.
// Announce runs after that transaction commits.
type LedgerPost interface {
	Announce(ctx context.Context)
}

// RoundScheduler arranges for StartRound to run at startsAt. Scheduling the
// same round twice must be harmless.
type RoundScheduler interface {
	ScheduleRoundStart(ctx context.Context, tournamentID uuid.UUID, round int, startsAt time.Time) error
}

// CreateTournamentRequest holds the inputs for CreateTournament.
// EntryFeeCents 0 takes the tier's fee.
type CreateTournamentRequest struct {
	Tier          tournamentdomain.Tier
	Format        tournamentdomain.PayoutFormat
	EntryFeeCents int64
	Players       []tournamentdomain.Player
}

// MatchOutcome is what RecordBracketMatchResult reports back.
type MatchOutcome struct {
	Tournament        tournamentdomain.Tournament
	Match             tournamentdomain.Match
	Placement         *tournamentdomain.Placement
	ChampionPlacement *tournamentdomain.Placement
	Duplicate         bool
	RoundFinished     bool
	Completed         bool
}

// RoundStart lists the in-progress matches of a started round.
type RoundStart struct {
	TournamentID uuid.UUID
	Round        int
	Matches      []tournamentdomain.Match
}

type (
	TournamentResult     = results.OperationResult[tournamentdomain.Tournament, error]
	TournamentListResult = results.OperationResult[[]tournamentdomain.Tournament, error]
	MatchOutcomeResult   = results.OperationResult[MatchOutcome, error]
	BracketMatchResult   = results.OperationResult[tournamentdomain.Match, error]
	RoundStartResult     = results.OperationResult[RoundStart, error]
)
