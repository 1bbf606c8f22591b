package matchservice

import (
	"context"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/acain89/SkillGrid/internal/results"
	"github.com/google/uuid"
)

// Service defines the live match operations.
type Service interface {
	OpenSession(ctx context.Context, req OpenSessionRequest) (SessionResult, error)
	ApplyGameMove(ctx context.Context, id matchdomain.MatchID, seat gamedomain.Seat, move gamedomain.Move) (MoveResult, error)
	ReportSeriesGameResult(ctx context.Context, id matchdomain.MatchID, gameType gamedomain.GameType, gameNumber int, winner gamedomain.Seat) (TriathlonReportResult, error)
	GetSession(ctx context.Context, id matchdomain.MatchID) (SessionResult, error)
}

// BracketRecorder hands a decided match to the bracket. Recording the same
// winner twice must be harmless. A refusal is reported wrapped in
// ErrBracketRejected.
type BracketRecorder interface {
	RecordMatchWinner(ctx context.Context, sess matchdomain.Session, winner gamedomain.Seat) (BracketResult, error)
}

// WallGenerator picks the setup of the game-th game started in a match.
type WallGenerator interface {
	Setup(id matchdomain.MatchID, game int) gamedomain.Setup
}

// OpenSessionRequest seats two players in a bracket match.
type OpenSessionRequest struct {
	TournamentID uuid.UUID
	Round        int
	Match        int
	PlayerA      string
	PlayerB      string
}

// Standing is a placement as seen from a match.
type Standing struct {
	PlayerID   string                  `json:"player_id"`
	Bucket     tournamentdomain.Bucket `json:"bucket"`
	Rank       int                     `json:"rank"`
	PrizeCents int64                   `json:"prize_cents"`
}

// BracketResult is what the bracket reports for a decided match.
type BracketResult struct {
	Loser     *Standing
	Champion  *Standing
	Duplicate bool
}

// MoveOutcome is the result of one applied move. Report is set when the
// move ended a game.
type MoveOutcome struct {
	Session matchdomain.Session `json:"session"`
	Event   gamedomain.Event    `json:"event"`
	Game    gamedomain.GameType `json:"game_type"`
	Number  int                 `json:"game_number"`
	Report  *TriathlonReport    `json:"report,omitempty"`
}

type (
	SessionResult         = results.OperationResult[matchdomain.Session, error]
	MoveResult            = results.OperationResult[MoveOutcome, error]
	TriathlonReportResult = results.OperationResult[TriathlonReport, error]
)
