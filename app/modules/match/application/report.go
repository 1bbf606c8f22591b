package matchservice

import (
	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
)

// Status is where a triathlon leaves its players.
type Status string

const (
	StatusContinue   Status = "continue"
	StatusAdvance    Status = "advance"
	StatusEliminated Status = "eliminated"
	StatusChampion   Status = "champion"
)

// TriathlonReport describes a match after one game result. Status is the
// winner's view: continue while undecided, then advance or champion.
type TriathlonReport struct {
	MatchID          matchdomain.MatchID `json:"match_id"`
	GameType         gamedomain.GameType `json:"game_type"`
	GameNumber       int                 `json:"game_number"`
	Duplicate        bool                `json:"duplicate"`
	SeriesComplete   bool                `json:"series_complete"`
	SeriesWinner     gamedomain.Seat     `json:"series_winner,omitempty"`
	Status           Status              `json:"status"`
	Winner           gamedomain.Seat     `json:"winner,omitempty"`
	GamesWonA        int                 `json:"games_won_a"`
	GamesWonB        int                 `json:"games_won_b"`
	DecidedByDefault bool                `json:"decided_by_default,omitempty"`
	Loser            *Standing           `json:"loser,omitempty"`
	Champion         *Standing           `json:"champion,omitempty"`
}

func newReport(sess matchdomain.Session, rec matchdomain.GameRecord) TriathlonReport {
	tri := sess.Triathlon
	return TriathlonReport{
		MatchID:          sess.MatchID,
		GameType:         rec.GameType,
		GameNumber:       rec.GameNumber,
		Duplicate:        rec.Duplicate,
		SeriesComplete:   rec.SeriesComplete,
		SeriesWinner:     rec.SeriesWinner,
		Status:           StatusContinue,
		Winner:           tri.Winner,
		GamesWonA:        tri.GamesWonA,
		GamesWonB:        tri.GamesWonB,
		DecidedByDefault: tri.DecidedByDefault,
	}
}

// Decided reports whether the match has a winner.
func (r TriathlonReport) Decided() bool { return r.Winner.Valid() }

// StatusFor returns the status from seat's point of view.
func (r TriathlonReport) StatusFor(seat gamedomain.Seat) Status {
	if !r.Decided() {
		return StatusContinue
	}
	if seat != r.Winner {
		return StatusEliminated
	}
	return r.Status
}

// StandingFor returns the placement that applies to seat, if any.
func (r TriathlonReport) StandingFor(seat gamedomain.Seat) *Standing {
	if !r.Decided() {
		return nil
	}
	if seat == r.Winner {
		return r.Champion
	}
	return r.Loser
}

func (r *TriathlonReport) applyBracket(br BracketResult) {
	r.Loser = br.Loser
	r.Champion = br.Champion
	if br.Champion != nil {
		r.Status = StatusChampion
		return
	}
	r.Status = StatusAdvance
}
