// Package matchbracket records decided triathlons in the tournament bracket.
package matchbracket

import (
	"context"
	"fmt"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	matchservice "github.com/acain89/SkillGrid/app/modules/match/application"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	tournamentdomain "github.com/acain89/SkillGrid/app/modules/tournament/domain"
	"github.com/google/uuid"
)

// Recorder is the part of the tournament service the adapter needs.
type Recorder interface {
	RecordBracketMatchResult(ctx context.Context, id uuid.UUID, round, match int, winningSeat tournamentdomain.Seat) (tournamentservice.MatchOutcomeResult, error)
}

// OutcomePublisher announces recorded outcomes.
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, out tournamentservice.MatchOutcome) error
}

// Bracket implements matchservice.BracketRecorder.
type Bracket struct {
	tournaments Recorder
	publisher   OutcomePublisher
}

var _ matchservice.BracketRecorder = (*Bracket)(nil)

func New(tournaments Recorder, publisher OutcomePublisher) *Bracket {
	return &Bracket{tournaments: tournaments, publisher: publisher}
}

// RecordMatchWinner records winner and publishes the outcome. A replay the
// session already saw recorded is not published again.
func (b *Bracket) RecordMatchWinner(ctx context.Context, sess matchdomain.Session, winner gamedomain.Seat) (matchservice.BracketResult, error) {
	seat, err := bracketSeat(winner)
	if err != nil {
		return matchservice.BracketResult{}, fmt.Errorf("%w: %w", matchservice.ErrBracketRejected, err)
	}

	res, err := b.tournaments.RecordBracketMatchResult(ctx, sess.TournamentID, sess.Round, sess.Match, seat)
	if err != nil {
		return matchservice.BracketResult{}, err
	}
	if res.IsFailure() {
		return matchservice.BracketResult{}, fmt.Errorf("%w: %w", matchservice.ErrBracketRejected, *res.Failure)
	}
	out := *res.Success

	if !(out.Duplicate && sess.BracketRecorded) {
		if err := b.publisher.PublishOutcome(ctx, out); err != nil {
			return matchservice.BracketResult{}, err
		}
	}

	return matchservice.BracketResult{
		Loser:     standing(out.Placement),
		Champion:  standing(out.ChampionPlacement),
		Duplicate: out.Duplicate,
	}, nil
}

func bracketSeat(s gamedomain.Seat) (tournamentdomain.Seat, error) {
	switch s {
	case gamedomain.SeatA:
		return tournamentdomain.SeatA, nil
	case gamedomain.SeatB:
		return tournamentdomain.SeatB, nil
	}
	return "", fmt.Errorf("%w: %d", tournamentdomain.ErrInvalidSeat, s)
}

func standing(p *tournamentdomain.Placement) *matchservice.Standing {
	if p == nil {
		return nil
	}
	return &matchservice.Standing{
		PlayerID:   p.PlayerID,
		Bucket:     p.Bucket,
		Rank:       p.Rank,
		PrizeCents: p.PrizeCents,
	}
}
