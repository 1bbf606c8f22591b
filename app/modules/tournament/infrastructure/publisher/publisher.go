// Package tournamentpublisher turns recorded bracket outcomes into events.
package tournamentpublisher

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	tournamentevents "github.com/acain89/SkillGrid/app/events/tournament"
	matchdomain "github.com/acain89/SkillGrid/app/modules/match/domain"
	tournamentservice "github.com/acain89/SkillGrid/app/modules/tournament/application"
	"github.com/acain89/SkillGrid/internal/handlerwrapper"
)

// OutcomeResults lists the events a recorded match outcome produces. A
// duplicate outcome produces the same events again; consumers dedupe by
// match ID.
func OutcomeResults(out tournamentservice.MatchOutcome) []handlerwrapper.Result {
	t := out.Tournament
	m := out.Match

	completed := tournamentevents.MatchCompletedPayloadV1{
		TournamentID: t.ID,
		MatchID:      string(matchdomain.NewMatchID(t.ID, m.Round, m.Index)),
		Round:        m.Round,
		Match:        m.Index,
		Winner:       m.Winner,
		Loser:        m.Loser,
	}
	if p := out.Placement; p != nil {
		completed.LoserBucket = string(p.Bucket)
		completed.LoserRank = p.Rank
		completed.LoserPrize = p.PrizeCents
	}

	results := []handlerwrapper.Result{{
		Topic:   tournamentevents.MatchCompletedV1,
		Payload: completed,
	}}

	if out.Completed && t.CompletedAt != nil {
		standings := make([]tournamentevents.StandingV1, 0, len(t.Placements))
		for _, p := range t.Standings() {
			standings = append(standings, tournamentevents.StandingV1{
				PlayerID:   p.PlayerID,
				Bucket:     string(p.Bucket),
				Rank:       p.Rank,
				PrizeCents: p.PrizeCents,
			})
		}
		results = append(results, handlerwrapper.Result{
			Topic: tournamentevents.CompletedV1,
			Payload: tournamentevents.CompletedPayloadV1{
				TournamentID: t.ID,
				Champion:     t.Champion,
				Standings:    standings,
				CompletedAt:  *t.CompletedAt,
			},
		})
	}
	return results
}

// Publisher publishes outcome events straight to the bus, for callers that
// are not watermill handlers.
type Publisher struct {
	publisher message.Publisher
}

func New(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

func (p *Publisher) PublishOutcome(ctx context.Context, out tournamentservice.MatchOutcome) error {
	for _, r := range OutcomeResults(out) {
		msg, err := handlerwrapper.NewMessage(ctx, r)
		if err != nil {
			return err
		}
		if err := p.publisher.Publish(r.Topic, msg); err != nil {
			return fmt.Errorf("publish %s: %w", r.Topic, err)
		}
	}
	return nil
}
