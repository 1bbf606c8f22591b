// Package tournamentevents holds the tournament topics and their payloads.
package tournamentevents

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MatchReadyV1 is published once per bracket match when its start time arrives.
	MatchReadyV1 = "tournament.match.ready.v1"
	// MatchCompletedV1 is published when a bracket match result is recorded.
	MatchCompletedV1 = "tournament.match.completed.v1"
	// CompletedV1 is published when the final is recorded.
	CompletedV1 = "tournament.completed.v1"
)

// MatchReadyPayloadV1 announces a bracket match that can begin.
type MatchReadyPayloadV1 struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	MatchID      string    `json:"match_id"`
	Round        int       `json:"round"`
	Match        int       `json:"match"`
	PlayerA      string    `json:"player_a"`
	PlayerB      string    `json:"player_b"`
	StartsAt     time.Time `json:"starts_at"`
}

// MatchCompletedPayloadV1 reports a decided bracket match and the loser's placement.
type MatchCompletedPayloadV1 struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	MatchID      string    `json:"match_id"`
	Round        int       `json:"round"`
	Match        int       `json:"match"`
	Winner       string    `json:"winner"`
	Loser        string    `json:"loser"`
	LoserBucket  string    `json:"loser_bucket"`
	LoserRank    int       `json:"loser_rank"`
	LoserPrize   int64     `json:"loser_prize_cents"`
}

// StandingV1 is one final placement.
type StandingV1 struct {
	PlayerID   string `json:"player_id"`
	Bucket     string `json:"bucket"`
	Rank       int    `json:"rank"`
	PrizeCents int64  `json:"prize_cents"`
}

// CompletedPayloadV1 closes out a tournament.
type CompletedPayloadV1 struct {
	TournamentID uuid.UUID    `json:"tournament_id"`
	Champion     string       `json:"champion"`
	Standings    []StandingV1 `json:"standings"`
	CompletedAt  time.Time    `json:"completed_at"`
}
