package tournamentdomain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// BracketSize is the only supported field size.
	BracketSize = 16
	// RoundCount is the number of rounds in a 16-player single elimination.
	RoundCount = 4
	// FinalRound is the index of the championship round.
	FinalRound = RoundCount - 1

	DefaultNextRoundDelay = 30 * time.Second
)

// RoundSizes holds the match count of each round.
var RoundSizes = [RoundCount]int{8, 4, 2, 1}

// Status is the tournament lifecycle. It only moves forward.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
)

func (s Status) Valid() bool {
	return s == StatusWaiting || s == StatusRunning || s == StatusComplete
}

// MatchStatus is the lifecycle of one bracket match.
type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusReady      MatchStatus = "ready"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusComplete   MatchStatus = "complete"
)

// Seat names a side of a bracket match.
type Seat string

const (
	SeatA Seat = "A"
	SeatB Seat = "B"
)

func (s Seat) Valid() bool { return s == SeatA || s == SeatB }

// Player is a registered entrant.
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Match is one node of the bracket.
type Match struct {
	Round       int         `json:"round"`
	Index       int         `json:"index"`
	SeatA       string      `json:"seat_a,omitempty"`
	SeatB       string      `json:"seat_b,omitempty"`
	Winner      string      `json:"winner,omitempty"`
	Loser       string      `json:"loser,omitempty"`
	Status      MatchStatus `json:"status"`
	StartsAt    *time.Time  `json:"starts_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// PlayerAt returns the player in seat.
func (m Match) PlayerAt(seat Seat) string {
	if seat == SeatA {
		return m.SeatA
	}
	return m.SeatB
}

// Round is an ordered list of matches.
type Round struct {
	Index   int     `json:"index"`
	Matches []Match `json:"matches"`
}

// Finished reports whether every match in the round is complete.
func (r Round) Finished() bool {
	for _, m := range r.Matches {
		if m.Status != MatchStatusComplete {
			return false
		}
	}
	return len(r.Matches) > 0
}

// Placement is a player's final standing.
type Placement struct {
	PlayerID   string `json:"player_id"`
	Bucket     Bucket `json:"bucket"`
	Rank       int    `json:"rank"`
	Round      int    `json:"round"`
	PrizeCents int64  `json:"prize_cents"`
}

// Tournament is a 16-player single-elimination event.
type Tournament struct {
	ID            uuid.UUID            `json:"id"`
	Tier          Tier                 `json:"tier"`
	Format        PayoutFormat         `json:"format"`
	EntryFeeCents int64                `json:"entry_fee_cents"`
	Players       []Player             `json:"players"`
	Rounds        []Round              `json:"rounds"`
	CurrentRound  int                  `json:"current_round"`
	Champion      string               `json:"champion,omitempty"`
	Placements    map[string]Placement `json:"placements"`
	Status        Status               `json:"status"`
	Version       int64                `json:"version"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
}

// HasPlayer reports whether id is registered.
func (t Tournament) HasPlayer(id string) bool {
	for _, p := range t.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Match returns the bracket match at round, index.
func (t Tournament) Match(round, index int) (Match, bool) {
	if round < 0 || round >= len(t.Rounds) {
		return Match{}, false
	}
	r := t.Rounds[round]
	if index < 0 || index >= len(r.Matches) {
		return Match{}, false
	}
	return r.Matches[index], true
}

// Standings lists placements best rank first.
func (t Tournament) Standings() []Placement {
	out := make([]Placement, 0, len(t.Placements))
	for rank := 1; rank <= BracketSize; rank++ {
		for _, p := range t.Placements {
			if p.Rank == rank {
				out = append(out, p)
			}
		}
	}
	return out
}
