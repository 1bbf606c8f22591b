package matchdomain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
	"github.com/google/uuid"
)

// MatchID identifies a bracket match as "<tournament uuid>.<round>.<match>".
type MatchID string

// NewMatchID builds the ID of a bracket match.
func NewMatchID(tournamentID uuid.UUID, round, match int) MatchID {
	return MatchID(fmt.Sprintf("%s.%d.%d", tournamentID, round, match))
}

// Parse splits a MatchID into its tournament, round and match parts.
func (id MatchID) Parse() (uuid.UUID, int, int, error) {
	parts := strings.Split(string(id), ".")
	if len(parts) != 3 {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidMatchID, id)
	}
	tid, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidMatchID, id)
	}
	round, err := strconv.Atoi(parts[1])
	if err != nil || round < 0 {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidMatchID, id)
	}
	match, err := strconv.Atoi(parts[2])
	if err != nil || match < 0 {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidMatchID, id)
	}
	return tid, round, match, nil
}

func (id MatchID) String() string { return string(id) }

// Session is the live state of one bracket match.
type Session struct {
	MatchID      MatchID   `json:"match_id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Round        int       `json:"round"`
	Match        int       `json:"match"`
	PlayerA      string    `json:"player_a"`
	PlayerB      string    `json:"player_b"`
	Triathlon    Triathlon `json:"triathlon"`
	// BracketRecorded is set once the decided result reached the bracket.
	BracketRecorded bool      `json:"bracket_recorded"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Revision is the store revision the session was read at.
	Revision uint64 `json:"-"`
}

// NewSession seats both players and starts the first series.
func NewSession(tournamentID uuid.UUID, round, match int, playerA, playerB string, setup gamedomain.Setup, now time.Time) (Session, error) {
	if playerA == "" || playerB == "" || playerA == playerB {
		return Session{}, fmt.Errorf("session needs two distinct players, got %q and %q", playerA, playerB)
	}
	tri, err := NewTriathlon(setup)
	if err != nil {
		return Session{}, err
	}
	return Session{
		MatchID:      NewMatchID(tournamentID, round, match),
		TournamentID: tournamentID,
		Round:        round,
		Match:        match,
		PlayerA:      playerA,
		PlayerB:      playerB,
		Triathlon:    tri,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SeatOf returns the seat playerID occupies, or SeatNone.
func (s Session) SeatOf(playerID string) gamedomain.Seat {
	switch playerID {
	case s.PlayerA:
		return gamedomain.SeatA
	case s.PlayerB:
		return gamedomain.SeatB
	}
	return gamedomain.SeatNone
}

// PlayerAt returns the player in seat.
func (s Session) PlayerAt(seat gamedomain.Seat) string {
	switch seat {
	case gamedomain.SeatA:
		return s.PlayerA
	case gamedomain.SeatB:
		return s.PlayerB
	}
	return ""
}

// NeedsBracketRecord reports whether a decided result has not yet reached the bracket.
func (s Session) NeedsBracketRecord() bool {
	return s.Triathlon.Decided() && !s.BracketRecorded
}
