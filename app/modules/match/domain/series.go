package matchdomain

import (
	"fmt"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
)

// WinsToTakeSeries is the best-of-three threshold.
const WinsToTakeSeries = 2

// Series is a best-of-three run of one game type between two seats.
type Series struct {
	GameType    gamedomain.GameType `json:"game_type"`
	FirstMover  gamedomain.Seat     `json:"first_mover"`
	WinsA       int                 `json:"wins_a"`
	WinsB       int                 `json:"wins_b"`
	GamesPlayed int                 `json:"games_played"`
	Current     gamedomain.Envelope `json:"current"`
	Winner      gamedomain.Seat     `json:"winner,omitempty"`
}

// SeriesResult describes the series after one game result was taken in.
type SeriesResult struct {
	Complete  bool
	Winner    gamedomain.Seat
	Duplicate bool
}

// NewSeries starts game one of a series. first moves first in games one and three.
func NewSeries(t gamedomain.GameType, first gamedomain.Seat, setup gamedomain.Setup) (Series, error) {
	engine, err := gamedomain.EngineFor(t)
	if err != nil {
		return Series{}, err
	}
	if !first.Valid() {
		return Series{}, fmt.Errorf("%w: first mover %q", ErrInvalidResult, first)
	}
	state, err := engine.NewState(first, setup)
	if err != nil {
		return Series{}, fmt.Errorf("start %s: %w", t, err)
	}
	return Series{
		GameType:   t,
		FirstMover: first,
		Current:    gamedomain.Envelope{State: state},
	}, nil
}

// Complete reports whether a seat has taken the series.
func (s Series) Complete() bool { return s.Winner.Valid() }

// GameNumber is the 1-based number of the game currently awaiting a result.
func (s Series) GameNumber() int { return s.GamesPlayed + 1 }

// Wins returns seat's game wins in this series.
func (s Series) Wins(seat gamedomain.Seat) int {
	if seat == gamedomain.SeatA {
		return s.WinsA
	}
	return s.WinsB
}

func (s Series) moverFor(game int) gamedomain.Seat {
	if game%2 == 0 {
		return s.FirstMover
	}
	return s.FirstMover.Opponent()
}

// Apply plays one move on the current game. It does not record results;
// callers hand a terminal event to Record.
func (s Series) Apply(move gamedomain.Move, seat gamedomain.Seat) (Series, gamedomain.Event, error) {
	if s.Complete() {
		return s, gamedomain.Event{}, gamedomain.ErrGameOver
	}
	engine, err := gamedomain.EngineFor(s.GameType)
	if err != nil {
		return s, gamedomain.Event{}, err
	}
	next, ev, err := engine.Apply(s.Current.State, move, seat)
	if err != nil {
		return s, gamedomain.Event{}, err
	}
	s.Current = gamedomain.Envelope{State: next}
	return s, ev, nil
}

// Record takes one game result. winner is SeatA, SeatB, or SeatNone for a
// draw. A draw replays the game without touching either counter. When the
// series continues, the next game starts from setup with the other seat
// moving first. Results after completion change nothing.
func (s Series) Record(winner gamedomain.Seat, setup gamedomain.Setup) (Series, SeriesResult, error) {
	if s.Complete() {
		return s, SeriesResult{Complete: true, Winner: s.Winner, Duplicate: true}, nil
	}
	if winner != gamedomain.SeatNone && !winner.Valid() {
		return s, SeriesResult{}, fmt.Errorf("%w: %d", ErrInvalidResult, winner)
	}

	next := s
	next.GamesPlayed++
	switch winner {
	case gamedomain.SeatA:
		next.WinsA++
	case gamedomain.SeatB:
		next.WinsB++
	}

	if next.WinsA >= WinsToTakeSeries || next.WinsB >= WinsToTakeSeries {
		next.Winner = winner
		return next, SeriesResult{Complete: true, Winner: winner}, nil
	}

	engine, err := gamedomain.EngineFor(s.GameType)
	if err != nil {
		return s, SeriesResult{}, err
	}
	state, err := engine.NewState(next.moverFor(next.GamesPlayed), setup)
	if err != nil {
		return s, SeriesResult{}, fmt.Errorf("start %s game %d: %w", s.GameType, next.GameNumber(), err)
	}
	next.Current = gamedomain.Envelope{State: state}
	return next, SeriesResult{}, nil
}
