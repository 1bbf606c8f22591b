package matchdomain

import (
	"fmt"

	gamedomain "github.com/acain89/SkillGrid/app/modules/game/domain"
)

// GameOrder is the fixed order in which a triathlon plays its series.
var GameOrder = []gamedomain.GameType{
	gamedomain.GameConnectFour,
	gamedomain.GameCheckers,
	gamedomain.GameGridTrap,
}

// SeriesToTakeMatch is the number of series wins that decides a triathlon.
const SeriesToTakeMatch = 2

// Triathlon runs the three series that decide one bracket match.
type Triathlon struct {
	Series           []Series        `json:"series"`
	GamesWonA        int             `json:"games_won_a"`
	GamesWonB        int             `json:"games_won_b"`
	Winner           gamedomain.Seat `json:"winner,omitempty"`
	DecidedByDefault bool            `json:"decided_by_default,omitempty"`
}

// GameRecord describes the effect of one game result on the triathlon.
type GameRecord struct {
	GameType       gamedomain.GameType
	GameNumber     int
	Duplicate      bool
	SeriesComplete bool
	SeriesWinner   gamedomain.Seat
	Decided        bool
	Winner         gamedomain.Seat
}

// MoveRecord is the outcome of a move: the engine event and, when the move
// ended a game, the recorded result.
type MoveRecord struct {
	GameType   gamedomain.GameType
	GameNumber int
	Event      gamedomain.Event
	Result     *GameRecord
}

// firstMoverFor alternates the opening seat per series: A, B, A.
func firstMoverFor(series int) gamedomain.Seat {
	if series%2 == 0 {
		return gamedomain.SeatA
	}
	return gamedomain.SeatB
}

// NewTriathlon starts the first series.
func NewTriathlon(setup gamedomain.Setup) (Triathlon, error) {
	s, err := NewSeries(GameOrder[0], firstMoverFor(0), setup)
	if err != nil {
		return Triathlon{}, err
	}
	return Triathlon{Series: []Series{s}}, nil
}

// Decided reports whether the triathlon has a winner.
func (t Triathlon) Decided() bool { return t.Winner.Valid() }

// Active returns the series currently being played.
func (t Triathlon) Active() (Series, bool) {
	if t.Decided() || len(t.Series) == 0 {
		return Series{}, false
	}
	s := t.Series[len(t.Series)-1]
	if s.Complete() {
		return Series{}, false
	}
	return s, true
}

func (t Triathlon) seriesIndex(gt gamedomain.GameType) int {
	for i, s := range t.Series {
		if s.GameType == gt {
			return i
		}
	}
	return -1
}

func (t Triathlon) frozen(gt gamedomain.GameType, gameNumber int) GameRecord {
	rec := GameRecord{
		GameType:   gt,
		GameNumber: gameNumber,
		Duplicate:  true,
		Decided:    t.Decided(),
		Winner:     t.Winner,
	}
	if i := t.seriesIndex(gt); i >= 0 {
		rec.SeriesComplete = t.Series[i].Complete()
		rec.SeriesWinner = t.Series[i].Winner
	}
	return rec
}

// RecordGame applies one game result to the series of game type gt.
// gameNumber is the 1-based game within that series; 0 means the game in
// play. Results for games already counted, for finished series, or after
// the triathlon is decided are duplicates and change nothing. setup seeds
// whichever game starts next.
func (t Triathlon) RecordGame(gt gamedomain.GameType, gameNumber int, winner gamedomain.Seat, setup gamedomain.Setup) (Triathlon, GameRecord, error) {
	if !gt.Valid() {
		return t, GameRecord{}, fmt.Errorf("%w: %q", gamedomain.ErrUnknownGame, gt)
	}
	i := t.seriesIndex(gt)
	if i < 0 {
		if t.Decided() {
			return t, t.frozen(gt, gameNumber), nil
		}
		return t, GameRecord{}, fmt.Errorf("%w: %s", ErrSeriesNotStarted, gt)
	}

	s := t.Series[i]
	if t.Decided() || s.Complete() {
		return t, t.frozen(gt, gameNumber), nil
	}

	expected := s.GameNumber()
	if gameNumber == 0 {
		gameNumber = expected
	}
	if gameNumber < expected {
		return t, t.frozen(gt, gameNumber), nil
	}
	if gameNumber > expected {
		return t, GameRecord{}, fmt.Errorf("%w: %s game %d, expected %d", ErrGameNumberAhead, gt, gameNumber, expected)
	}

	s, res, err := s.Record(winner, setup)
	if err != nil {
		return t, GameRecord{}, err
	}

	next := t
	next.Series = append([]Series(nil), t.Series...)
	next.Series[i] = s

	rec := GameRecord{GameType: gt, GameNumber: gameNumber}
	if res.Complete {
		rec.SeriesComplete = true
		rec.SeriesWinner = res.Winner
		if res.Winner == gamedomain.SeatA {
			next.GamesWonA++
		} else {
			next.GamesWonB++
		}
		next = next.settle()

		if !next.Decided() && len(next.Series) < len(GameOrder) {
			idx := len(next.Series)
			started, err := NewSeries(GameOrder[idx], firstMoverFor(idx), setup)
			if err != nil {
				return t, GameRecord{}, err
			}
			next.Series = append(next.Series, started)
		}
	}
	rec.Decided = next.Decided()
	rec.Winner = next.Winner
	return next, rec, nil
}

// ApplyMove plays a move in the active series. A move that ends a game is
// recorded immediately.
func (t Triathlon) ApplyMove(move gamedomain.Move, seat gamedomain.Seat, setup gamedomain.Setup) (Triathlon, MoveRecord, error) {
	if t.Decided() {
		return t, MoveRecord{}, ErrMatchDecided
	}
	active, ok := t.Active()
	if !ok {
		return t, MoveRecord{}, ErrMatchDecided
	}
	if move == nil || move.GameType() != active.GameType {
		return t, MoveRecord{}, gamedomain.ErrWrongGame
	}

	played, ev, err := active.Apply(move, seat)
	if err != nil {
		return t, MoveRecord{}, err
	}

	next := t
	next.Series = append([]Series(nil), t.Series...)
	next.Series[len(next.Series)-1] = played

	out := MoveRecord{GameType: active.GameType, GameNumber: active.GameNumber(), Event: ev}
	if !ev.Terminal() {
		return next, out, nil
	}

	winner := gamedomain.SeatNone
	if ev.Kind == gamedomain.EventWin {
		winner = ev.Winner
	}
	next, rec, err := next.RecordGame(active.GameType, out.GameNumber, winner, setup)
	if err != nil {
		return t, MoveRecord{}, err
	}
	out.Result = &rec
	return next, out, nil
}

// settle declares a winner once a tally reaches two. If every series is
// done and neither did, the higher tally wins and a tie goes to seat A with
// DecidedByDefault set.
func (t Triathlon) settle() Triathlon {
	switch {
	case t.GamesWonA >= SeriesToTakeMatch:
		t.Winner = gamedomain.SeatA
		return t
	case t.GamesWonB >= SeriesToTakeMatch:
		t.Winner = gamedomain.SeatB
		return t
	}

	if len(t.Series) < len(GameOrder) {
		return t
	}
	for _, s := range t.Series {
		if !s.Complete() {
			return t
		}
	}

	switch {
	case t.GamesWonA > t.GamesWonB:
		t.Winner = gamedomain.SeatA
	case t.GamesWonB > t.GamesWonA:
		t.Winner = gamedomain.SeatB
	default:
		t.Winner = gamedomain.SeatA
		t.DecidedByDefault = true
	}
	return t
}
