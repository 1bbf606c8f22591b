package matchdomain

import "errors"

var (
	// ErrInvalidMatchID is returned for IDs not shaped "<tournament>.<round>.<match>".
	ErrInvalidMatchID = errors.New("invalid match id")
	// ErrSeriesNotStarted is returned for a game type whose series has not begun.
	ErrSeriesNotStarted = errors.New("series not started")
	// ErrGameNumberAhead is returned when a result names a game that has not been played yet.
	ErrGameNumberAhead = errors.New("game number ahead of series")
	// ErrMatchDecided is returned for moves after the triathlon has a winner.
	ErrMatchDecided = errors.New("match already decided")
	// ErrInvalidResult is returned for a result seat other than A, B or none (draw).
	ErrInvalidResult = errors.New("invalid game result")
)
