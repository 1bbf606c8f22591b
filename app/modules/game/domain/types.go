package gamedomain

import (
	"fmt"
)

// Seat is one of the two competing positions in a game.
type Seat int8

const (
	SeatNone Seat = iota
	SeatA
	SeatB
)

// Opponent returns the other seat. SeatNone has no opponent.
func (s Seat) Opponent() Seat {
	switch s {
	case SeatA:
		return SeatB
	case SeatB:
		return SeatA
	default:
		return SeatNone
	}
}

func (s Seat) Valid() bool { return s == SeatA || s == SeatB }

func (s Seat) String() string {
	switch s {
	case SeatA:
		return "A"
	case SeatB:
		return "B"
	default:
		return ""
	}
}

func (s Seat) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Seat) UnmarshalText(b []byte) error {
	seat, err := ParseSeat(string(b))
	if err != nil {
		return err
	}
	*s = seat
	return nil
}

// ParseSeat accepts "A", "B" (case-insensitive) or "" for no seat.
func ParseSeat(v string) (Seat, error) {
	switch v {
	case "A", "a":
		return SeatA, nil
	case "B", "b":
		return SeatB, nil
	case "":
		return SeatNone, nil
	}
	return SeatNone, fmt.Errorf("invalid seat %q", v)
}

// GameType identifies one of the three game rule sets.
type GameType string

const (
	GameConnectFour GameType = "connect_four"
	GameCheckers    GameType = "checkers"
	GameGridTrap    GameType = "grid_trap"
)

func (t GameType) Valid() bool {
	switch t {
	case GameConnectFour, GameCheckers, GameGridTrap:
		return true
	}
	return false
}

// Status is the lifecycle of a single game.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusDecided    Status = "decided"
	StatusDrawn      Status = "drawn"
)

// Coord addresses a grid cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// EventKind describes what a successful move did to the game.
type EventKind string

const (
	EventMoved EventKind = "moved"
	EventWin   EventKind = "win"
	EventDraw  EventKind = "draw"
)

// Event is the outcome of one applied move.
type Event struct {
	Kind   EventKind `json:"kind"`
	Game   GameType  `json:"game"`
	Seat   Seat      `json:"seat"`
	Winner Seat      `json:"winner,omitempty"`
	Reason string    `json:"reason,omitempty"`

	// Connector-Four
	Placed       *Coord  `json:"placed,omitempty"`
	WinningCells []Coord `json:"winning_cells,omitempty"`

	// Checkers and Grid-Trap
	From     *Coord  `json:"from,omitempty"`
	To       *Coord  `json:"to,omitempty"`
	Captured []Coord `json:"captured,omitempty"`
	Promoted bool    `json:"promoted,omitempty"`
	Blocked  *Coord  `json:"blocked,omitempty"`
}

// Terminal reports whether the event ended the game.
func (e Event) Terminal() bool { return e.Kind == EventWin || e.Kind == EventDraw }

// State is the immutable snapshot of one game. Implementations are value types;
// engines never mutate the state they are given.
type State interface {
	GameType() GameType
	Status() Status
	Winner() Seat
	ToMove() Seat
}

// Move is a proposed action for a specific game type.
type Move interface {
	GameType() GameType
}

// Setup carries per-game initial conditions chosen outside the engine.
type Setup struct {
	StaticWalls []Coord `json:"static_walls,omitempty"`
}

// Engine validates moves for one game type and detects terminal conditions.
type Engine interface {
	Type() GameType
	NewState(firstMover Seat, setup Setup) (State, error)
	Apply(state State, move Move, seat Seat) (State, Event, error)
}

var (
	_ Engine = ConnectFour{}
	_ Engine = Checkers{}
	_ Engine = GridTrap{}
)

// EngineFor returns the engine for a game type.
func EngineFor(t GameType) (Engine, error) {
	switch t {
	case GameConnectFour:
		return ConnectFour{}, nil
	case GameCheckers:
		return Checkers{}, nil
	case GameGridTrap:
		return GridTrap{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGame, t)
}

// checkTurn runs the checks shared by every engine before rule evaluation.
func checkTurn(state State, move Move, seat Seat, want GameType) error {
	if state == nil || state.GameType() != want || move == nil || move.GameType() != want {
		return newMoveError(KindWrongGame, "expected %s state and move", want)
	}
	if state.Status() != StatusInProgress {
		return newMoveError(KindGameOver, "game already %s", state.Status())
	}
	if !seat.Valid() {
		return newMoveError(KindNotYourTurn, "unknown seat")
	}
	if state.ToMove() != seat {
		return newMoveError(KindNotYourTurn, "seat %s to move", state.ToMove())
	}
	return nil
}
